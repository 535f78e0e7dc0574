package validate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"dishquery/internal/mapping"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func validFiles() map[string]string {
	return map[string]string{
		mapping.IngredientDishes:   `{"Luce Stellare": [1]}`,
		mapping.TechniqueDishes:    `{"Marinatura": [1]}`,
		mapping.PlanetDishes:       `{"Namecc": [1], "Pandora": [2]}`,
		mapping.RestaurantDishes:   `{"Eco": [1]}`,
		mapping.SkillDishes:        `{"Psionica (P)": {"2": [1]}}`,
		mapping.CategoryTechniques: `{"Marinature": ["Marinatura"]}`,
		mapping.LicenceTechniques:  `{"Psionica (P)": {"1": ["Marinatura"]}}`,
		"distances.csv":            "/,Namecc,Pandora\nNamecc,0,3\nPandora,3,0\n",
	}
}

func TestRun_Clean(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, validFiles())

	report, err := Run(context.Background(), mapping.Store{Dir: dir}, filepath.Join(dir, "distances.csv"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Issues) != 0 {
		t.Fatalf("expected no issues, got %+v", report.Issues)
	}
	if report.HasErrors() {
		t.Fatalf("expected no errors")
	}
}

func TestRun_MissingAndInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	files := validFiles()
	delete(files, mapping.RestaurantDishes)
	files[mapping.SkillDishes] = `{"Psionica (P)": [1, 2]}`
	files[mapping.IngredientDishes] = `{not json`
	writeFiles(t, dir, files)

	report, err := Run(context.Background(), mapping.Store{Dir: dir}, filepath.Join(dir, "missing.csv"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !report.HasErrors() {
		t.Fatalf("expected errors")
	}
	if got := countCode(report.Issues, codeMissingFile); got != 2 {
		t.Fatalf("expected missing restaurant file and distances, got %d: %+v", got, report.Issues)
	}
	if got := countCode(report.Issues, codeInvalidFile); got != 2 {
		t.Fatalf("expected two invalid files, got %d: %+v", got, report.Issues)
	}
	if report.Count(SeverityError) != 4 {
		t.Fatalf("expected four errors, got %d", report.Count(SeverityError))
	}
}

func TestRun_Warnings(t *testing.T) {
	dir := t.TempDir()
	files := validFiles()
	files[mapping.SkillDishes] = `{"Cucina Rapida": {"1": [1]}}`
	files[mapping.CategoryTechniques] = `{"Marinature": ["Marinatura", "Marinatura Sferica"]}`
	files["distances.csv"] = "/,Namecc,Pandora,Tatooine\nNamecc,0,3,4\nPandora,5,0,1\nTatooine,4,1,0\n"
	writeFiles(t, dir, files)

	report, err := Run(context.Background(), mapping.Store{Dir: dir}, filepath.Join(dir, "distances.csv"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.HasErrors() {
		t.Fatalf("expected warnings only, got %+v", report.Issues)
	}
	for _, code := range []string{codeUnknownLicence, codeTechniqueWithoutDish, codePlanetWithoutDish, codeAsymmetricDistance} {
		if !hasIssueCode(report.Issues, code) {
			t.Fatalf("expected %s issue, got %+v", code, report.Issues)
		}
	}
	if got := entityFor(report.Issues, codePlanetWithoutDish); got != "Tatooine" {
		t.Fatalf("expected Tatooine without dishes, got %q", got)
	}
}

func TestRun_NoDistances(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, validFiles())
	report, err := Run(context.Background(), mapping.Store{Dir: dir}, "")
	if err != nil || len(report.Issues) != 0 {
		t.Fatalf("unexpected result %+v, %v", report, err)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, mapping.Store{Dir: t.TempDir()}, ""); err == nil {
		t.Fatalf("expected context error")
	}
}

func hasIssueCode(issues []Issue, code string) bool {
	return countCode(issues, code) > 0
}

func countCode(issues []Issue, code string) int {
	n := 0
	for _, issue := range issues {
		if issue.Code == code {
			n++
		}
	}
	return n
}

func entityFor(issues []Issue, code string) string {
	for _, issue := range issues {
		if issue.Code == code {
			return issue.Entity
		}
	}
	return ""
}
