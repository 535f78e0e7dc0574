package validate

import (
	"context"
	"errors"
	"fmt"

	"dishquery/internal/distance"
	"dishquery/internal/licence"
	"dishquery/internal/mapping"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeMissingFile          = "missing_file"
	codeInvalidFile          = "invalid_file"
	codeUnknownLicence       = "unknown_licence"
	codeTechniqueWithoutDish = "technique_without_dishes"
	codePlanetWithoutDish    = "planet_without_dishes"
	codeAsymmetricDistance   = "asymmetric_distance"
)

type Issue struct {
	Severity Severity
	Code     string
	Message  string
	File     string
	Entity   string
}

type Report struct {
	Issues []Issue
}

func (r *Report) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (r *Report) Count(severity Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

type tables struct {
	ids     map[string]*mapping.IDs
	names   map[string]*mapping.Names
	leveled map[string]*mapping.LeveledIDs
	byLevel map[string]*mapping.LeveledNames
}

// Run checks the mapping tables in store and the distance matrix for
// problems that make tool answers silently empty.
func Run(ctx context.Context, store mapping.Store, distancesFile string) (*Report, error) {
	report := &Report{Issues: make([]Issue, 0)}
	t := tables{
		ids:     make(map[string]*mapping.IDs),
		names:   make(map[string]*mapping.Names),
		leveled: make(map[string]*mapping.LeveledIDs),
		byLevel: make(map[string]*mapping.LeveledNames),
	}

	for _, file := range []string{mapping.IngredientDishes, mapping.TechniqueDishes, mapping.PlanetDishes, mapping.RestaurantDishes} {
		m, err := store.LoadIDs(file)
		if report.fileIssue(store.Path(file), err) {
			continue
		}
		t.ids[file] = m
	}
	if m, err := store.LoadNames(mapping.CategoryTechniques); !report.fileIssue(store.Path(mapping.CategoryTechniques), err) {
		t.names[mapping.CategoryTechniques] = m
	}
	if m, err := store.LoadLeveledIDs(mapping.SkillDishes); !report.fileIssue(store.Path(mapping.SkillDishes), err) {
		t.leveled[mapping.SkillDishes] = m
	}
	if m, err := store.LoadLeveledNames(mapping.LicenceTechniques); !report.fileIssue(store.Path(mapping.LicenceTechniques), err) {
		t.byLevel[mapping.LicenceTechniques] = m
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if skills, ok := t.leveled[mapping.SkillDishes]; ok {
		report.Issues = append(report.Issues, unknownLicences(skills.Keys(), store.Path(mapping.SkillDishes))...)
	}
	if licences, ok := t.byLevel[mapping.LicenceTechniques]; ok {
		report.Issues = append(report.Issues, unknownLicences(licences.Keys(), store.Path(mapping.LicenceTechniques))...)
	}

	if techniqueDishes, ok := t.ids[mapping.TechniqueDishes]; ok {
		if categories, ok := t.names[mapping.CategoryTechniques]; ok {
			for _, entry := range categories.Entries() {
				report.Issues = append(report.Issues, techniquesWithoutDishes(techniqueDishes, entry.Value, store.Path(mapping.CategoryTechniques))...)
			}
		}
		if licences, ok := t.byLevel[mapping.LicenceTechniques]; ok {
			for _, entry := range licences.Entries() {
				for _, level := range entry.Value {
					report.Issues = append(report.Issues, techniquesWithoutDishes(techniqueDishes, level.Values, store.Path(mapping.LicenceTechniques))...)
				}
			}
		}
	}

	if distancesFile == "" {
		return report, nil
	}
	table, err := distance.Load(distancesFile)
	if report.fileIssue(distancesFile, err) {
		return report, nil
	}
	if planets, ok := t.ids[mapping.PlanetDishes]; ok {
		for _, planet := range table.Columns() {
			if _, ok := planets.Get(planet); ok {
				continue
			}
			report.Issues = append(report.Issues, Issue{
				Severity: SeverityWarn,
				Code:     codePlanetWithoutDish,
				Message:  fmt.Sprintf("planet %s has no dishes", planet),
				File:     distancesFile,
				Entity:   planet,
			})
		}
	}
	for _, pair := range table.Asymmetries() {
		report.Issues = append(report.Issues, Issue{
			Severity: SeverityWarn,
			Code:     codeAsymmetricDistance,
			Message:  fmt.Sprintf("distance from %s to %s differs from the reverse direction", pair[0], pair[1]),
			File:     distancesFile,
			Entity:   pair[0],
		})
	}

	return report, nil
}

// fileIssue records err against path and reports whether one was recorded.
func (r *Report) fileIssue(path string, err error) bool {
	if err == nil {
		return false
	}
	code := codeInvalidFile
	if errors.Is(err, mapping.ErrNotFound) {
		code = codeMissingFile
	}
	r.Issues = append(r.Issues, Issue{
		Severity: SeverityError,
		Code:     code,
		Message:  err.Error(),
		File:     path,
	})
	return true
}

func unknownLicences(names []string, path string) []Issue {
	var issues []Issue
	for _, name := range names {
		if licence.IsKnown(name) {
			continue
		}
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     codeUnknownLicence,
			Message:  fmt.Sprintf("unknown licence: %s", name),
			File:     path,
			Entity:   name,
		})
	}
	return issues
}

func techniquesWithoutDishes(techniqueDishes *mapping.IDs, techniques []string, path string) []Issue {
	var issues []Issue
	for _, technique := range techniques {
		if _, ok := techniqueDishes.Get(technique); ok {
			continue
		}
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     codeTechniqueWithoutDish,
			Message:  fmt.Sprintf("technique %s is not used by any dish", technique),
			File:     path,
			Entity:   technique,
		})
	}
	return issues
}
