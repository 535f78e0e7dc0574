package distance

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"dishquery/internal/mapping"
	"dishquery/internal/resolve"
)

const sample = `/,Tatooine,Asgard,Namecc
Tatooine,0,3,7
Asgard,3,0,5
Namecc,7,5,0
`

func TestParse(t *testing.T) {
	table, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !reflect.DeepEqual(table.Planets(), []string{"Tatooine", "Asgard", "Namecc"}) {
		t.Fatalf("unexpected planets: %v", table.Planets())
	}
	if d, ok := table.Distance("Asgard", "Namecc"); !ok || d != 5 {
		t.Fatalf("expected 5, got %d (%v)", d, ok)
	}
}

func TestParseEmptyDiagonal(t *testing.T) {
	table, err := Parse([]byte("/,A,B\nA,,3\nB,3,\n"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if d, ok := table.Distance("A", "A"); !ok || d != 0 {
		t.Fatalf("expected self distance 0, got %d (%v)", d, ok)
	}
	if d, ok := table.Distance("B", "A"); !ok || d != 3 {
		t.Fatalf("expected 3, got %d (%v)", d, ok)
	}
	if got := table.Within("A", 0); !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("unexpected planets within 0: %v", got)
	}
}

func TestWithin(t *testing.T) {
	table, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	tests := []struct {
		max  int
		want []string
	}{
		{0, []string{"Asgard"}},
		{3, []string{"Asgard", "Tatooine"}},
		{5, []string{"Asgard", "Tatooine", "Namecc"}},
		{-1, []string{"Asgard"}},
	}
	for _, tt := range tests {
		if got := table.Within("Asgard", tt.max); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Within(Asgard, %d) = %v, want %v", tt.max, got, tt.want)
		}
	}
}

func TestDistanceSymmetric(t *testing.T) {
	table, err := Parse([]byte("/,Ego,Krypton\nEgo,0,4\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d, ok := table.Distance("Krypton", "Ego"); !ok || d != 4 {
		t.Fatalf("expected reverse lookup to find 4, got %d (%v)", d, ok)
	}
	if got := table.Within("Ego", 4); !reflect.DeepEqual(got, []string{"Ego", "Krypton"}) {
		t.Fatalf("unexpected nearby planets: %v", got)
	}
}

func TestAsymmetries(t *testing.T) {
	table, err := Parse([]byte("/,Ego,Krypton\nEgo,0,4\nKrypton,6,0\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := table.Asymmetries(); !reflect.DeepEqual(got, [][2]string{{"Ego", "Krypton"}}) {
		t.Fatalf("unexpected asymmetries: %v", got)
	}
}

func TestResolvePlanet(t *testing.T) {
	table, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got, ok := table.Resolve("namek", resolve.Options{Fuzzy: true}); !ok || got != "Namecc" {
		t.Fatalf("expected Namecc, got %q (%v)", got, ok)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty", "", mapping.ErrShape},
		{"short row", "/,A,B\nA,0\n", mapping.ErrShape},
		{"non integer", "/,A\nA,x\n", mapping.ErrShape},
		{"negative", "/,A\nA,-2\n", mapping.ErrShape},
		{"empty off diagonal", "/,A,B\nA,0,\n", mapping.ErrShape},
		{"bad quoting", "/,A\nA,\"0\n", mapping.ErrParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "distances.csv"))
	if !errors.Is(err, mapping.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "distances.csv")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
