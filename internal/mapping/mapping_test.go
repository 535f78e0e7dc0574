package mapping

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"dishquery/internal/resolve"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadIDs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, IngredientDishes, `{"Zafferano": [4, 1], "Luce Stellare": [1, 2], "Alga": []}`)

	m, err := Store{Dir: dir}.LoadIDs(IngredientDishes)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !reflect.DeepEqual(m.Keys(), []string{"Zafferano", "Luce Stellare", "Alga"}) {
		t.Fatalf("expected file order, got %v", m.Keys())
	}
	ids, ok := m.Get("Luce Stellare")
	if !ok || !reflect.DeepEqual(ids, []int{1, 2}) {
		t.Fatalf("unexpected ids: %v (%v)", ids, ok)
	}
	if ids, _ := m.Get("Alga"); ids == nil || len(ids) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", ids)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	store := Store{Dir: dir}

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"invalid json", `{"a": [1,`, ErrParse},
		{"top-level list", `[1, 2]`, ErrShape},
		{"top-level string", `"x"`, ErrShape},
		{"value not a list", `{"a": 3}`, ErrShape},
		{"null value", `{"a": null}`, ErrShape},
		{"float id", `{"a": [1.5]}`, ErrShape},
		{"string id", `{"a": ["1"]}`, ErrShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeFile(t, dir, "bad.json", tt.content)
			if _, err := store.LoadIDs("bad.json"); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		if _, err := store.LoadIDs("absent.json"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestLoadLeveled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, SkillDishes, `{
		"Psionica (P)": {"3": [5, 6], "1": [2], "VI+": [9]},
		"Temporale (t)": {}
	}`)
	writeFile(t, dir, LicenceTechniques, `{"Gravitazionale (G)": {"2": ["Marinatura"]}}`)

	store := Store{Dir: dir}
	skills, err := store.LoadLeveledIDs(SkillDishes)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	levels, ok := skills.Get("Psionica (P)")
	if !ok {
		t.Fatalf("expected Psionica entry")
	}
	want := Levels[int]{{Level: 3, Values: []int{5, 6}}, {Level: 1, Values: []int{2}}, {Level: 7, Values: []int{9}}}
	if !reflect.DeepEqual(levels, want) {
		t.Fatalf("unexpected levels: %#v", levels)
	}
	if empty, _ := skills.Get("Temporale (t)"); len(empty) != 0 {
		t.Fatalf("expected no levels, got %#v", empty)
	}

	techniques, err := store.LoadLeveledNames(LicenceTechniques)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got, _ := techniques.Get("Gravitazionale (G)"); len(got) != 1 || got[0].Values[0] != "Marinatura" {
		t.Fatalf("unexpected techniques: %#v", got)
	}

	writeFile(t, dir, "bad_level.json", `{"Psionica (P)": {"high": [1]}}`)
	if _, err := store.LoadLeveledIDs("bad_level.json"); !errors.Is(err, ErrShape) {
		t.Fatalf("expected ErrShape for unparseable level, got %v", err)
	}
}

func TestLookup(t *testing.T) {
	m := New[[]int]()
	m.Set("Tomato", []int{1})
	m.Set("Basilico", []int{2})

	key, ids, ok := m.Lookup("TOMATO", resolve.Options{})
	if !ok || key != "Tomato" || !reflect.DeepEqual(ids, []int{1}) {
		t.Fatalf("unexpected exact lookup: %q %v %v", key, ids, ok)
	}
	if _, _, ok := m.Lookup("tomatos", resolve.Options{}); ok {
		t.Fatalf("expected miss without fuzzy fallback")
	}
	if key, _, ok := m.Lookup("tomatos", resolve.Options{Fuzzy: true}); !ok || key != "Tomato" {
		t.Fatalf("expected fuzzy match to Tomato, got %q", key)
	}
}

func TestSetKeepsPosition(t *testing.T) {
	m := New[[]int]()
	m.Set("a", []int{1})
	m.Set("b", []int{2})
	m.Set("a", []int{3})

	if !reflect.DeepEqual(m.Keys(), []string{"a", "b"}) {
		t.Fatalf("unexpected keys: %v", m.Keys())
	}
	if got, _ := m.Get("a"); !reflect.DeepEqual(got, []int{3}) {
		t.Fatalf("expected overwritten value, got %v", got)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := Store{Dir: filepath.Join(dir, "out")}

	skills := New[Levels[int]]()
	skills.Set("Luce (c)", Levels[int]{}.Add(2, 4).Add(1, 3).Add(2, 5))
	if err := store.Write(SkillDishes, skills); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(store.Path(SkillDishes))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var compact map[string]map[string][]int
	if err := json.Unmarshal(data, &compact); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(compact["Luce (c)"]["2"], []int{4, 5}) {
		t.Fatalf("unexpected level 2: %v", compact["Luce (c)"])
	}

	loaded, err := store.LoadLeveledIDs(SkillDishes)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	levels, _ := loaded.Get("Luce (c)")
	if len(levels) != 2 || levels[0].Level != 2 || levels[1].Level != 1 {
		t.Fatalf("expected level order preserved, got %#v", levels)
	}
}
