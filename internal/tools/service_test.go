package tools

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"dishquery/internal/licence"
	"dishquery/internal/mapping"
)

var fixtures = map[string]string{
	mapping.IngredientDishes: `{"Luce Stellare": [1, 2], "Polvere di Crononite": [3, 5]}`,
	mapping.TechniqueDishes: `{
		"Marinatura": [2, 3],
		"Taglio Quantico": [4],
		"Bollitura Entropica": [1, 4],
		"Affumicatura Gravitazionale": [5]
	}`,
	mapping.PlanetDishes:     `{"Tatooine": [1, 2], "Asgard": [3], "Namecc": [4, 5]}`,
	mapping.RestaurantDishes: `{"Il Ristorante dei Mondi": [2, 3]}`,
	mapping.SkillDishes: `{
		"Psionica (P)": {"1": [1], "3": [2, 3], "5": [4]},
		"Luce (c)": {"VI+": [5]}
	}`,
	mapping.CategoryTechniques: `{
		"Tecniche di Taglio": ["Taglio Quantico"],
		"Tecniche di Marinatura": ["Marinatura"],
		"Tecniche di Bollitura": ["Bollitura Entropica", "Marinatura"]
	}`,
	mapping.LicenceTechniques: `{
		"Gravitazionale (G)": {"1": ["Marinatura"], "2": ["Taglio Quantico", "Marinatura"], "4": ["Affumicatura Gravitazionale"]}
	}`,
}

const distances = `/,Tatooine,Asgard,Namecc
Tatooine,0,3,7
Asgard,3,0,5
Namecc,7,5,0
`

func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	for name, content := range fixtures {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	distancesFile := filepath.Join(dir, "distances.csv")
	if err := os.WriteFile(distancesFile, []byte(distances), 0o644); err != nil {
		t.Fatalf("write distances: %v", err)
	}
	return NewService(dir, distancesFile, nil)
}

func TestFeatureLookups(t *testing.T) {
	svc := newTestService(t)

	t.Run("exact case-insensitive", func(t *testing.T) {
		out, err := svc.IngredientDishIDs("luce stellare")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.Ingredient != "luce stellare" || !reflect.DeepEqual(out.DishIDs, []int{1, 2}) {
			t.Fatalf("unexpected output: %+v", out)
		}
	})

	t.Run("fuzzy", func(t *testing.T) {
		out, err := svc.TechniqueDishIDs("marinature")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !reflect.DeepEqual(out.DishIDs, []int{2, 3}) {
			t.Fatalf("unexpected ids: %v", out.DishIDs)
		}
	})

	t.Run("restaurant and planet", func(t *testing.T) {
		restaurant, err := svc.RestaurantDishIDs("il ristorante dei mondi")
		if err != nil || !reflect.DeepEqual(restaurant.DishIDs, []int{2, 3}) {
			t.Fatalf("unexpected restaurant output: %+v, %v", restaurant, err)
		}
		planet, err := svc.PlanetDishIDs("ASGARD")
		if err != nil || !reflect.DeepEqual(planet.DishIDs, []int{3}) {
			t.Fatalf("unexpected planet output: %+v, %v", planet, err)
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		broken := NewService(t.TempDir(), "", nil)
		if _, err := broken.IngredientDishIDs("x"); !errors.Is(err, mapping.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestEndToEndIntersection(t *testing.T) {
	svc := newTestService(t)
	ingredient, err := svc.IngredientDishIDs("luce stellare")
	if err != nil {
		t.Fatalf("ingredient: %v", err)
	}
	technique, err := svc.TechniqueDishIDs("marinatura")
	if err != nil {
		t.Fatalf("technique: %v", err)
	}
	if got := Intersect(ingredient.DishIDs, technique.DishIDs); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("expected [2], got %v", got)
	}
}

func TestChefLicenceDishIDs(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		op    string
		value int
		want  []int
	}{
		{"ge", 3, []int{2, 3, 4}},
		{"g", 3, []int{4}},
		{"eq", 1, []int{1}},
		{"ne", 3, []int{1, 4}},
		{"l", 3, []int{1}},
		{"le", 0, []int{}},
	}
	for _, tt := range tests {
		out, err := svc.ChefLicenceDishIDs("Psionica (P)", tt.value, tt.op)
		if err != nil {
			t.Fatalf("%s %d: unexpected error %v", tt.op, tt.value, err)
		}
		if !reflect.DeepEqual(out.DishIDs, tt.want) {
			t.Errorf("%s %d: got %v, want %v", tt.op, tt.value, out.DishIDs, tt.want)
		}
	}

	out, err := svc.ChefLicenceDishIDs("Luce (c)", 7, "eq")
	if err != nil || !reflect.DeepEqual(out.DishIDs, []int{5}) {
		t.Fatalf("expected VI+ stored as level 7, got %+v, %v", out, err)
	}

	if _, err := svc.ChefLicenceDishIDs("Psionica (P)", 1, "gt"); !errors.Is(err, licence.ErrUnsupportedOperation) {
		t.Fatalf("expected ErrUnsupportedOperation, got %v", err)
	}
}

func TestDishesFromMinimumLicence(t *testing.T) {
	svc := newTestService(t)

	out, err := svc.DishesFromMinimumLicence("Gravitazionale (G)", 2, "le")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !reflect.DeepEqual(out.Techniques, []string{"Marinatura", "Taglio Quantico"}) {
		t.Fatalf("unexpected techniques: %v", out.Techniques)
	}
	if !reflect.DeepEqual(out.DishIDs, []int{2, 3, 4}) {
		t.Fatalf("unexpected dish ids: %v", out.DishIDs)
	}

	if _, err := svc.DishesFromMinimumLicence("Gravitazionale (G)", 2, "between"); !errors.Is(err, licence.ErrUnsupportedOperation) {
		t.Fatalf("expected ErrUnsupportedOperation, got %v", err)
	}
}

func TestDishesFromMinimumLicenceExactTechniques(t *testing.T) {
	svc := newTestService(t)
	if err := os.WriteFile(svc.Mappings.Path(mapping.LicenceTechniques),
		[]byte(`{"Magnetica (Mx)": {"1": ["Marinatur"]}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := svc.DishesFromMinimumLicence("Magnetica (Mx)", 1, "eq")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out.DishIDs) != 0 {
		t.Fatalf("expected misspelled technique to match nothing, got %v", out.DishIDs)
	}
}

func TestTechniquesFromCategory(t *testing.T) {
	svc := newTestService(t)
	out, err := svc.TechniquesFromCategory("tecniche di bollitura")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !reflect.DeepEqual(out.Techniques, []string{"Bollitura Entropica", "Marinatura"}) {
		t.Fatalf("unexpected techniques: %v", out.Techniques)
	}
}

func TestDishesWithBothCategories(t *testing.T) {
	svc := newTestService(t)

	ab, err := svc.DishesWithBothCategories("Tecniche di Taglio", "Tecniche di Bollitura")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	ba, err := svc.DishesWithBothCategories("Tecniche di Bollitura", "Tecniche di Taglio")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !reflect.DeepEqual(ab.DishIDs, []int{4}) {
		t.Fatalf("unexpected intersection: %v", ab.DishIDs)
	}
	if !reflect.DeepEqual(ab.DishIDs, ba.DishIDs) {
		t.Fatalf("expected symmetric result, got %v and %v", ab.DishIDs, ba.DishIDs)
	}
}

func TestDishesWithinDistance(t *testing.T) {
	svc := newTestService(t)

	t.Run("zero radius is the planet itself", func(t *testing.T) {
		out, err := svc.DishesWithinDistance("Namecc", 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		planet, _ := svc.PlanetDishIDs("Namecc")
		if !reflect.DeepEqual(out.DishIDs, planet.DishIDs) {
			t.Fatalf("expected %v, got %v", planet.DishIDs, out.DishIDs)
		}
	})

	t.Run("radius includes neighbours", func(t *testing.T) {
		out, err := svc.DishesWithinDistance("asgard", 3)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.Planet != "Asgard" || !reflect.DeepEqual(out.DishIDs, []int{1, 2, 3}) {
			t.Fatalf("unexpected output: %+v", out)
		}
	})

	t.Run("missing distance file", func(t *testing.T) {
		broken := NewService(svc.Mappings.Dir, filepath.Join(t.TempDir(), "none.csv"), nil)
		if _, err := broken.DishesWithinDistance("Asgard", 1); !errors.Is(err, mapping.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCategories(t *testing.T) {
	svc := newTestService(t)
	got, err := svc.Categories()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []string{"Tecniche di Taglio", "Tecniche di Marinatura", "Tecniche di Bollitura"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected categories: %v", got)
	}
}
