package tools

import (
	"fmt"
	"log/slog"

	"dishquery/internal/distance"
	"dishquery/internal/licence"
	"dishquery/internal/mapping"
	"dishquery/internal/resolve"
)

// Service answers the lookup tools from the mapping directory and the
// distance table. Every call reads the files it needs from disk.
type Service struct {
	Mappings      mapping.Store
	DistancesFile string
	Logger        *slog.Logger
}

func NewService(mappingsDir, distancesFile string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Mappings:      mapping.Store{Dir: mappingsDir},
		DistancesFile: distancesFile,
		Logger:        logger,
	}
}

func (s *Service) fuzzy(enabled bool) resolve.Options {
	return resolve.Options{Fuzzy: enabled, Logger: s.Logger}
}

func (s *Service) IngredientDishIDs(ingredient string) (IngredientOutput, error) {
	ids, err := s.featureDishIDs(mapping.IngredientDishes, ingredient)
	return IngredientOutput{Ingredient: ingredient, DishIDs: ids}, err
}

func (s *Service) TechniqueDishIDs(technique string) (TechniqueOutput, error) {
	ids, err := s.featureDishIDs(mapping.TechniqueDishes, technique)
	return TechniqueOutput{Technique: technique, DishIDs: ids}, err
}

func (s *Service) PlanetDishIDs(planet string) (PlanetOutput, error) {
	ids, err := s.featureDishIDs(mapping.PlanetDishes, planet)
	return PlanetOutput{Planet: planet, DishIDs: ids}, err
}

func (s *Service) RestaurantDishIDs(restaurant string) (RestaurantOutput, error) {
	ids, err := s.featureDishIDs(mapping.RestaurantDishes, restaurant)
	return RestaurantOutput{Restaurant: restaurant, DishIDs: ids}, err
}

func (s *Service) featureDishIDs(file, name string) ([]int, error) {
	m, err := s.Mappings.LoadIDs(file)
	if err != nil {
		return []int{}, err
	}
	_, ids, ok := m.Lookup(name, s.fuzzy(true))
	if !ok {
		return []int{}, nil
	}
	return append([]int{}, ids...), nil
}

// ChefLicenceDishIDs returns the dishes of restaurants whose chef holds
// licence at a level satisfying operation against value.
func (s *Service) ChefLicenceDishIDs(name string, value int, operation string) (LicenceOutput, error) {
	out := LicenceOutput{LicenceName: name, LicenceValue: value, Operation: operation, DishIDs: []int{}}
	op, err := licence.ParseOperation(operation)
	if err != nil {
		return out, err
	}

	skills, err := s.Mappings.LoadLeveledIDs(mapping.SkillDishes)
	if err != nil {
		return out, err
	}
	_, levels, ok := skills.Lookup(name, s.fuzzy(true))
	if !ok {
		return out, nil
	}

	ids, err := matchingLevels(levels, op, value)
	if err != nil {
		return out, err
	}
	out.DishIDs = sortedUnique(ids)
	return out, nil
}

// DishesFromMinimumLicence expands a licence condition into the techniques it
// unlocks, then into the dishes using any of those techniques. Technique
// names are matched exactly.
func (s *Service) DishesFromMinimumLicence(name string, value int, operation string) (MinimumLicenceOutput, error) {
	out := MinimumLicenceOutput{
		LicenceName:  name,
		LicenceValue: value,
		Operation:    operation,
		Techniques:   []string{},
		DishIDs:      []int{},
	}
	op, err := licence.ParseOperation(operation)
	if err != nil {
		return out, err
	}

	byLicence, err := s.Mappings.LoadLeveledNames(mapping.LicenceTechniques)
	if err != nil {
		return out, err
	}
	techniqueDishes, err := s.Mappings.LoadIDs(mapping.TechniqueDishes)
	if err != nil {
		return out, err
	}

	_, levels, ok := byLicence.Lookup(name, s.fuzzy(true))
	if !ok {
		return out, nil
	}
	techniques, err := matchingLevels(levels, op, value)
	if err != nil {
		return out, err
	}

	out.Techniques = uniqueStrings(techniques)
	out.DishIDs = sortedUnique(s.dishesForTechniques(techniqueDishes, out.Techniques, false))
	return out, nil
}

func (s *Service) TechniquesFromCategory(category string) (CategoryOutput, error) {
	out := CategoryOutput{Category: category, Techniques: []string{}}
	categories, err := s.Mappings.LoadNames(mapping.CategoryTechniques)
	if err != nil {
		return out, err
	}
	if _, techniques, ok := categories.Lookup(category, s.fuzzy(true)); ok {
		out.Techniques = append(out.Techniques, techniques...)
	}
	return out, nil
}

// DishesWithBothCategories returns the dishes that use at least one technique
// of each category.
func (s *Service) DishesWithBothCategories(first, second string) (BothCategoriesOutput, error) {
	out := BothCategoriesOutput{FirstCategory: first, SecondCategory: second, DishIDs: []int{}}
	categories, err := s.Mappings.LoadNames(mapping.CategoryTechniques)
	if err != nil {
		return out, err
	}
	techniqueDishes, err := s.Mappings.LoadIDs(mapping.TechniqueDishes)
	if err != nil {
		return out, err
	}

	categoryDishes := func(category string) []int {
		_, techniques, ok := categories.Lookup(category, s.fuzzy(true))
		if !ok {
			return nil
		}
		return s.dishesForTechniques(techniqueDishes, techniques, true)
	}

	firstIDs := categoryDishes(first)
	secondIDs := toSet(categoryDishes(second))
	var both []int
	for _, id := range firstIDs {
		if _, ok := secondIDs[id]; ok {
			both = append(both, id)
		}
	}
	out.DishIDs = sortedUnique(both)
	return out, nil
}

// DishesWithinDistance returns the dishes served on planet and on every
// planet at most maxDistance light years away.
func (s *Service) DishesWithinDistance(planet string, maxDistance int) (DistanceOutput, error) {
	out := DistanceOutput{Planet: planet, MaxDistance: maxDistance, DishIDs: []int{}}
	table, err := distance.Load(s.DistancesFile)
	if err != nil {
		return out, err
	}
	resolved, ok := table.Resolve(planet, s.fuzzy(true))
	if !ok {
		return out, nil
	}
	out.Planet = resolved

	planetDishes, err := s.Mappings.LoadIDs(mapping.PlanetDishes)
	if err != nil {
		return out, err
	}
	var ids []int
	for _, nearby := range table.Within(resolved, maxDistance) {
		if _, planetIDs, ok := planetDishes.Lookup(nearby, s.fuzzy(true)); ok {
			ids = append(ids, planetIDs...)
		}
	}
	s.Logger.Debug("distance lookup",
		slog.String("planet", resolved),
		slog.Int("max_distance", maxDistance),
		slog.Int("dishes", len(ids)),
	)
	out.DishIDs = sortedUnique(ids)
	return out, nil
}

// Categories lists the technique categories known to the mapping directory.
func (s *Service) Categories() ([]string, error) {
	categories, err := s.Mappings.LoadNames(mapping.CategoryTechniques)
	if err != nil {
		return nil, err
	}
	return categories.Keys(), nil
}

func (s *Service) dishesForTechniques(techniqueDishes *mapping.IDs, techniques []string, fuzzy bool) []int {
	var ids []int
	for _, technique := range techniques {
		if _, techniqueIDs, ok := techniqueDishes.Lookup(technique, s.fuzzy(fuzzy)); ok {
			ids = append(ids, techniqueIDs...)
		}
	}
	return ids
}

func matchingLevels[V any](levels mapping.Levels[V], op licence.Operation, reference int) ([]V, error) {
	var out []V
	for _, level := range levels {
		ok, err := licence.Compare(level.Level, op, reference)
		if err != nil {
			return nil, fmt.Errorf("comparing level %d: %w", level.Level, err)
		}
		if ok {
			out = append(out, level.Values...)
		}
	}
	return out, nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := []string{}
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
