package resolve

// DefaultDishThreshold is the minimum similarity the offline dish matcher
// accepts. Query-time resolution has no threshold.
const DefaultDishThreshold = 0.6

// DishRef is one row of the dish catalogue: a dish name and its id.
type DishRef struct {
	Name string
	ID   int
}

// DishMatcher maps free-text dish names extracted from menus onto catalogue
// ids.
type DishMatcher struct {
	dishes    []DishRef
	names     []string
	threshold float64
}

func NewDishMatcher(dishes []DishRef, threshold float64) *DishMatcher {
	names := make([]string, 0, len(dishes))
	for _, dish := range dishes {
		names = append(names, dish.Name)
	}
	return &DishMatcher{dishes: dishes, names: names, threshold: threshold}
}

// Match returns the id of the catalogue dish named name. An exact
// case-insensitive match always wins; otherwise the most similar name is
// accepted only when its ratio reaches the threshold.
func (m *DishMatcher) Match(name string) (int, bool) {
	normalized := Normalize(name)
	for _, dish := range m.dishes {
		if foldKey(dish.Name) == normalized {
			return dish.ID, true
		}
	}

	bestIdx := -1
	bestScore := 0.0
	for i, candidate := range m.names {
		score := Ratio(normalized, foldKey(candidate))
		if score > bestScore {
			bestIdx = i
			bestScore = score
		}
	}
	if bestIdx < 0 || bestScore < m.threshold {
		return 0, false
	}
	return m.dishes[bestIdx].ID, true
}
