package menu

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"dishquery/internal/licence"
	"dishquery/internal/resolve"
)

var (
	ErrInvalidYAML        = errors.New("invalid YAML or JSON document")
	ErrUnsupportedFormat  = errors.New("unsupported extraction format")
	ErrMissingDishName    = errors.New("dish missing required 'dish_name' field")
	ErrMissingTechnique   = errors.New("technique missing required 'technique_name' field")
	ErrInvalidDishIDValue = errors.New("dish id must be an integer")
)

type Restaurant struct {
	Planet string  `yaml:"planet_name"`
	Name   string  `yaml:"restaurant_name"`
	Chef   string  `yaml:"chef_name"`
	Skills []Skill `yaml:"skills"`
	Dishes []Dish  `yaml:"dishes"`
}

type Skill struct {
	Name  string `yaml:"skill_name"`
	Level Level  `yaml:"skill_level"`
}

type Dish struct {
	Name        string   `yaml:"dish_name"`
	Ingredients []string `yaml:"ingredients"`
	Techniques  []string `yaml:"techniques"`
}

type Manual struct {
	Categories []Category `yaml:"categories"`
}

type Category struct {
	Name       string      `yaml:"category_name"`
	Techniques []Technique `yaml:"techniques"`
}

// Technique is either a bare technique name or an object carrying the
// licences the technique requires.
type Technique struct {
	Name     string        `yaml:"technique_name"`
	Licences []Requirement `yaml:"licences"`
}

type Requirement struct {
	Name  string `yaml:"licence_name"`
	Level Level  `yaml:"licence_level"`
}

// Level is a licence level written as an integer, a roman numeral or VI+.
type Level int

func (l *Level) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: licence level must be a scalar", value.Line)
	}
	n, err := licence.ParseLevel(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*l = Level(n)
	return nil
}

func (t *Technique) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		t.Name = strings.TrimSpace(value.Value)
		t.Licences = nil
		return nil
	}
	type plain Technique
	var decoded plain
	if err := value.Decode(&decoded); err != nil {
		return err
	}
	*t = Technique(decoded)
	return nil
}

// ParseRestaurants reads extracted menus: either a list of restaurants or a
// mapping from dish name to its ingredients and techniques.
func ParseRestaurants(content []byte) ([]Restaurant, error) {
	root, err := parseRoot(content)
	if err != nil {
		return nil, err
	}

	var restaurants []Restaurant
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&restaurants); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
	case yaml.MappingNode:
		legacy, err := parseLegacyDishes(root)
		if err != nil {
			return nil, err
		}
		restaurants = []Restaurant{legacy}
	default:
		return nil, ErrUnsupportedFormat
	}

	for _, r := range restaurants {
		for _, dish := range r.Dishes {
			if strings.TrimSpace(dish.Name) == "" {
				return nil, ErrMissingDishName
			}
		}
	}
	return restaurants, nil
}

func parseLegacyDishes(root *yaml.Node) (Restaurant, error) {
	var restaurant Restaurant
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		var info struct {
			Ingredients []string `yaml:"ingredients"`
			Techniques  []string `yaml:"techniques"`
		}
		if err := root.Content[i+1].Decode(&info); err != nil {
			return Restaurant{}, fmt.Errorf("%w: dish %q: %v", ErrInvalidYAML, name, err)
		}
		restaurant.Dishes = append(restaurant.Dishes, Dish{
			Name:        name,
			Ingredients: info.Ingredients,
			Techniques:  info.Techniques,
		})
	}
	return restaurant, nil
}

// ParseManual reads technique categories. Techniques may be plain names or
// objects listing the licences they require.
func ParseManual(content []byte) (*Manual, error) {
	root, err := parseRoot(content)
	if err != nil {
		return nil, err
	}
	if root.Kind != yaml.MappingNode {
		return nil, ErrUnsupportedFormat
	}

	var manual Manual
	if err := root.Decode(&manual); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	for _, category := range manual.Categories {
		for _, technique := range category.Techniques {
			if technique.Name == "" {
				return nil, fmt.Errorf("%w in category %q", ErrMissingTechnique, category.Name)
			}
		}
	}
	return &manual, nil
}

// ParseDishIndex reads the dish catalogue, a mapping from dish name to id,
// keeping file order.
func ParseDishIndex(content []byte) ([]resolve.DishRef, error) {
	root, err := parseRoot(content)
	if err != nil {
		return nil, err
	}
	if root.Kind != yaml.MappingNode {
		return nil, ErrUnsupportedFormat
	}

	dishes := make([]resolve.DishRef, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		var id int
		if err := root.Content[i+1].Decode(&id); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDishIDValue, root.Content[i].Value)
		}
		dishes = append(dishes, resolve.DishRef{Name: root.Content[i].Value, ID: id})
	}
	return dishes, nil
}

func parseRoot(content []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrUnsupportedFormat
	}
	return doc.Content[0], nil
}

func ParseRestaurantsFile(path string) ([]Restaurant, error) {
	return parseFile(path, ParseRestaurants)
}

func ParseManualFile(path string) (*Manual, error) {
	return parseFile(path, ParseManual)
}

func ParseDishIndexFile(path string) ([]resolve.DishRef, error) {
	return parseFile(path, ParseDishIndex)
}

func parseFile[T any](path string, parse func([]byte) (T, error)) (T, error) {
	var zero T
	data, err := os.ReadFile(path)
	if err != nil {
		return zero, err
	}
	parsed, err := parse(data)
	if err != nil {
		return zero, fmt.Errorf("parsing %s: %w", path, err)
	}
	return parsed, nil
}
