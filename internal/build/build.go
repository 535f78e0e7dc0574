package build

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"dishquery/internal/mapping"
	"dishquery/internal/menu"
	"dishquery/internal/resolve"
)

// Inputs are the extracted documents the mapping tables are built from.
type Inputs struct {
	Restaurants []menu.Restaurant
	Manuals     []*menu.Manual
	Dishes      []resolve.DishRef
	Threshold   float64
}

type Result struct {
	DishesMapped    int
	DishesSkipped   int
	FilesWritten    []string
	UnmatchedDishes []string
	Errors          []error
}

// Sources lists the files read by LoadInputs with their content hash.
type Sources map[string]string

// Run builds every mapping table from in and writes them to out. Dishes that
// do not match the catalogue are reported and left out of every table.
func Run(ctx context.Context, in Inputs, out mapping.Store, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	threshold := in.Threshold
	if threshold <= 0 {
		threshold = resolve.DefaultDishThreshold
	}
	matcher := resolve.NewDishMatcher(in.Dishes, threshold)

	result := &Result{}
	ingredients := newIDTable()
	techniques := newIDTable()
	planets := newIDTable()
	restaurants := newIDTable()
	skills := mapping.New[mapping.Levels[int]]()

	for _, restaurant := range in.Restaurants {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, dish := range restaurant.Dishes {
			id, ok := matcher.Match(dish.Name)
			if !ok {
				result.DishesSkipped++
				result.UnmatchedDishes = append(result.UnmatchedDishes, dish.Name)
				logger.Warn("dish not in catalogue",
					slog.String("dish", dish.Name),
					slog.String("restaurant", restaurant.Name),
				)
				continue
			}
			result.DishesMapped++

			for _, ingredient := range dish.Ingredients {
				ingredients.add(ingredient, id)
			}
			for _, technique := range dish.Techniques {
				techniques.add(technique, id)
			}
			if restaurant.Planet != "" {
				planets.add(restaurant.Planet, id)
			}
			if restaurant.Name != "" {
				restaurants.add(restaurant.Name, id)
			}
			for _, skill := range restaurant.Skills {
				addLeveled(skills, skill.Name, int(skill.Level), id)
			}
		}
	}

	categories := mapping.New[[]string]()
	licences := mapping.New[mapping.Levels[string]]()
	for _, manual := range in.Manuals {
		if manual == nil {
			continue
		}
		for _, category := range manual.Categories {
			names, _ := categories.Get(category.Name)
			for _, technique := range category.Techniques {
				if !slices.Contains(names, technique.Name) {
					names = append(names, technique.Name)
				}
				for _, requirement := range technique.Licences {
					addLeveled(licences, requirement.Name, int(requirement.Level), technique.Name)
				}
			}
			if names == nil {
				names = []string{}
			}
			categories.Set(category.Name, names)
		}
	}

	tables := []struct {
		file  string
		table json.Marshaler
	}{
		{mapping.IngredientDishes, ingredients.m},
		{mapping.TechniqueDishes, techniques.m},
		{mapping.PlanetDishes, planets.m},
		{mapping.RestaurantDishes, restaurants.m},
		{mapping.SkillDishes, skills},
		{mapping.CategoryTechniques, categories},
		{mapping.LicenceTechniques, licences},
	}
	for _, t := range tables {
		if err := out.Write(t.file, t.table); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("writing %s: %w", t.file, err))
			continue
		}
		result.FilesWritten = append(result.FilesWritten, out.Path(t.file))
	}

	logger.Info("mappings built",
		slog.Int("dishes_mapped", result.DishesMapped),
		slog.Int("dishes_skipped", result.DishesSkipped),
		slog.Int("files", len(result.FilesWritten)),
	)
	return result, nil
}

type idTable struct {
	m *mapping.IDs
}

func newIDTable() idTable {
	return idTable{m: mapping.New[[]int]()}
}

func (t idTable) add(name string, id int) {
	ids, _ := t.m.Get(name)
	if slices.Contains(ids, id) {
		return
	}
	t.m.Set(name, append(ids, id))
}

func addLeveled[V comparable](m *mapping.Mapping[mapping.Levels[V]], name string, level int, value V) {
	levels, _ := m.Get(name)
	for _, l := range levels {
		if l.Level == level && slices.Contains(l.Values, value) {
			return
		}
	}
	m.Set(name, levels.Add(level, value))
}

// LoadInputs reads menus, manuals and the dish catalogue. Menu and manual
// paths may be directories, which are walked for .json, .yaml and .yml files.
func LoadInputs(menuPaths, manualPaths []string, dishIndex string) (Inputs, Sources, error) {
	var in Inputs
	sources := make(Sources)

	menuFiles, err := walkDocumentFiles(menuPaths)
	if err != nil {
		return Inputs{}, nil, fmt.Errorf("walking menus: %w", err)
	}
	for _, path := range menuFiles {
		restaurants, err := menu.ParseRestaurantsFile(path)
		if err != nil {
			return Inputs{}, nil, err
		}
		in.Restaurants = append(in.Restaurants, restaurants...)
		if err := sources.add(path); err != nil {
			return Inputs{}, nil, err
		}
	}

	manualFiles, err := walkDocumentFiles(manualPaths)
	if err != nil {
		return Inputs{}, nil, fmt.Errorf("walking manuals: %w", err)
	}
	for _, path := range manualFiles {
		manual, err := menu.ParseManualFile(path)
		if err != nil {
			return Inputs{}, nil, err
		}
		in.Manuals = append(in.Manuals, manual)
		if err := sources.add(path); err != nil {
			return Inputs{}, nil, err
		}
	}

	if dishIndex != "" {
		in.Dishes, err = menu.ParseDishIndexFile(dishIndex)
		if err != nil {
			return Inputs{}, nil, err
		}
		if err := sources.add(dishIndex); err != nil {
			return Inputs{}, nil, err
		}
	}
	return in, sources, nil
}

func (s Sources) add(path string) error {
	hash, err := computeHash(path)
	if err != nil {
		return fmt.Errorf("hashing %s: %w", path, err)
	}
	s[path] = hash
	return nil
}

func walkDocumentFiles(roots []string) ([]string, error) {
	var files []string
	for _, root := range roots {
		if root == "" {
			continue
		}
		root = filepath.Clean(root)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if path != root && !isDocument(d.Name()) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func isDocument(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func computeHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
