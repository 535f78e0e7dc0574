package mapping

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"dishquery/internal/resolve"
)

var (
	ErrNotFound = errors.New("mapping file not found")
	ErrParse    = errors.New("mapping file is not valid JSON")
	ErrShape    = errors.New("mapping file has an unexpected shape")
)

const (
	IngredientDishes   = "ingredient_to_dishes.json"
	TechniqueDishes    = "technique_to_dishes.json"
	PlanetDishes       = "planet_to_dishes.json"
	RestaurantDishes   = "restaurant_to_dishes.json"
	SkillDishes        = "skill_to_dishes.json"
	CategoryTechniques = "category_to_techniques.json"
	LicenceTechniques  = "licence_to_techniques.json"
)

// Files lists every mapping file the query tools read.
var Files = []string{
	IngredientDishes,
	TechniqueDishes,
	PlanetDishes,
	RestaurantDishes,
	SkillDishes,
	CategoryTechniques,
	LicenceTechniques,
}

type Entry[V any] struct {
	Name  string
	Value V
}

// Mapping is a name-keyed table that remembers the order keys were first
// seen in.
type Mapping[V any] struct {
	entries []Entry[V]
	index   map[string]int
}

type (
	IDs          = Mapping[[]int]
	Names        = Mapping[[]string]
	LeveledIDs   = Mapping[Levels[int]]
	LeveledNames = Mapping[Levels[string]]
)

func New[V any]() *Mapping[V] {
	return &Mapping[V]{index: make(map[string]int)}
}

// Set stores value under name. A name that already exists keeps its
// position and has its value replaced.
func (m *Mapping[V]) Set(name string, value V) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[name]; ok {
		m.entries[i].Value = value
		return
	}
	m.index[name] = len(m.entries)
	m.entries = append(m.entries, Entry[V]{Name: name, Value: value})
}

func (m *Mapping[V]) Get(name string) (V, bool) {
	var zero V
	if m == nil {
		return zero, false
	}
	i, ok := m.index[name]
	if !ok {
		return zero, false
	}
	return m.entries[i].Value, true
}

func (m *Mapping[V]) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.entries))
	for i, entry := range m.entries {
		keys[i] = entry.Name
	}
	return keys
}

func (m *Mapping[V]) Entries() []Entry[V] {
	if m == nil {
		return nil
	}
	return m.entries
}

func (m *Mapping[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Lookup resolves name against the mapping keys and returns the resolved key
// together with its value.
func (m *Mapping[V]) Lookup(name string, opts resolve.Options) (string, V, bool) {
	var zero V
	key, ok := resolve.Resolve(m.Keys(), name, opts)
	if !ok {
		return "", zero, false
	}
	value, _ := m.Get(key)
	return key, value, true
}

func (m *Mapping[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range m.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Level groups the values recorded for one integer level of a licence.
type Level[V any] struct {
	Level  int
	Values []V
}

// Levels is the per-level breakdown of a leveled mapping entry, in file order.
type Levels[V any] []Level[V]

func (l Levels[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, level := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		values := level.Values
		if values == nil {
			values = []V{}
		}
		encoded, err := json.Marshal(values)
		if err != nil {
			return nil, err
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(level.Level)))
		buf.WriteByte(':')
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Add appends values to level, creating the level if it is new.
func (l Levels[V]) Add(level int, values ...V) Levels[V] {
	for i := range l {
		if l[i].Level == level {
			l[i].Values = append(l[i].Values, values...)
			return l
		}
	}
	return append(l, Level[V]{Level: level, Values: append([]V{}, values...)})
}
