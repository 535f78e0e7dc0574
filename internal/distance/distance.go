package distance

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"dishquery/internal/mapping"
	"dishquery/internal/resolve"
)

// Table is a planet-to-planet distance matrix in light years.
type Table struct {
	planets []string
	columns []string
	rows    map[string]map[string]int
}

func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", mapping.ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	table, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return table, nil
}

// Parse reads a header row of planet names, whose first cell is ignored,
// followed by one row per planet.
func Parse(data []byte) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: missing header row", mapping.ErrShape)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", mapping.ErrParse, err)
	}
	columns := header[1:]
	for i := range columns {
		columns[i] = strings.TrimSpace(columns[i])
	}

	table := &Table{columns: columns, rows: make(map[string]map[string]int)}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", mapping.ErrParse, err)
		}
		if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			continue
		}
		if len(record)-1 != len(columns) {
			return nil, fmt.Errorf("%w: row %q has %d distances, header has %d planets",
				mapping.ErrShape, record[0], len(record)-1, len(columns))
		}

		planet := strings.TrimSpace(record[0])
		row := make(map[string]int, len(columns))
		for i, cell := range record[1:] {
			cell = strings.TrimSpace(cell)
			if cell == "" && columns[i] == planet {
				continue
			}
			d, err := strconv.Atoi(cell)
			if err != nil || d < 0 {
				return nil, fmt.Errorf("%w: distance %s -> %s is %q", mapping.ErrShape, planet, columns[i], cell)
			}
			row[columns[i]] = d
		}
		if _, dup := table.rows[planet]; !dup {
			table.planets = append(table.planets, planet)
		}
		table.rows[planet] = row
	}
	return table, nil
}

// Planets returns the planets that have a row, in file order.
func (t *Table) Planets() []string {
	return append([]string(nil), t.planets...)
}

// Columns returns every planet named in a row or as a destination.
func (t *Table) Columns() []string {
	seen := make(map[string]bool)
	var out []string
	for _, planet := range append(t.Planets(), t.columns...) {
		if !seen[planet] {
			seen[planet] = true
			out = append(out, planet)
		}
	}
	return out
}

// Distance reports the distance between a and b, consulting both directions.
// A planet is always at distance zero from itself.
func (t *Table) Distance(a, b string) (int, bool) {
	if a == b {
		return 0, true
	}
	if d, ok := t.rows[a][b]; ok {
		return d, true
	}
	if d, ok := t.rows[b][a]; ok {
		return d, true
	}
	return 0, false
}

// Resolve maps a user supplied planet name onto a planet of the table.
func (t *Table) Resolve(name string, opts resolve.Options) (string, bool) {
	return resolve.Resolve(t.planets, name, opts)
}

// Within lists planet followed by every other planet at distance max or
// less. planet must already be a resolved name.
func (t *Table) Within(planet string, max int) []string {
	nearby := []string{planet}
	for _, other := range t.Columns() {
		if other == planet {
			continue
		}
		if d, ok := t.Distance(planet, other); ok && d <= max {
			nearby = append(nearby, other)
		}
	}
	return nearby
}

// Asymmetries returns the planet pairs whose two directions disagree.
func (t *Table) Asymmetries() [][2]string {
	var out [][2]string
	for i, a := range t.planets {
		for _, b := range t.planets[i+1:] {
			ab, okAB := t.rows[a][b]
			ba, okBA := t.rows[b][a]
			if okAB && okBA && ab != ba {
				out = append(out, [2]string{a, b})
			}
		}
	}
	return out
}
