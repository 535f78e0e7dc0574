package eval

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	ErrNoHeader      = errors.New("csv file has no header row")
	ErrMissingColumn = errors.New("csv file is missing a required column")
)

const (
	questionColumn = "domanda"
	rowIDColumn    = "row_id"
	resultColumn   = "result"
)

type Question struct {
	Row        int
	Text       string
	Difficulty string
}

// LoadQuestions reads the questions file. The question text is in the
// "domanda" column and the difficulty in the second column; rows are
// numbered from 1.
func LoadQuestions(path string) ([]Question, error) {
	header, records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	questionIdx := indexOf(header, questionColumn)
	if questionIdx < 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrMissingColumn, questionColumn, path)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: difficulty (second column) in %s", ErrMissingColumn, path)
	}

	questions := make([]Question, 0, len(records))
	for i, record := range records {
		questions = append(questions, Question{
			Row:        i + 1,
			Text:       strings.TrimSpace(field(record, questionIdx)),
			Difficulty: strings.TrimSpace(field(record, 1)),
		})
	}
	return questions, nil
}

// LoadGroundTruth reads the expected dish ids keyed by question row.
func LoadGroundTruth(path string) (map[int]map[int]struct{}, error) {
	header, records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	rowIdx := indexOf(header, rowIDColumn)
	resultIdx := indexOf(header, resultColumn)
	if rowIdx < 0 || resultIdx < 0 {
		return nil, fmt.Errorf("%w: %s and %s in %s", ErrMissingColumn, rowIDColumn, resultColumn, path)
	}

	truth := make(map[int]map[int]struct{}, len(records))
	for i, record := range records {
		row, err := strconv.Atoi(strings.TrimSpace(field(record, rowIdx)))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid row_id: %w", path, i+2, err)
		}
		ids, err := ParseResult(field(record, resultIdx))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+2, err)
		}
		truth[row] = ids
	}
	return truth, nil
}

// ParseResult parses a comma-separated list of dish ids. Blank parts are
// ignored.
func ParseResult(value string) (map[int]struct{}, error) {
	ids := make(map[int]struct{})
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid dish id %q: %w", part, err)
		}
		ids[id] = struct{}{}
	}
	return ids, nil
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoHeader, path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return header, records, nil
}

func indexOf(header []string, name string) int {
	for i, column := range header {
		if strings.TrimSpace(column) == name {
			return i
		}
	}
	return -1
}

func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}
