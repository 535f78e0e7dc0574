package answer

import (
	"errors"
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []int
	}{
		{"mixed elements", `blah [1, 2, "3"] trailing`, []int{1, 2, 3}},
		{"last pair wins", `[1,2] mid [3,4]`, []int{3, 4}},
		{"outer span is one array", `Risultato: [[1, 2], 3]`, []int{3}},
		{"duplicates", `[5, 5, " 5 "]`, []int{5}},
		{"other types skipped", `[1, 2.5, true, null, {"a": 1}, 7]`, []int{1, 7}},
		{"empty list", `I found nothing: []`, []int{}},
		{"echoed tool call before answer", `get_planet_dish_ids({"planet": "Ego"}) returned [9]. Final: [10, 11]`, []int{10, 11}},
		{"multiline", "Ecco i piatti:\n[\n  12,\n  4\n]\n", []int{4, 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractSorted(tt.raw)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestExtractMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no brackets", "no brackets here"},
		{"only opening", "[1, 2"},
		{"reversed", "] then ["},
		{"not json", "[one, two]"},
		{"non integer string", `[1, "two"]`},
		{"object span", `{"ids": 1]`},
		{"integer out of range", `[1, 99999999999999999999]`},
		{"string out of range", `["99999999999999999999"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Extract(tt.raw); !errors.Is(err, ErrMalformedAnswer) {
				t.Fatalf("expected ErrMalformedAnswer, got %v", err)
			}
		})
	}
}
