package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

var ErrValidation = errors.New("invalid tool input")

// ValidationError names the tool parameter that failed validation.
type ValidationError struct {
	Param string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("parameter %q must be a list of integers", e.Param)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Intersect keeps the elements of first that also appear in second, in the
// order and multiplicity of first.
func Intersect(first, second []int) []int {
	in := toSet(second)
	out := []int{}
	for _, id := range first {
		if _, ok := in[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Subtract keeps the elements of first that do not appear in second.
func Subtract(first, second []int) []int {
	in := toSet(second)
	out := []int{}
	for _, id := range first {
		if _, ok := in[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// Union returns both lists merged, sorted and without duplicates.
func Union(first, second []int) []int {
	return sortedUnique(append(append([]int{}, first...), second...))
}

func toSet(ids []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func sortedUnique(ids []int) []int {
	out := append([]int{}, ids...)
	slices.Sort(out)
	return slices.Compact(out)
}

// ParseIDList decodes raw as a JSON list whose every element is an integer.
// Booleans, fractional numbers, strings and nested values are rejected.
func ParseIDList(param string, raw json.RawMessage) ([]int, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &ValidationError{Param: param}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var items []any
	if err := dec.Decode(&items); err != nil || items == nil {
		return nil, &ValidationError{Param: param}
	}

	ids := make([]int, 0, len(items))
	for _, item := range items {
		number, ok := item.(json.Number)
		if !ok {
			return nil, &ValidationError{Param: param}
		}
		id, err := number.Int64()
		if err != nil {
			return nil, &ValidationError{Param: param}
		}
		ids = append(ids, int(id))
	}
	return ids, nil
}

// DecodeSetInput validates the arguments of the set-algebra tools.
func DecodeSetInput(args json.RawMessage) (SetInput, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(nonEmpty(args), &fields); err != nil {
		return SetInput{}, &ValidationError{Param: "first_list"}
	}
	first, err := ParseIDList("first_list", fields["first_list"])
	if err != nil {
		return SetInput{}, err
	}
	second, err := ParseIDList("second_list", fields["second_list"])
	if err != nil {
		return SetInput{}, err
	}
	return SetInput{FirstList: first, SecondList: second}, nil
}

func nonEmpty(args json.RawMessage) json.RawMessage {
	if len(bytes.TrimSpace(args)) == 0 {
		return json.RawMessage("{}")
	}
	return args
}
