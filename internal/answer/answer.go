package answer

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var ErrMalformedAnswer = errors.New("malformed answer")

// Extract returns the set of dish ids in the final bracketed list of raw.
//
// The span from the first '[' to the last ']' is tried first, so bracketed
// text earlier in the answer is tolerated when the whole span is one array.
// Otherwise the last ']' is paired with each earlier '[' from right to left
// and the first span that is a JSON array wins.
//
// Integer elements are kept, string elements must hold an integer, and
// elements of any other type, booleans included, are skipped. An integer too
// large for int is malformed.
func Extract(raw string) (map[int]struct{}, error) {
	array, err := locate(raw)
	if err != nil {
		return nil, err
	}

	ids := make(map[int]struct{})
	var elemErr error
	array.ForEach(func(_, elem gjson.Result) bool {
		switch elem.Type {
		case gjson.Number:
			id, err := strconv.Atoi(elem.Raw)
			if errors.Is(err, strconv.ErrRange) {
				elemErr = fmt.Errorf("%w: element %s is out of range", ErrMalformedAnswer, elem.Raw)
				return false
			}
			if err != nil {
				return true
			}
			ids[id] = struct{}{}
		case gjson.String:
			id, err := strconv.Atoi(strings.TrimSpace(elem.Str))
			if err != nil {
				elemErr = fmt.Errorf("%w: element %q is not an integer", ErrMalformedAnswer, elem.Str)
				return false
			}
			ids[id] = struct{}{}
		}
		return true
	})
	if elemErr != nil {
		return nil, elemErr
	}
	return ids, nil
}

// ExtractSorted is Extract with the ids returned in ascending order.
func ExtractSorted(raw string) ([]int, error) {
	set, err := Extract(raw)
	if err != nil {
		return nil, err
	}
	return Sorted(set), nil
}

func Sorted(set map[int]struct{}) []int {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func locate(raw string) (gjson.Result, error) {
	first := strings.Index(raw, "[")
	last := strings.LastIndex(raw, "]")
	if first == -1 || last == -1 {
		return gjson.Result{}, fmt.Errorf("%w: no bracketed list", ErrMalformedAnswer)
	}
	if last <= first {
		return gjson.Result{}, fmt.Errorf("%w: ']' does not follow '['", ErrMalformedAnswer)
	}

	if array, ok := parseArray(raw[first : last+1]); ok {
		return array, nil
	}
	for start := strings.LastIndex(raw[:last], "["); start > first; start = strings.LastIndex(raw[:start], "[") {
		if array, ok := parseArray(raw[start : last+1]); ok {
			return array, nil
		}
	}
	return gjson.Result{}, fmt.Errorf("%w: bracketed text is not a JSON list", ErrMalformedAnswer)
}

func parseArray(candidate string) (gjson.Result, bool) {
	if !gjson.Valid(candidate) {
		return gjson.Result{}, false
	}
	result := gjson.Parse(candidate)
	if !result.IsArray() {
		return gjson.Result{}, false
	}
	return result, true
}
