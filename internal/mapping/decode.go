package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"

	"dishquery/internal/licence"
)

func DecodeIDs(data []byte) (*IDs, error) {
	return decodeObject(data, decodeList[int])
}

func DecodeNames(data []byte) (*Names, error) {
	return decodeObject(data, decodeList[string])
}

func DecodeLeveledIDs(data []byte) (*LeveledIDs, error) {
	return decodeObject(data, decodeLevels[int])
}

func DecodeLeveledNames(data []byte) (*LeveledNames, error) {
	return decodeObject(data, decodeLevels[string])
}

// decodeObject walks a top-level JSON object token by token so that entries
// keep their file order.
func decodeObject[V any](data []byte, decodeValue func(json.RawMessage) (V, error)) (*Mapping[V], error) {
	if !json.Valid(data) {
		return nil, ErrParse
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, ErrParse
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: top-level value must be an object", ErrShape)
	}

	m := New[V]()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, ErrParse
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: object key %v is not a string", ErrShape, tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, ErrParse
		}
		value, err := decodeValue(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrShape, key, err)
		}
		m.Set(key, value)
	}
	return m, nil
}

func decodeList[T any](raw json.RawMessage) ([]T, error) {
	if isNull(raw) {
		return nil, fmt.Errorf("expected a list, got null")
	}
	var values []T
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	if values == nil {
		values = []T{}
	}
	return values, nil
}

func decodeLevels[T any](raw json.RawMessage) (Levels[T], error) {
	if isNull(raw) {
		return nil, fmt.Errorf("expected an object of levels, got null")
	}
	byLevel, err := decodeObject(raw, decodeList[T])
	if err != nil {
		return nil, err
	}

	levels := Levels[T]{}
	for _, entry := range byLevel.Entries() {
		level, err := licence.ParseLevel(entry.Name)
		if err != nil {
			return nil, err
		}
		levels = levels.Add(level, entry.Value...)
	}
	return levels, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
