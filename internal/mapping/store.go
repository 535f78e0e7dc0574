package mapping

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store reads mapping files from a directory. Every load reads the file
// again; nothing is cached between calls.
type Store struct {
	Dir string
}

func (s Store) Path(file string) string {
	return filepath.Join(s.Dir, file)
}

func (s Store) LoadIDs(file string) (*IDs, error) {
	return load(s, file, DecodeIDs)
}

func (s Store) LoadNames(file string) (*Names, error) {
	return load(s, file, DecodeNames)
}

func (s Store) LoadLeveledIDs(file string) (*LeveledIDs, error) {
	return load(s, file, DecodeLeveledIDs)
}

func (s Store) LoadLeveledNames(file string) (*LeveledNames, error) {
	return load(s, file, DecodeLeveledNames)
}

func load[M any](s Store, file string, decode func([]byte) (*M, error)) (*M, error) {
	path := s.Path(file)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	m, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", file, err)
	}
	return m, nil
}

// Write stores v as indented JSON under file, creating the directory if
// needed.
func (s Store) Write(file string, v json.Marshaler) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", file, err)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", s.Dir, err)
	}
	if err := os.WriteFile(s.Path(file), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", file, err)
	}
	return nil
}
