package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/runger/grimoire/internal/frecency"
)

// TOMLStore keeps the whole frecency map in one TOML file, one table per
// item ID:
//
//	[firefox]
//	count = 12
//	last = 1718000000
type TOMLStore struct {
	path string
}

// NewTOMLStore returns a store backed by the file at path. The file is not
// touched until Load or Save.
func NewTOMLStore(path string) *TOMLStore {
	return &TOMLStore{path: path}
}

// Path returns the backing file path.
func (s *TOMLStore) Path() string {
	return s.path
}

// Load reads the file. A missing file yields an empty map and no error.
func (s *TOMLStore) Load(ctx context.Context) (frecency.Map, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := frecency.Map{}
	if _, err := toml.DecodeFile(s.path, &m); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return frecency.Map{}, nil
		}
		return frecency.Map{}, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return m, nil
}

// Save rewrites the file atomically through a temp file and rename.
func (s *TOMLStore) Save(ctx context.Context, m frecency.Map) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(s.path), ".grimoire-*.toml")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmp := f.Name()
	if m == nil {
		m = frecency.Map{}
	}
	if err := toml.NewEncoder(f).Encode(m); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode state: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// Close is a no-op; the file is only open during Load and Save.
func (s *TOMLStore) Close() error {
	return nil
}
