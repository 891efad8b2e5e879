// Package storage persists launcher frecency state. Two backends exist: a
// TOML file in the format the rest of the widget family writes, and a
// SQLite database.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/runger/grimoire/internal/frecency"
)

// Backend names accepted by Open.
const (
	BackendTOML   = "toml"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned by Open for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown state backend")

// Path returns the state file for backend inside stateDir.
func Path(backend, stateDir string) string {
	if backend == BackendSQLite {
		return filepath.Join(stateDir, "grimoire.db")
	}
	return filepath.Join(stateDir, "grimoire.toml")
}

// Open returns the frecency store for backend rooted at stateDir.
// An empty backend selects TOML.
func Open(backend, stateDir string) (frecency.Store, error) {
	switch backend {
	case "", BackendTOML:
		return NewTOMLStore(Path(BackendTOML, stateDir)), nil
	case BackendSQLite:
		return NewSQLiteStore(Path(BackendSQLite, stateDir))
	default:
		return nil, fmt.Errorf("%q: %w", backend, ErrUnknownBackend)
	}
}
