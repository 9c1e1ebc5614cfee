// Package state provides the per-workspace key-value storage that persists
// exercise statuses and the current exercise between sessions.
package state

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/AndreyAkinshin/codedrills/internal/paths"
)

// KV is a minimal persistent key-value store.
type KV interface {
	// Get returns the value stored under key. ok is false if the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error
	// Close releases resources held by the store.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Backends lists the known backend names.
var Backends = []string{BackendJSON, BackendSQLite, BackendMemory}

// DefaultPath returns the default state file for a backend in the workspace root.
func DefaultPath(root, backend string) string {
	name := "state.json"
	if backend == BackendSQLite {
		name = "state.db"
	}
	return filepath.Join(root, paths.StateDirName, name)
}

// Open opens the named backend. An empty backend selects json.
// path is ignored for the memory backend.
func Open(backend, path string) (KV, error) {
	switch strings.ToLower(backend) {
	case "", BackendJSON:
		return OpenJSON(path)
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown state backend %q (expected one of: %s)", backend, strings.Join(Backends, ", "))
	}
}
