// Package store persists the two session strings (prompt and output) across
// process restarts. Backends are small key-value stores behind one interface
// so the session can be tested against an in-memory fake.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Keys under which the session is persisted. Values are raw text.
const (
	KeyPrompt = "promptPerfect_prompt"
	KeyOutput = "promptPerfect_output"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ErrNotFound is returned by Get when the key has no stored value.
var ErrNotFound = errors.New("key not found")

// Store is a durable string key-value store.
type Store interface {
	Get(key string) (string, error) // returns ErrNotFound if absent
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

// Open returns the backend named by kind rooted at dir. An empty kind selects
// the file backend.
func Open(kind, dir string) (Store, error) {
	switch kind {
	case "", BackendFile:
		return NewFileStore(dir)
	case BackendSQLite:
		return NewSQLiteStore(dir)
	default:
		return nil, fmt.Errorf("unknown store backend %q (want %q or %q)", kind, BackendFile, BackendSQLite)
	}
}

// DataDir returns the promptperfect-specific XDG data directory.
// Path: $XDG_DATA_HOME/promptperfect or ~/.local/share/promptperfect
func DataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "promptperfect"), nil
}
