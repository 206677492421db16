package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// fileStore keeps every key in one JSON object on disk.
type fileStore struct {
	path string // full path to storage.json
}

// NewFileStore returns a Store backed by dir/storage.json, creating dir if needed.
func NewFileStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &fileStore{path: filepath.Join(dir, "storage.json")}, nil
}

func (f *fileStore) Get(key string) (string, error) {
	entries, err := f.read()
	if err != nil {
		return "", err
	}
	v, ok := entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *fileStore) Set(key, value string) error {
	entries, err := f.read()
	if err != nil {
		return err
	}
	entries[key] = value
	return f.write(entries)
}

func (f *fileStore) Remove(key string) error {
	entries, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	if len(entries) == 0 {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to delete storage file: %w", err)
		}
		return nil
	}
	return f.write(entries)
}

func (f *fileStore) Close() error { return nil }

// read loads the storage file. A missing file is an empty store.
func (f *fileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}
	entries := map[string]string{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse storage %s: %w", f.path, err)
	}
	return entries, nil
}

// write marshals entries and replaces the file atomically via a temp file + os.Rename.
func (f *fileStore) write(entries map[string]string) (err error) {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to persist storage: %w", err)
	}

	// Temp file in the same directory so os.Rename is atomic.
	tmp, err := os.CreateTemp(filepath.Dir(f.path), "storage-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist storage: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist storage: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist storage: %w", err)
	}
	if err = os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("failed to persist storage: %w", err)
	}
	return nil
}
