// Package registry persists the stack registry and resolves stack queries.
package registry

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/flarebyte/spackter/internal/apperr"
)

// Store reads and writes the registry file under a spackter root. It does
// no locking: concurrent writers race and the last write wins.
type Store struct {
	path string
}

// NewStore returns the store for <root>/data/stacks.yaml.
func NewStore(root string) *Store {
	return &Store{path: filepath.Join(root, "data", "stacks.yaml")}
}

// Path returns the registry file location.
func (s *Store) Path() string { return s.path }

// Load reads the registry. A missing file yields an empty document whose
// Exists reports false.
func (s *Store) Load() (*Document, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewDocument(), nil
		}
		return nil, apperr.Storage(err, "read registry %s", s.path)
	}
	d, err := Unmarshal(b)
	if err != nil {
		return nil, apperr.Storage(err, "parse registry %s", s.path)
	}
	d.exists = true
	return d, nil
}

// Save writes the whole document, replacing the file atomically.
func (s *Store) Save(d *Document) error {
	b, err := Marshal(d)
	if err != nil {
		return apperr.Storage(err, "encode registry")
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.Storage(err, "create registry directory %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".stacks-*.yaml")
	if err != nil {
		return apperr.Storage(err, "write registry %s", s.path)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return apperr.Storage(err, "write registry %s", s.path)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return apperr.Storage(err, "write registry %s", s.path)
	}
	if err := tmp.Close(); err != nil {
		return apperr.Storage(err, "write registry %s", s.path)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return apperr.Storage(err, "write registry %s", s.path)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return apperr.Storage(err, "write registry %s", s.path)
	}
	d.exists = true
	return nil
}

// Update loads the registry, applies fn and saves the result. Nothing is
// written when fn fails.
func (s *Store) Update(fn func(*Document) error) error {
	d, err := s.Load()
	if err != nil {
		return err
	}
	if err := fn(d); err != nil {
		return err
	}
	return s.Save(d)
}
