// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// CopyTree copies src into dst, replacing dst. File permission bits are
// kept so fixture scripts stay executable.
func CopyTree(src, dst string) error {
	_ = os.RemoveAll(dst)
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		out := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(out, 0o755)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		return os.WriteFile(out, b, info.Mode().Perm())
	})
}

// NewRoot returns a fresh spackter root whose configs directory is a copy
// of the profiles tree at profiles. An empty profiles leaves the root bare.
func NewRoot(t testing.TB, profiles string) string {
	t.Helper()
	root := t.TempDir()
	if profiles == "" {
		return root
	}
	if err := CopyTree(profiles, filepath.Join(root, "configs")); err != nil {
		t.Fatalf("copy profiles: %v", err)
	}
	return root
}
