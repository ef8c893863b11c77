// Package stacks implements the registry-facing stack commands: list,
// lookup, deletion and registration of existing installations.
package stacks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flarebyte/spackter/internal/apperr"
	"github.com/flarebyte/spackter/internal/config"
	"github.com/flarebyte/spackter/internal/console"
	"github.com/flarebyte/spackter/internal/prompt"
	"github.com/flarebyte/spackter/internal/registry"
)

// Service operates on the registry of one spackter root.
type Service struct {
	Store   *registry.Store
	Confirm prompt.Confirmer
	Console *console.Console
	Version string
}

// List returns every stack ordered by ID.
func (s *Service) List() ([]registry.Match, error) {
	doc, err := s.Store.Load()
	if err != nil {
		return nil, err
	}
	return doc.Matches(), nil
}

// Find resolves query to exactly one stack.
func (s *Service) Find(query string, byID bool) (registry.Match, error) {
	doc, err := s.Store.Load()
	if err != nil {
		return registry.Match{}, err
	}
	return doc.Resolve(query, byID)
}

// Delete deregisters the stack matching query. Unless entryOnly is set and
// the installation still exists, the operator is asked whether to remove it
// from disk first; declining keeps the files but still deregisters.
func (s *Service) Delete(query string, byID, entryOnly bool) (registry.Match, error) {
	m, err := s.Find(query, byID)
	if err != nil {
		return registry.Match{}, err
	}
	if !entryOnly {
		if _, err := os.Stat(m.Path); err == nil {
			ok, err := s.Confirm.Confirm(fmt.Sprintf("Delete '%s' from disk?", m.Path))
			if err != nil {
				return registry.Match{}, err
			}
			if ok {
				if err := os.RemoveAll(m.Path); err != nil {
					return registry.Match{}, apperr.Storage(err, "cannot remove %s", m.Path)
				}
				s.Console.Step("'%s' deleted.", m.Path)
			}
		}
	}
	s.Console.Step("Removing '%s' from spackter database.", m.Record.Name)
	err = s.Store.Update(func(doc *registry.Document) error {
		if !doc.Remove(m.Path) {
			return apperr.NotFound("no spackter entry found for %s", m.Path)
		}
		return nil
	})
	if err != nil {
		return registry.Match{}, err
	}
	return m, nil
}

// Add registers an installation that spackter did not create. envScript
// defaults to Spack's own setup-env.sh.
func (s *Service) Add(name, path, envScript string) (registry.Match, error) {
	if strings.TrimSpace(name) == "" {
		return registry.Match{}, apperr.InvalidArgument("stack name must not be empty")
	}
	root, err := config.AbsPath(path)
	if err != nil {
		return registry.Match{}, apperr.InvalidArgument("invalid path %q: %v", path, err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return registry.Match{}, apperr.NotFound("directory does not exist: %s", root)
	}
	if info, err := os.Stat(filepath.Join(root, "bin", "spack")); err != nil || info.IsDir() {
		return registry.Match{}, apperr.InvalidArgument("the given directory is not a spack installation: %s", root)
	}
	script, err := resolveEnvScript(root, envScript)
	if err != nil {
		return registry.Match{}, err
	}

	s.Console.Step("Adding spack stack '%s' from '%s' to spackter database.", name, root)
	s.Console.Step("Following env script will be used when loading the stack: %s", script)
	rec := registry.Record{
		Name:         name,
		Prefix:       filepath.Dir(root),
		Compiler:     registry.Unknown,
		Type:         registry.TypeExternal,
		Configs:      registry.Unknown,
		EnvScript:    script,
		Created:      registry.Unknown,
		SpackVersion: registry.UnknownSpackVersion,
		Patches:      []registry.Outcome{},
		PullRequests: []registry.Outcome{},
		Packages:     []registry.Outcome{},
	}
	err = s.Store.Update(func(doc *registry.Document) error {
		committed, err := doc.Commit(root, rec, s.Version)
		rec = committed
		return err
	})
	if err != nil {
		return registry.Match{}, err
	}
	return registry.Match{Path: root, Record: rec}, nil
}

func resolveEnvScript(root, envScript string) (string, error) {
	if envScript == "" {
		def := filepath.Join(root, "share", "spack", "setup-env.sh")
		if _, err := os.Stat(def); err != nil {
			return "", apperr.NotFound("could not find a default env script at: %s", def)
		}
		return def, nil
	}
	p, err := config.AbsPath(envScript)
	if err != nil {
		return "", apperr.InvalidArgument("invalid env script %q: %v", envScript, err)
	}
	if _, err := os.Stat(p); err != nil {
		return "", apperr.NotFound("could not find an env script at: %s", p)
	}
	return p, nil
}
