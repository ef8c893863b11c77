package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/flarebyte/spackter/internal/apperr"
	"github.com/flarebyte/spackter/internal/console"
	"github.com/flarebyte/spackter/internal/prompt"
	"github.com/flarebyte/spackter/internal/registry"
	"github.com/flarebyte/spackter/internal/shell"
	"github.com/flarebyte/spackter/internal/testutil"
	"github.com/flarebyte/spackter/internal/upstream"
)

const testVersionOutput = "0.21.0 (7c2f3d4)"

// fakeRunner records command lines and fails those containing any failOn
// substring.
type fakeRunner struct {
	lines  []string
	failOn []string
}

func (f *fakeRunner) Run(ctx context.Context, line string, opts ...shell.RunOption) (bool, error) {
	f.lines = append(f.lines, line)
	cfg := shell.Configure(opts...)
	for _, s := range f.failOn {
		if strings.Contains(line, s) {
			if cfg.ContinueOnError {
				return false, nil
			}
			return false, apperr.PhaseFailure("%s failed with return code 1", line)
		}
	}
	return true, nil
}

func (f *fakeRunner) Output(ctx context.Context, line string, opts ...shell.RunOption) (string, error) {
	f.lines = append(f.lines, line)
	return testVersionOutput, nil
}

// index returns the position of the first line containing sub, or -1.
func (f *fakeRunner) index(sub string) int {
	for i, l := range f.lines {
		if strings.Contains(l, sub) {
			return i
		}
	}
	return -1
}

func (f *fakeRunner) ran(sub string) bool { return f.index(sub) >= 0 }

// fakeCloner lays out the bits of a Spack checkout the pipeline touches.
type fakeCloner struct {
	calls []upstream.CloneOptions
}

func (f *fakeCloner) Clone(ctx context.Context, dir string, opts upstream.CloneOptions) error {
	f.calls = append(f.calls, opts)
	if err := os.MkdirAll(filepath.Join(dir, "share", "spack"), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "share", "spack", "setup-env.sh"), []byte("# spack\n"), 0o644)
}

// fakeDiffs fails the listed pull requests.
type fakeDiffs map[string]error

func (f fakeDiffs) Fetch(ctx context.Context, pr string) ([]byte, error) {
	if err := f[pr]; err != nil {
		return nil, err
	}
	return []byte("diff --git a/pr" + pr + " b/pr" + pr + "\n"), nil
}

type harness struct {
	root   string
	runner *fakeRunner
	cloner *fakeCloner
	diffs  fakeDiffs
	out    *bytes.Buffer
	errOut *bytes.Buffer
	deps   Deps
}

func newHarness(t *testing.T, profiles string, confirm prompt.Confirmer) *harness {
	t.Helper()
	root := testutil.NewRoot(t, profiles)
	h := &harness{
		root:   root,
		runner: &fakeRunner{},
		cloner: &fakeCloner{},
		diffs:  fakeDiffs{},
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
	}
	h.deps = Deps{
		Root:     root,
		Upstream: "https://example.invalid/spack.git",
		Version:  "test",
		Store:    registry.NewStore(root),
		Shell:    h.runner,
		Cloner:   h.cloner,
		Diffs:    h.diffs,
		Confirm:  confirm,
		Console:  console.New(h.out, h.errOut, true),
		Now:      func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
	return h
}

func (h *harness) stackRoot(name string) string { return filepath.Join(h.root, "spack", name) }

func (h *harness) load(t *testing.T) *registry.Document {
	t.Helper()
	doc, err := h.deps.Store.Load()
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	return doc
}

func (h *harness) registryWritten() bool {
	_, err := os.Stat(h.deps.Store.Path())
	return err == nil
}

func ok(names ...string) []registry.Outcome {
	out := make([]registry.Outcome, 0, len(names))
	for _, n := range names {
		out = append(out, registry.Outcome{Name: n, Success: true})
	}
	return out
}
