// Package upstream talks to the Spack upstream: cloning the repository,
// pinning commits and fetching pull request diffs.
package upstream

import (
	"context"
	"fmt"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"
)

// PinBranch is the local branch created when a stack is pinned to a commit.
const PinBranch = "spackter"

// CloneOptions selects what to clone. Branch and Commit are exclusive.
type CloneOptions struct {
	URL    string
	Branch string
	Commit string
}

// Cloner materialises an upstream checkout in dir.
type Cloner interface {
	Clone(ctx context.Context, dir string, opts CloneOptions) error
}

// GitCloner clones with go-git.
type GitCloner struct {
	Progress io.Writer
	Log      *zap.Logger
}

var _ Cloner = GitCloner{}

func (g GitCloner) Clone(ctx context.Context, dir string, opts CloneOptions) error {
	log := g.Log
	if log == nil {
		log = zap.NewNop()
	}
	co := &git.CloneOptions{URL: opts.URL, Progress: g.Progress}
	if opts.Branch != "" {
		co.ReferenceName = plumbing.NewBranchReferenceName(opts.Branch)
		co.SingleBranch = true
	}
	log.Debug("clone", zap.String("url", opts.URL), zap.String("dir", dir), zap.String("branch", opts.Branch))
	repo, err := git.PlainCloneContext(ctx, dir, false, co)
	if err != nil {
		return fmt.Errorf("clone %s: %w", opts.URL, err)
	}
	if opts.Commit == "" {
		return nil
	}
	return pin(repo, opts.Commit)
}

// pin checks out commit on the local branch PinBranch and hard-resets the
// worktree to it.
func pin(repo *git.Repository, commit string) error {
	hash, err := repo.ResolveRevision(plumbing.Revision(commit))
	if err != nil {
		return fmt.Errorf("resolve commit %s: %w", commit, err)
	}
	branch := plumbing.NewHashReference(plumbing.NewBranchReferenceName(PinBranch), *hash)
	if err := repo.Storer.SetReference(branch); err != nil {
		return fmt.Errorf("create branch %s: %w", PinBranch, err)
	}
	if err := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, branch.Name())); err != nil {
		return fmt.Errorf("checkout %s: %w", PinBranch, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}
	if err := wt.Reset(&git.ResetOptions{Commit: *hash, Mode: git.HardReset}); err != nil {
		return fmt.Errorf("reset to %s: %w", commit, err)
	}
	return nil
}
