package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/flarebyte/spackter/internal/apperr"
	"github.com/flarebyte/spackter/internal/upstream"
	"go.uber.org/zap"
)

func cloneRunner(ctx context.Context, in State, deps Deps) (State, error) {
	if err := os.MkdirAll(in.Prefix, 0o755); err != nil {
		return in, apperr.Storage(err, "cannot create prefix %s", in.Prefix)
	}
	if err := clearExisting(in.StackRoot, deps); err != nil {
		return in, err
	}
	deps.Console.Step("Creating new spack stack at: %s", in.StackRoot)
	opts := upstream.CloneOptions{URL: in.Upstream, Branch: in.Branch, Commit: in.Commit}
	deps.logger().Debug("clone", zap.String("url", opts.URL), zap.String("branch", opts.Branch), zap.String("commit", opts.Commit))
	if err := deps.Cloner.Clone(ctx, in.StackRoot, opts); err != nil {
		if ctx.Err() != nil {
			return in, ctx.Err()
		}
		return in, &apperr.Error{Kind: apperr.KindPhaseFailure, Msg: "clone failed", Err: err}
	}
	return in, nil
}

// clearExisting asks before replacing an existing stack directory. On
// confirmation the directory and its registry entry are removed.
func clearExisting(stackRoot string, deps Deps) error {
	if _, err := os.Stat(stackRoot); os.IsNotExist(err) {
		return nil
	}
	ok, err := deps.Confirm.Confirm(fmt.Sprintf("%s already exists. Overwrite it? (This will delete the whole directory)", stackRoot))
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Declined("not overwriting existing stack at %s", stackRoot)
	}
	if err := os.RemoveAll(stackRoot); err != nil {
		return apperr.Storage(err, "cannot remove %s", stackRoot)
	}
	doc, err := deps.Store.Load()
	if err != nil {
		return err
	}
	if _, ok := doc.Get(stackRoot); !ok {
		return nil
	}
	doc.Remove(stackRoot)
	if err := deps.Store.Save(doc); err != nil {
		return err
	}
	deps.Console.Step("Removed registry entry for %s", stackRoot)
	return nil
}

func init() { Register(StageClone, cloneRunner) }
