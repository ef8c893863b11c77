package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/flarebyte/spackter/internal/apperr"
	"github.com/flarebyte/spackter/internal/policy"
	"github.com/flarebyte/spackter/internal/registry"
	"github.com/flarebyte/spackter/internal/shell"
	"go.uber.org/zap"
)

func gitApply(file string) string { return "git apply --verbose " + shell.Quote(file) }

func applyPatchesRunner(ctx context.Context, in State, deps Deps) (State, error) {
	files, err := in.Profile.Patches()
	if err != nil {
		return in, apperr.Storage(err, "cannot list patches in %s", in.Profile.PatchesDir())
	}
	if len(files) == 0 {
		deps.Console.Step("No patches to apply.")
		return in, nil
	}
	deps.Console.Step("Applying patches from: %s", in.Profile.PatchesDir())
	outcomes := make([]registry.Outcome, 0, len(files))
	for _, f := range files {
		name := filepath.Base(f)
		ok, err := deps.Shell.Run(ctx, gitApply(f), shell.WithDir(in.StackRoot), shell.ContinueOnError())
		if err != nil {
			return in, err
		}
		if !ok {
			if err := gate(in, deps, policy.PhasePatch, name); err != nil {
				return in, err
			}
		}
		outcomes = append(outcomes, registry.Outcome{Name: name, Success: ok})
	}
	in.Patches = outcomes
	return in, nil
}

func applyPullRequestsRunner(ctx context.Context, in State, deps Deps) (State, error) {
	prs, found, err := in.Profile.PullRequests()
	if err != nil {
		return in, err
	}
	if !found {
		deps.Console.Step("No pull-requests file found in: %s", in.Profile.Dir)
		deps.Console.Step("No pull requests will be applied.")
		return in, nil
	}
	deps.Console.Step("Applying pull requests from: %s", in.Profile.Dir)
	outcomes := make([]registry.Outcome, 0, len(prs))
	for _, pr := range prs {
		ok, err := applyPullRequest(ctx, in, deps, pr)
		if err != nil {
			return in, err
		}
		if !ok {
			if err := gate(in, deps, policy.PhasePR, pr); err != nil {
				return in, err
			}
		}
		outcomes = append(outcomes, registry.Outcome{Name: pr, Success: ok})
	}
	in.PullRequests = outcomes
	return in, nil
}

// applyPullRequest downloads the diff of pr to a temporary file and applies
// it. Fetch and apply failures both report false.
func applyPullRequest(ctx context.Context, in State, deps Deps, pr string) (bool, error) {
	deps.Console.Step("Applying pull request: %s", pr)
	diff, err := deps.Diffs.Fetch(ctx, pr)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		deps.logger().Debug("fetch failed", zap.String("pr", pr), zap.Error(err))
		deps.Console.Error("could not fetch pull request %s: %v", pr, err)
		return false, nil
	}
	tmp, err := os.CreateTemp("", "spackter-pr-*.diff")
	if err != nil {
		return false, apperr.Storage(err, "cannot create temporary diff file")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(diff); err != nil {
		_ = tmp.Close()
		return false, apperr.Storage(err, "cannot write %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return false, apperr.Storage(err, "cannot write %s", tmp.Name())
	}
	return deps.Shell.Run(ctx, gitApply(tmp.Name()), shell.WithDir(in.StackRoot), shell.ContinueOnError())
}

func init() {
	Register(StageApplyPatches, applyPatchesRunner)
	Register(StageApplyPullRequests, applyPullRequestsRunner)
}
