package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/flarebyte/spackter/internal/apperr"
	"github.com/flarebyte/spackter/internal/policy"
	"github.com/flarebyte/spackter/internal/registry"
	"github.com/flarebyte/spackter/internal/shell"
)

func postInstallScriptRunner(ctx context.Context, in State, deps Deps) (State, error) {
	path, found := in.Profile.PostInstallScript()
	if !found {
		deps.Console.Step("No post-install script found in: %s", in.Profile.Dir)
		deps.Console.Step("Skipping post-install script execution.")
		in.PostInstall = registry.PostInstall{}
		return in, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return in, apperr.Storage(err, "cannot read %s", path)
	}
	deps.Console.Step("Running post-install script at: %s", path)
	ok, err := deps.Shell.Run(ctx, "bash -e -x "+shell.Quote(path), shell.WithDir(in.StackRoot), shell.ContinueOnError())
	if err != nil {
		return in, err
	}
	if !ok {
		if err := gate(in, deps, policy.PhaseScript, filepath.Base(path)); err != nil {
			return in, err
		}
	}
	in.PostInstall = registry.NewPostInstall(string(content), ok)
	return in, nil
}

func init() { Register(StagePostInstallScript, postInstallScriptRunner) }
