package pipeline

import (
	"context"
	"os"

	"github.com/flarebyte/spackter/internal/apperr"
	"github.com/flarebyte/spackter/internal/shell"
)

func setupMirrorRunner(ctx context.Context, in State, deps Deps) (State, error) {
	dir := in.MirrorPath
	if _, err := os.Stat(dir); err == nil {
		deps.Console.Warn("There already exists a directory at the given mirror path: %s", dir)
		ok, err := deps.Confirm.Confirm("Overwrite it? (This will delete the whole directory)")
		if err != nil {
			return in, err
		}
		if !ok {
			return in, apperr.Declined("not overwriting existing mirror at %s", dir)
		}
		if err := os.RemoveAll(dir); err != nil {
			return in, apperr.Storage(err, "cannot remove %s", dir)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return in, apperr.Storage(err, "cannot create mirror %s", dir)
	}
	deps.Console.Step("Adding mirror to spack: %s", dir)
	add := "spack mirror add local_filesystem " + shell.Quote("file://"+dir)
	if _, err := deps.Shell.Run(ctx, spackLine(in.StackRoot, add), spackOpts(in.StackRoot)...); err != nil {
		return in, err
	}
	return in, nil
}

// populateMirrorRunner fetches sources for the compiler and every listed
// package. Failures are fatal.
func populateMirrorRunner(ctx context.Context, in State, deps Deps) (State, error) {
	var specs []string
	if in.Compiler != "" {
		specs = append(specs, in.Compiler)
	}
	pkgs, found, err := in.Profile.Packages()
	if err != nil {
		return in, err
	}
	if !found {
		deps.Console.Step("No package list file found in: %s", in.Profile.Dir)
		deps.Console.Step("No package mirrors will be created.")
	}
	specs = append(specs, pkgs...)
	for _, spec := range specs {
		deps.Console.Step("Creating mirror for: %s", spec)
		line := spackLine(in.StackRoot, mirrorCreate(in.MirrorPath, spec))
		if _, err := deps.Shell.Run(ctx, line, spackOpts(in.StackRoot)...); err != nil {
			return in, err
		}
	}
	return in, nil
}

func init() {
	Register(StageSetupMirror, setupMirrorRunner)
	Register(StagePopulateMirror, populateMirrorRunner)
}
