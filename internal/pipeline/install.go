package pipeline

import (
	"context"

	"github.com/flarebyte/spackter/internal/policy"
	"github.com/flarebyte/spackter/internal/registry"
	"github.com/flarebyte/spackter/internal/shell"
)

func installCompilerRunner(ctx context.Context, in State, deps Deps) (State, error) {
	if in.Compiler == "" {
		return in, nil
	}
	deps.Console.Step("Installing compiler: %s", in.Compiler)
	line := spackLine(in.StackRoot, compilerCmds(in.Compiler)...)
	if _, err := deps.Shell.Run(ctx, line, spackOpts(in.StackRoot)...); err != nil {
		return in, err
	}
	return in, nil
}

func installPackagesRunner(ctx context.Context, in State, deps Deps) (State, error) {
	pkgs, found, err := in.Profile.Packages()
	if err != nil {
		return in, err
	}
	in.Packages = []registry.Outcome{}
	if !found {
		deps.Console.Step("No package list file found in: %s", in.Profile.Dir)
		deps.Console.Step("No packages will be installed.")
		return in, nil
	}
	for _, spec := range pkgs {
		deps.Console.Step("Installing package: %s", spec)
		line := spackLine(in.StackRoot, installCmd(spec, in.Compiler))
		ok, err := deps.Shell.Run(ctx, line, spackOpts(in.StackRoot, shell.ContinueOnError())...)
		if err != nil {
			return in, err
		}
		if !ok {
			if err := gate(in, deps, policy.PhasePackage, spec); err != nil {
				return in, err
			}
		}
		in.Packages = append(in.Packages, registry.Outcome{Name: spec, Success: ok})
	}
	return in, nil
}

// collectGarbageRunner is not policy gated: failures abort.
func collectGarbageRunner(ctx context.Context, in State, deps Deps) (State, error) {
	deps.Console.Step("Removing unneeded packages")
	if _, err := deps.Shell.Run(ctx, spackLine(in.StackRoot, "spack gc --yes-to-all"), spackOpts(in.StackRoot)...); err != nil {
		return in, err
	}
	return in, nil
}

func init() {
	Register(StageInstallCompiler, installCompilerRunner)
	Register(StageInstallPackages, installPackagesRunner)
	Register(StageCollectGarbage, collectGarbageRunner)
}
