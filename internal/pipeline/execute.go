// Package pipeline creates stacks. A create request runs one plan: an
// ordered list of named stages sharing a State value.
package pipeline

import (
	"context"

	"go.uber.org/zap"
)

// Stage names.
const (
	StageValidateInputs    = "validate-inputs"
	StageOpenExisting      = "open-existing"
	StageClone             = "clone"
	StageApplyPatches      = "apply-patches"
	StageApplyPullRequests = "apply-pull-requests"
	StageCopyConfigs       = "copy-configs"
	StageSetupMirror       = "setup-mirror"
	StagePopulateMirror    = "populate-mirror"
	StageInstallCompiler   = "install-compiler"
	StageInstallPackages   = "install-packages"
	StageCollectGarbage    = "collect-garbage"
	StagePostInstallScript = "post-install-script"
	StageGenerateEnvScript = "generate-env-script"
	StageCommitRecord      = "commit-record"
	StageCompleteRecord    = "complete-record"
)

// Plan returns the stages executed for mode, in order.
func Plan(mode Mode) []string {
	switch mode {
	case ModeMirrorOnly:
		return []string{
			StageValidateInputs,
			StageClone,
			StageApplyPatches,
			StageApplyPullRequests,
			StageCopyConfigs,
			StageSetupMirror,
			StagePopulateMirror,
			StageCommitRecord,
		}
	case ModeConsumeMirror:
		return []string{
			StageValidateInputs,
			StageOpenExisting,
			StageInstallCompiler,
			StageInstallPackages,
			StageCollectGarbage,
			StagePostInstallScript,
			StageGenerateEnvScript,
			StageCompleteRecord,
		}
	default:
		return []string{
			StageValidateInputs,
			StageClone,
			StageApplyPatches,
			StageApplyPullRequests,
			StageCopyConfigs,
			StageInstallCompiler,
			StageInstallPackages,
			StageCollectGarbage,
			StagePostInstallScript,
			StageGenerateEnvScript,
			StageCommitRecord,
		}
	}
}

// Execute runs the plan selected by opts. The returned State carries the
// registry record written by the last stage.
func Execute(ctx context.Context, opts Options, deps Deps) (State, error) {
	st := State{Options: opts, Mode: ModeFor(opts)}
	return runStages(ctx, st, Plan(st.Mode), deps)
}

func runStages(ctx context.Context, in State, stages []string, deps Deps) (State, error) {
	log := deps.logger()
	out := in
	var err error
	for _, name := range stages {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		log.Debug("stage start", zap.String("stage", name), zap.Stringer("mode", out.Mode))
		out, err = Run(ctx, name, out, deps)
		if err != nil {
			log.Debug("stage failed", zap.String("stage", name), zap.Error(err))
			return out, err
		}
		log.Debug("stage done", zap.String("stage", name))
	}
	return out, nil
}
