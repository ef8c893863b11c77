package pipeline

import (
	"fmt"

	"github.com/flarebyte/spackter/internal/apperr"
	"github.com/flarebyte/spackter/internal/policy"
)

var phaseLabels = map[policy.Phase]string{
	policy.PhasePatch:   "patch",
	policy.PhasePR:      "pull request",
	policy.PhasePackage: "package",
	policy.PhaseScript:  "post-install script",
}

// gate decides whether a failed step of phase may be skipped. A nil return
// means the failure is recorded and the pipeline continues.
func gate(st State, deps Deps, phase policy.Phase, subject string) error {
	label := phaseLabels[phase]
	switch st.Policy.Decision(phase) {
	case policy.AlwaysAllow:
		deps.Console.Warn("Skipping failed %s: %s", label, subject)
		return nil
	case policy.AlwaysDeny:
		return apperr.PhaseFailure("%s %s failed", label, subject)
	}
	ok, err := deps.Confirm.Confirm(fmt.Sprintf("Skip failed %s %s?", label, subject))
	if err != nil {
		return fmt.Errorf("confirm skip: %w", err)
	}
	if !ok {
		return apperr.PhaseFailure("%s %s failed", label, subject)
	}
	deps.Console.Warn("Skipping failed %s: %s", label, subject)
	return nil
}
