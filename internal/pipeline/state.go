package pipeline

import (
	"github.com/flarebyte/spackter/internal/config"
	"github.com/flarebyte/spackter/internal/policy"
	"github.com/flarebyte/spackter/internal/registry"
)

// Mode selects the plan executed for a create request.
type Mode int

const (
	// ModeInstall clones, customises and installs a stack in one go.
	ModeInstall Mode = iota
	// ModeMirrorOnly prepares a clone and a source mirror and registers a
	// MIRROR_ONLY stack without installing anything.
	ModeMirrorOnly
	// ModeConsumeMirror finishes a MIRROR_ONLY stack using its mirror.
	ModeConsumeMirror
)

func (m Mode) String() string {
	switch m {
	case ModeMirrorOnly:
		return "mirror-only"
	case ModeConsumeMirror:
		return "consume-mirror"
	default:
		return "install"
	}
}

// Options are the caller's create request, as given on the command line.
type Options struct {
	Name         string
	Profile      string
	Prefix       string
	Compiler     string
	Allow        string
	Deny         string
	CreateMirror string
	WithMirror   string
	Branch       string
	Commit       string
}

// ModeFor picks the plan for opts. Conflicting mirror flags are rejected by
// validate-inputs.
func ModeFor(opts Options) Mode {
	switch {
	case opts.CreateMirror != "":
		return ModeMirrorOnly
	case opts.WithMirror != "":
		return ModeConsumeMirror
	default:
		return ModeInstall
	}
}

// State is threaded through every stage. Stages return an updated copy.
type State struct {
	Options Options
	Mode    Mode
	Policy  policy.Policy

	Profile  config.Profile
	Settings config.Settings
	Upstream string
	Branch   string
	Commit   string
	Compiler string

	Prefix     string
	StackRoot  string
	MirrorPath string

	Patches      []registry.Outcome
	PullRequests []registry.Outcome
	Packages     []registry.Outcome
	PostInstall  registry.PostInstall
	EnvScript    string

	// Existing is the MIRROR_ONLY record being completed.
	Existing *registry.Record
	// Record is the registry entry written by the final stage.
	Record registry.Record
}
