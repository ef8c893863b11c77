package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/flarebyte/spackter/internal/apperr"
	"github.com/flarebyte/spackter/internal/config"
	"github.com/flarebyte/spackter/internal/policy"
	"github.com/flarebyte/spackter/internal/registry"
)

func validateInputsRunner(ctx context.Context, in State, deps Deps) (State, error) {
	o := in.Options
	if o.CreateMirror != "" && o.WithMirror != "" {
		return in, apperr.InvalidArgument("--create-mirror and --with-mirror cannot both be set")
	}
	if o.Branch != "" && o.Commit != "" {
		return in, apperr.InvalidArgument("--spack-branch and --spack-commit cannot both be set")
	}
	if err := validateName(o.Name); err != nil {
		return in, err
	}
	pol, err := policy.Parse(o.Allow, o.Deny)
	if err != nil {
		return in, err
	}
	in.Policy = pol

	if o.Prefix == "" {
		in.Prefix = filepath.Join(deps.Root, "spack")
		deps.Console.Step("No prefix given. Using default prefix: %s", in.Prefix)
	} else if in.Prefix, err = config.AbsPath(o.Prefix); err != nil {
		return in, apperr.InvalidArgument("invalid prefix %q: %v", o.Prefix, err)
	}
	in.StackRoot = filepath.Join(in.Prefix, o.Name)

	switch in.Mode {
	case ModeMirrorOnly:
		if in.MirrorPath, err = config.AbsPath(o.CreateMirror); err != nil {
			return in, apperr.InvalidArgument("invalid mirror path %q: %v", o.CreateMirror, err)
		}
	case ModeConsumeMirror:
		if in.MirrorPath, err = config.AbsPath(o.WithMirror); err != nil {
			return in, apperr.InvalidArgument("invalid mirror path %q: %v", o.WithMirror, err)
		}
		if info, err := os.Stat(in.MirrorPath); err != nil || !info.IsDir() {
			return in, apperr.NotFound("no mirror found at %s", in.MirrorPath)
		}
		// The profile is taken from the MIRROR_ONLY record by open-existing.
		return in, nil
	}

	profileName := o.Profile
	if profileName == "" {
		profileName = config.DefaultProfile
	}
	if in.Profile, err = config.OpenProfile(deps.Root, profileName); err != nil {
		return in, err
	}
	if in.Settings, err = in.Profile.Settings(); err != nil {
		return in, err
	}
	resolveSources(&in, deps)
	return in, nil
}

// resolveSources layers flags over profile settings over process config.
// A branch or commit flag replaces both settings values.
func resolveSources(in *State, deps Deps) {
	o, s := in.Options, in.Settings
	in.Upstream = firstNonEmpty(s.Upstream, deps.Upstream)
	if o.Branch != "" || o.Commit != "" {
		in.Branch, in.Commit = o.Branch, o.Commit
	} else {
		in.Branch, in.Commit = s.Branch, s.Commit
	}
	in.Compiler = firstNonEmpty(o.Compiler, s.Compiler)
}

func validateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return apperr.InvalidArgument("stack name must not be empty")
	case name == "." || name == "..":
		return apperr.InvalidArgument("invalid stack name %q", name)
	case strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator):
		return apperr.InvalidArgument("stack name %q must not contain a path separator", name)
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func openExistingRunner(ctx context.Context, in State, deps Deps) (State, error) {
	if info, err := os.Stat(in.StackRoot); err != nil || !info.IsDir() {
		return in, apperr.NotFound("no existing spack repo at %s", in.StackRoot)
	}
	doc, err := deps.Store.Load()
	if err != nil {
		return in, err
	}
	rec, ok := doc.Get(in.StackRoot)
	if !ok {
		return in, apperr.NotFound("no spackter entry found for %s", in.StackRoot)
	}
	if rec.Type != registry.TypeMirrorOnly {
		return in, apperr.InvalidArgument("stack at %s is %s, only %s stacks can be completed with --with-mirror",
			in.StackRoot, rec.Type, registry.TypeMirrorOnly)
	}
	if p := in.Options.Profile; p != "" && p != rec.Configs {
		return in, apperr.InvalidArgument("--configs %s does not match profile %s the stack at %s was prepared with",
			p, rec.Configs, in.StackRoot)
	}
	in.Existing = &rec
	in.Profile = config.ProfileAt(deps.Root, rec.Configs)
	if in.Profile.Exists() {
		if in.Settings, err = in.Profile.Settings(); err != nil {
			return in, err
		}
	}
	in.Compiler = firstNonEmpty(in.Options.Compiler, in.Settings.Compiler, rec.Compiler)
	in.Patches = rec.Patches
	in.PullRequests = rec.PullRequests
	deps.Console.Step("Completing %s stack at: %s", registry.TypeMirrorOnly, in.StackRoot)
	return in, nil
}

func init() {
	Register(StageValidateInputs, validateInputsRunner)
	Register(StageOpenExisting, openExistingRunner)
}
