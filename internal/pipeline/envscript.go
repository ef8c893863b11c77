package pipeline

import (
	"context"
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/flarebyte/spackter/internal/apperr"
	"github.com/flarebyte/spackter/internal/config"
)

// EnvScriptFile is the activation script written at a stack's root.
const EnvScriptFile = "env.sh"

//go:embed defaults/pre-script.spackter
var builtinPreScript string

//go:embed defaults/post-script.spackter
var builtinPostScript string

func generateEnvScriptRunner(ctx context.Context, in State, deps Deps) (State, error) {
	pre, err := fragment(in.Profile, deps, config.PreScriptFile, builtinPreScript)
	if err != nil {
		return in, err
	}
	post, err := fragment(in.Profile, deps, config.PostScriptFile, builtinPostScript)
	if err != nil {
		return in, err
	}
	content := RenderEnvScript(pre, setupScript(in.StackRoot), post)
	path := filepath.Join(in.StackRoot, EnvScriptFile)
	deps.Console.Step("Generating '%s' script at: %s", EnvScriptFile, path)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return in, apperr.Storage(err, "cannot write %s", path)
	}
	deps.Console.Line(content)
	in.EnvScript = path
	return in, nil
}

// RenderEnvScript joins the fragments around the line sourcing setup.
func RenderEnvScript(pre, setup, post string) string {
	if pre != "" && !strings.HasSuffix(pre, "\n") {
		pre += "\n"
	}
	return pre + ". " + setup + "\n" + post
}

// fragment reads file from the profile, then the default profile, then
// falls back to builtin.
func fragment(p config.Profile, deps Deps, file, builtin string) (string, error) {
	if path, ok := p.Fragment(file); ok {
		return readFragment(path)
	}
	def := config.ProfileAt(deps.Root, config.DefaultProfile)
	if def.Dir != p.Dir {
		if path, ok := def.Fragment(file); ok {
			deps.Console.Step("No %s in profile '%s', using %s", file, p.Name, path)
			return readFragment(path)
		}
	}
	deps.Console.Step("No %s found, using the built-in default.", file)
	return builtin, nil
}

func readFragment(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", apperr.Storage(err, "cannot read %s", path)
	}
	return string(b), nil
}

func init() { Register(StageGenerateEnvScript, generateEnvScriptRunner) }
