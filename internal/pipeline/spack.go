package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/flarebyte/spackter/internal/shell"
)

// setupScript is Spack's own environment script within a stack.
func setupScript(stackRoot string) string {
	return filepath.Join(stackRoot, "share", "spack", "setup-env.sh")
}

// spackEnv isolates a stack from user-level Spack configuration.
func spackEnv(stackRoot string) map[string]string {
	return map[string]string{
		"SPACK_DISABLE_LOCAL_CONFIG": "1",
		"SPACK_USER_CACHE_PATH":      filepath.Join(stackRoot, "cache"),
	}
}

// spackLine sources the stack's setup script and then runs cmds, stopping
// at the first failure.
func spackLine(stackRoot string, cmds ...string) string {
	parts := append([]string{". " + shell.Quote(setupScript(stackRoot))}, cmds...)
	return strings.Join(parts, " && ")
}

func spackOpts(stackRoot string, extra ...shell.RunOption) []shell.RunOption {
	return append([]shell.RunOption{shell.WithDir(stackRoot), shell.WithEnv(spackEnv(stackRoot))}, extra...)
}

func mirrorCreate(dir, spec string) string {
	return "spack mirror create --directory " + shell.Quote(dir) + " --dependencies " + spec
}

func installCmd(spec, compiler string) string {
	if compiler == "" {
		return "spack install " + spec
	}
	return "spack install " + spec + " %" + compiler
}

func compilerCmds(compiler string) []string {
	return []string{
		"spack install " + compiler,
		"location=$(spack location --install-dir " + compiler + ")",
		`spack compiler find "${location}"`,
	}
}
