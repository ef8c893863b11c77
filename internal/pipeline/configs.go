package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/flarebyte/spackter/internal/apperr"
)

func copyConfigsRunner(ctx context.Context, in State, deps Deps) (State, error) {
	files, err := in.Profile.YAMLFiles()
	if err != nil {
		return in, apperr.Storage(err, "cannot list configuration files in %s", in.Profile.Dir)
	}
	dst := filepath.Join(in.StackRoot, "etc", "spack")
	deps.Console.Step("Copying spack configuration files to %s", dst)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return in, apperr.Storage(err, "cannot create %s", dst)
	}
	for _, f := range files {
		deps.Console.Step("Copying: %s", filepath.Base(f))
		if err := copyFile(f, filepath.Join(dst, filepath.Base(f))); err != nil {
			return in, apperr.Storage(err, "cannot copy %s", f)
		}
	}
	return in, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func init() { Register(StageCopyConfigs, copyConfigsRunner) }
