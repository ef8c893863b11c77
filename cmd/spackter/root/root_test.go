package root

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flarebyte/spackter/internal/apperr"
	"github.com/stretchr/testify/require"
)

type result struct {
	out, errOut string
	err         error
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	err := ExecuteWith(context.Background(), append(args, "--no-color"), strings.NewReader(stdin), &out, &errOut)
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range []string{"SPACKTER_ROOT", "SPACKTER_CONFIG", "SPACKTER_YES", "SPACKTER_LOG_LEVEL", "SPACKTER_SHELL"} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return t.TempDir()
}

func fakeSpack(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "spack")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "share", "spack"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin", "spack"), []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "share", "spack", "setup-env.sh"), nil, 0o644))
	return root
}

func TestMissingRoot(t *testing.T) {
	isolate(t)
	r := run(t, "", "list")
	require.ErrorIs(t, r.err, apperr.ErrConfiguration)
	require.True(t, strings.HasPrefix(r.errOut, "===> Error: SPACKTER_ROOT is not set"), r.errOut)
}

func TestRootFromEnvironment(t *testing.T) {
	root := isolate(t)
	t.Setenv("SPACKTER_ROOT", root)
	r := run(t, "", "list")
	require.NoError(t, r.err)
	require.Equal(t, "===> No spack stacks registered.\n", r.out)
}

func TestRootFromConfigFile(t *testing.T) {
	root := isolate(t)
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("root: "+root+"\n"), 0o644))
	r := run(t, "", "list", "--config", cfg)
	require.NoError(t, r.err)

	r = run(t, "", "list", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, r.err, apperr.ErrConfiguration)
}

func TestVersionNeedsNoRoot(t *testing.T) {
	isolate(t)
	r := run(t, "", "version", "--short")
	require.NoError(t, r.err)
	require.NotEmpty(t, strings.TrimSpace(r.out))
}

func TestAddListLoadDelete(t *testing.T) {
	root := isolate(t)
	spack := fakeSpack(t)

	r := run(t, "", "--root", root, "add", "site", spack)
	require.NoError(t, r.err)
	require.Contains(t, r.out, "===> Adding spack stack 'site'")

	r = run(t, "", "--root", root, "list")
	require.NoError(t, r.err)
	lines := strings.Split(strings.TrimSpace(r.out), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "NAME"))
	require.Regexp(t, `^site\s+1\s+UNKNOWN\s+UNKNOWN\s+UNKNOWN\s+EXTERNAL\s+UNKNOWN$`, lines[1])

	r = run(t, "", "--root", root, "list", "1", "--id")
	require.NoError(t, r.err)
	require.Contains(t, r.out, "PATH:")
	require.Contains(t, r.out, spack)

	script := filepath.Join(spack, "share", "spack", "setup-env.sh")
	r = run(t, "", "--root", root, "load", "site", "--only-env-script")
	require.NoError(t, r.err)
	require.Equal(t, script+"\n", r.out)

	r = run(t, "", "--root", root, "load", "site")
	require.NoError(t, r.err)
	require.Equal(t, "===> Loading spack stack: site (ID 1)\n===> Using this environment script: "+script+"\n", r.out)

	r = run(t, "n\n", "--root", root, "delete", "site")
	require.NoError(t, r.err)
	require.Contains(t, r.out, "Delete '"+spack+"' from disk? [y/N]: n\n")
	require.Contains(t, r.out, "===> Removing 'site' from spackter database.")
	_, err := os.Stat(spack)
	require.NoError(t, err)

	r = run(t, "", "--root", root, "load", "site")
	require.ErrorIs(t, r.err, apperr.ErrNotFound)
	require.Equal(t, "===> Error: could not find a spack stack with the name 'site'\n", r.errOut)
}

func TestDeleteWithYes(t *testing.T) {
	root := isolate(t)
	spack := fakeSpack(t)
	require.NoError(t, run(t, "", "--root", root, "add", "site", spack).err)

	r := run(t, "", "--root", root, "--yes", "delete", "site")
	require.NoError(t, r.err)
	require.Contains(t, r.out, "'"+spack+"' deleted.")
	_, err := os.Stat(spack)
	require.True(t, os.IsNotExist(err))
}

func TestAmbiguousNameShowsTable(t *testing.T) {
	root := isolate(t)
	require.NoError(t, run(t, "", "--root", root, "add", "x", fakeSpack(t)).err)
	require.NoError(t, run(t, "", "--root", root, "add", "x", fakeSpack(t)).err)

	r := run(t, "", "--root", root, "load", "x")
	require.ErrorIs(t, r.err, apperr.ErrAmbiguousSelection)
	require.Equal(t, "===> Error: there are 2 spack stacks with the name 'x':\n", r.errOut)
	require.Contains(t, r.out, "NAME")
	require.Contains(t, r.out, "Use 'spackter load <id> --id' to specify the intended spack stack.")

	r = run(t, "", "--root", root, "load", "2", "--id", "--only-env-script")
	require.NoError(t, r.err)
}

func TestCreateRejectsBadFlagsBeforeCloning(t *testing.T) {
	root := isolate(t)
	for _, tc := range []struct {
		args []string
		want string
	}{
		{[]string{"--create-mirror", "a", "--with-mirror", "b"}, "cannot both be set"},
		{[]string{"--spack-branch", "develop", "--spack-commit", "abc"}, "cannot both be set"},
		{[]string{"--allow-errors", "bogus"}, "unknown option for --allow-errors: bogus"},
		{[]string{"--allow-errors", "pr", "--no-allow-errors", "pr"}, "contain same options: pr"},
	} {
		r := run(t, "", append([]string{"--root", root, "create", "foo"}, tc.args...)...)
		require.ErrorIs(t, r.err, apperr.ErrInvalidArgument, tc.args)
		require.Contains(t, r.errOut, tc.want)
	}
	_, err := os.Stat(filepath.Join(root, "spack", "foo"))
	require.True(t, os.IsNotExist(err))
}

func TestCreateMissingProfile(t *testing.T) {
	root := isolate(t)
	r := run(t, "", "--root", root, "create", "foo", "--configs", "nope")
	require.ErrorIs(t, r.err, apperr.ErrConfiguration)
	require.Contains(t, r.errOut, "configuration profile 'nope' does not exist")
}

func TestUnknownCommand(t *testing.T) {
	isolate(t)
	r := run(t, "", "frobnicate")
	require.Error(t, r.err)
	require.True(t, strings.HasPrefix(r.errOut, "===> Error: unknown command"), r.errOut)
}
