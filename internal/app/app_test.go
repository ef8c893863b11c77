package app

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flarebyte/spackter/internal/apperr"
	"github.com/flarebyte/spackter/internal/config"
	"github.com/flarebyte/spackter/internal/prompt"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	return config.Config{
		Root:           t.TempDir(),
		UpstreamURL:    config.DefaultUpstreamURL,
		PullRequestURL: config.DefaultPullRequestURL,
		Shell:          config.DefaultShell,
		LogLevel:       "error",
		NoColor:        true,
	}
}

func TestNew_YesAnswersEveryPrompt(t *testing.T) {
	cfg := testConfig(t)
	cfg.Yes = true
	var out bytes.Buffer
	env, err := New(cfg, strings.NewReader(""), &out, &out)
	require.NoError(t, err)
	require.Equal(t, prompt.Fixed(true), env.Confirm)
	require.Equal(t, filepath.Join(cfg.Root, "data", "stacks.yaml"), env.Store.Path())
}

func TestNew_TerminalPrompt(t *testing.T) {
	var out bytes.Buffer
	env, err := New(testConfig(t), strings.NewReader("y\n"), &out, &out)
	require.NoError(t, err)
	ok, err := env.Confirm.Confirm("Proceed?")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Proceed? [y/N]: y\n", out.String())
}

func TestNew_BadLogLevel(t *testing.T) {
	cfg := testConfig(t)
	cfg.LogLevel = "loud"
	_, err := New(cfg, strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestPipelineDeps(t *testing.T) {
	var out bytes.Buffer
	cfg := testConfig(t)
	env, err := New(cfg, strings.NewReader(""), &out, &out)
	require.NoError(t, err)
	deps, err := env.PipelineDeps()
	require.NoError(t, err)
	require.Equal(t, cfg.Root, deps.Root)
	require.Equal(t, cfg.UpstreamURL, deps.Upstream)
	require.NotNil(t, deps.Shell)
	require.NotNil(t, deps.Diffs)
	require.Same(t, env.Store, deps.Store)

	env.Config.Shell = "  "
	_, err = env.PipelineDeps()
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestContextRoundTrip(t *testing.T) {
	_, err := FromContext(context.Background())
	require.Error(t, err)

	env := &Env{}
	got, err := FromContext(WithEnv(context.Background(), env))
	require.NoError(t, err)
	require.Same(t, env, got)
}
