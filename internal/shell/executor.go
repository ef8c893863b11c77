// Package shell runs external command lines. It is the only place spackter
// starts processes.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/flarebyte/spackter/internal/apperr"
	"github.com/flarebyte/spackter/internal/console"
	"github.com/mattn/go-shellwords"
	"go.uber.org/zap"
)

// DefaultShell runs command lines through POSIX sh.
const DefaultShell = "/bin/sh -c"

// Runner is implemented by Executor and by test doubles.
type Runner interface {
	// Run executes line, streaming merged stdout/stderr. It reports false
	// on a non-zero exit; unless ContinueOnError is given that case is
	// also returned as a fatal error.
	Run(ctx context.Context, line string, opts ...RunOption) (bool, error)
	// Output executes line and returns its trimmed stdout.
	Output(ctx context.Context, line string, opts ...RunOption) (string, error)
}

// RunConfig is the resolved set of RunOptions.
type RunConfig struct {
	Dir             string
	Env             map[string]string
	ContinueOnError bool
	Quiet           bool
}

type RunOption func(*RunConfig)

// WithDir sets the working directory.
func WithDir(dir string) RunOption { return func(c *RunConfig) { c.Dir = dir } }

// WithEnv overlays env on the process environment.
func WithEnv(env map[string]string) RunOption {
	return func(c *RunConfig) {
		if c.Env == nil {
			c.Env = map[string]string{}
		}
		for k, v := range env {
			c.Env[k] = v
		}
	}
}

// ContinueOnError makes a non-zero exit a plain false result.
func ContinueOnError() RunOption { return func(c *RunConfig) { c.ContinueOnError = true } }

// Quiet suppresses the command echo and output streaming.
func Quiet() RunOption { return func(c *RunConfig) { c.Quiet = true } }

// Configure resolves opts.
func Configure(opts ...RunOption) RunConfig {
	var c RunConfig
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Executor runs command lines through a shell program.
type Executor struct {
	program string
	args    []string
	console *console.Console
	log     *zap.Logger
}

var _ Runner = (*Executor)(nil)

// New returns an Executor for shellCmd, e.g. "/bin/sh -c" or "bash -e -c".
// The command line is appended as the last argument.
func New(shellCmd string, c *console.Console, log *zap.Logger) (*Executor, error) {
	words, err := shellwords.Parse(shellCmd)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid shell %q: %v", shellCmd, err)
	}
	if len(words) == 0 {
		return nil, apperr.InvalidArgument("shell must not be empty")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{program: words[0], args: words[1:], console: c, log: log}, nil
}

// waitDelay bounds how long a cancelled command may keep its output pipes
// open after the process group was signalled.
const waitDelay = 2 * time.Second

// command runs line in its own process group so cancellation reaches every
// process of a compound line, not only the shell.
func (e *Executor) command(ctx context.Context, line string, cfg RunConfig) *exec.Cmd {
	args := append(append([]string(nil), e.args...), line)
	cmd := exec.CommandContext(ctx, e.program, args...)
	cmd.Dir = cfg.Dir
	cmd.Env = applyEnvOverlay(os.Environ(), cfg.Env)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		signalGroup(cmd, syscall.SIGTERM)
		return nil
	}
	cmd.WaitDelay = waitDelay
	return cmd
}

func (e *Executor) Run(ctx context.Context, line string, opts ...RunOption) (bool, error) {
	cfg := Configure(opts...)
	if !cfg.Quiet {
		e.echo(line)
	}
	cmd := e.command(ctx, line, cfg)
	lw := newLineWriter(e.console.Out())
	if cfg.Quiet {
		lw = newLineWriter(nil)
	}
	// Same writer for both streams: exec serialises the writes.
	cmd.Stdout = lw
	cmd.Stderr = lw

	e.log.Debug("run", zap.String("line", line), zap.String("dir", cfg.Dir))
	runErr := cmd.Run()
	lw.Flush()
	if runErr == nil {
		return true, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, fmt.Errorf("%s: %w", line, ctxErr)
	}

	code := -1
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		code = exitErr.ExitCode()
	} else {
		e.log.Debug("start failed", zap.String("program", e.program), zap.Error(runErr))
	}
	e.log.Debug("command failed", zap.String("line", line), zap.Int("code", code))
	if cfg.ContinueOnError {
		e.console.Error("%s failed with return code %d", line, code)
		return false, nil
	}
	return false, apperr.PhaseFailure("%s failed with return code %d", line, code)
}

func (e *Executor) Output(ctx context.Context, line string, opts ...RunOption) (string, error) {
	cfg := Configure(opts...)
	cmd := e.command(ctx, line, cfg)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	e.log.Debug("output", zap.String("line", line))
	if err := cmd.Run(); err != nil {
		e.log.Debug("output failed", zap.String("line", line), zap.String("stderr", stderr.String()), zap.Error(err))
		return strings.TrimSpace(stdout.String()), fmt.Errorf("%s: %w", line, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (e *Executor) echo(line string) {
	e.console.Step("Running commands:")
	for _, part := range strings.Split(line, ";") {
		part = strings.TrimSpace(part)
		if part != "" {
			e.console.Line("  $ " + part)
		}
	}
}
