// Package app assembles the per-invocation environment shared by commands.
package app

import (
	"context"
	"errors"
	"io"

	"github.com/flarebyte/spackter/internal/buildinfo"
	"github.com/flarebyte/spackter/internal/config"
	"github.com/flarebyte/spackter/internal/console"
	"github.com/flarebyte/spackter/internal/logging"
	"github.com/flarebyte/spackter/internal/pipeline"
	"github.com/flarebyte/spackter/internal/prompt"
	"github.com/flarebyte/spackter/internal/registry"
	"github.com/flarebyte/spackter/internal/shell"
	"github.com/flarebyte/spackter/internal/stacks"
	"github.com/flarebyte/spackter/internal/upstream"
	"go.uber.org/zap"
)

// Env is everything a command needs once configuration is resolved.
type Env struct {
	Config  config.Config
	Log     *zap.Logger
	Console *console.Console
	Confirm prompt.Confirmer
	Store   *registry.Store
}

// New builds an Env. Diagnostics go to errOut, progress to out, and answers
// to confirmations are read from in unless cfg.Yes is set.
func New(cfg config.Config, in io.Reader, out, errOut io.Writer) (*Env, error) {
	log, err := logging.New(cfg.LogLevel, errOut)
	if err != nil {
		return nil, err
	}
	var confirm prompt.Confirmer = prompt.NewTerminal(in, out)
	if cfg.Yes {
		confirm = prompt.Fixed(true)
	}
	return &Env{
		Config:  cfg,
		Log:     log,
		Console: console.New(out, errOut, cfg.NoColor),
		Confirm: confirm,
		Store:   registry.NewStore(cfg.Root),
	}, nil
}

// Stacks returns the registry command service.
func (e *Env) Stacks() *stacks.Service {
	return &stacks.Service{
		Store:   e.Store,
		Confirm: e.Confirm,
		Console: e.Console,
		Version: buildinfo.Short(),
	}
}

// PipelineDeps wires the creation pipeline to real processes, git and HTTP.
func (e *Env) PipelineDeps() (pipeline.Deps, error) {
	sh, err := shell.New(e.Config.Shell, e.Console, e.Log.Named("shell"))
	if err != nil {
		return pipeline.Deps{}, err
	}
	return pipeline.Deps{
		Root:     e.Config.Root,
		Upstream: e.Config.UpstreamURL,
		Version:  buildinfo.Short(),
		Store:    e.Store,
		Shell:    sh,
		Cloner:   upstream.GitCloner{Progress: e.Console.Out(), Log: e.Log.Named("git")},
		Diffs:    upstream.NewDiffFetcher(e.Config.PullRequestURL, e.Log.Named("http")),
		Confirm:  e.Confirm,
		Console:  e.Console,
		Log:      e.Log.Named("pipeline"),
	}, nil
}

type ctxKey struct{}

// WithEnv attaches env to ctx.
func WithEnv(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, ctxKey{}, env)
}

var errNoEnv = errors.New("app: environment not initialised")

// FromContext returns the Env attached by WithEnv.
func FromContext(ctx context.Context) (*Env, error) {
	if ctx == nil {
		return nil, errNoEnv
	}
	env, ok := ctx.Value(ctxKey{}).(*Env)
	if !ok || env == nil {
		return nil, errNoEnv
	}
	return env, nil
}
