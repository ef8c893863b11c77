package pipeline

import (
	"time"

	"github.com/flarebyte/spackter/internal/console"
	"github.com/flarebyte/spackter/internal/prompt"
	"github.com/flarebyte/spackter/internal/registry"
	"github.com/flarebyte/spackter/internal/shell"
	"github.com/flarebyte/spackter/internal/upstream"
	"go.uber.org/zap"
)

// Deps are the collaborators stages use for side effects.
type Deps struct {
	Root     string
	Upstream string
	Version  string

	Store   *registry.Store
	Shell   shell.Runner
	Cloner  upstream.Cloner
	Diffs   upstream.DiffFetcher
	Confirm prompt.Confirmer
	Console *console.Console
	Log     *zap.Logger
	Now     func() time.Time
}

func (d Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}
