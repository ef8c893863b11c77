package pipeline

import (
	"context"
	"path/filepath"

	"github.com/flarebyte/spackter/internal/apperr"
	"github.com/flarebyte/spackter/internal/registry"
	"go.uber.org/zap"
)

func commitRecordRunner(ctx context.Context, in State, deps Deps) (State, error) {
	typ := registry.TypeManaged
	if in.Mode == ModeMirrorOnly {
		typ = registry.TypeMirrorOnly
	}
	rec := registry.Record{
		Name:         in.Options.Name,
		Prefix:       in.Prefix,
		Compiler:     in.Compiler,
		Type:         typ,
		Configs:      in.Profile.Name,
		EnvScript:    filepath.Join(in.StackRoot, EnvScriptFile),
		Created:      deps.now().Format("2006-01-02"),
		SpackVersion: spackVersion(ctx, in, deps),
		Patches:      orEmpty(in.Patches),
		PullRequests: orEmpty(in.PullRequests),
		Packages:     orEmpty(in.Packages),
		PostInstall:  in.PostInstall,
	}
	err := deps.Store.Update(func(doc *registry.Document) error {
		committed, err := doc.Commit(in.StackRoot, rec, deps.Version)
		rec = committed
		return err
	})
	if err != nil {
		return in, err
	}
	in.Record = rec
	return in, nil
}

// completeRecordRunner turns the MIRROR_ONLY record into a MANAGED one,
// replacing its install results.
func completeRecordRunner(ctx context.Context, in State, deps Deps) (State, error) {
	var rec registry.Record
	err := deps.Store.Update(func(doc *registry.Document) error {
		cur, ok := doc.Get(in.StackRoot)
		if !ok {
			return apperr.NotFound("no spackter entry found for %s", in.StackRoot)
		}
		if cur.Type != registry.TypeMirrorOnly {
			return apperr.InvalidArgument("stack at %s is no longer %s", in.StackRoot, registry.TypeMirrorOnly)
		}
		cur.Type = registry.TypeManaged
		cur.Packages = orEmpty(in.Packages)
		cur.PostInstall = in.PostInstall
		rec = cur
		return doc.Replace(in.StackRoot, cur)
	})
	if err != nil {
		return in, err
	}
	in.Record = rec
	return in, nil
}

// spackVersion captures `spack --version`. An unusable installation is
// recorded with the unknown sentinel rather than failing the commit.
func spackVersion(ctx context.Context, in State, deps Deps) string {
	out, err := deps.Shell.Output(ctx, spackLine(in.StackRoot, "spack --version"), spackOpts(in.StackRoot)...)
	if err != nil || out == "" {
		deps.logger().Warn("cannot determine spack version", zap.String("stack", in.StackRoot), zap.Error(err))
		return registry.UnknownSpackVersion
	}
	return out
}

func orEmpty(o []registry.Outcome) []registry.Outcome {
	if o == nil {
		return []registry.Outcome{}
	}
	return o
}

func init() {
	Register(StageCommitRecord, commitRecordRunner)
	Register(StageCompleteRecord, completeRecordRunner)
}
