package create

import (
	"github.com/flarebyte/spackter/internal/app"
	"github.com/flarebyte/spackter/internal/pipeline"
	"github.com/flarebyte/spackter/internal/render"
	"github.com/spf13/cobra"
)

// NewCmd returns `spackter create`.
func NewCmd() *cobra.Command {
	var opts pipeline.Options
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new spack stack from a configuration profile",
		Long: `Create clones Spack into <prefix>/<NAME>, applies the profile's patches and
pull requests, copies its configuration, installs the compiler and package
list, runs the post-install script and registers the stack.

With --create-mirror only a source mirror is prepared and the stack is
registered as MIRROR_ONLY. A later create with --with-mirror finishes it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			deps, err := env.PipelineDeps()
			if err != nil {
				return err
			}
			opts.Name = args[0]
			st, err := pipeline.Execute(cmd.Context(), opts, deps)
			if err != nil {
				return err
			}
			if err := render.Summary(cmd.OutOrStdout(), st.Record); err != nil {
				return err
			}
			if st.Mode == pipeline.ModeMirrorOnly {
				env.Console.Step("Mirror created at %s. Finish the stack with 'spackter create %s --with-mirror %s'.",
					st.MirrorPath, st.Options.Name, st.MirrorPath)
				return nil
			}
			env.Console.Step("Use 'spackter load' to activate the stack or manually source: %s", st.Record.EnvScript)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.Profile, "configs", "", "configuration profile under <root>/configs (default \"default\"; with --with-mirror, the stack's recorded profile)")
	f.StringVar(&opts.Prefix, "prefix", "", "directory the stack is created in (default <root>/spack)")
	f.StringVar(&opts.Compiler, "compiler", "", "compiler spec to install and build with")
	f.StringVar(&opts.Allow, "allow-errors", "", "phases whose failures are skipped: patch,pr,package,script or all")
	f.StringVar(&opts.Deny, "no-allow-errors", "", "phases whose failures abort: patch,pr,package,script or all")
	f.StringVar(&opts.CreateMirror, "create-mirror", "", "only populate a source mirror in this directory")
	f.StringVar(&opts.WithMirror, "with-mirror", "", "finish a MIRROR_ONLY stack using this mirror")
	f.StringVar(&opts.Branch, "spack-branch", "", "Spack branch to clone")
	f.StringVar(&opts.Commit, "spack-commit", "", "Spack commit to check out")
	return cmd
}
