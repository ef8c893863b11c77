package root

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/flarebyte/spackter/cmd/spackter/add"
	"github.com/flarebyte/spackter/cmd/spackter/create"
	"github.com/flarebyte/spackter/cmd/spackter/list"
	"github.com/flarebyte/spackter/cmd/spackter/load"
	"github.com/flarebyte/spackter/cmd/spackter/remove"
	"github.com/flarebyte/spackter/cmd/spackter/version"
	"github.com/flarebyte/spackter/internal/app"
	"github.com/flarebyte/spackter/internal/config"
	"github.com/flarebyte/spackter/internal/console"
	"github.com/flarebyte/spackter/internal/registry"
	"github.com/flarebyte/spackter/internal/render"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for spackter.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spackter",
		Short: "Create, register and load Spack software stacks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsEnv(cmd) {
				return nil
			}
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			cmd.SetContext(app.WithEnv(cmd.Context(), env))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	pf := cmd.PersistentFlags()
	pf.String(config.KeyRoot, "", "spackter root directory (env SPACKTER_ROOT)")
	pf.String(config.KeyConfig, "", "config file (default $XDG_CONFIG_HOME/spackter/config.yaml)")
	pf.String(config.KeyLogLevel, "", "log level: debug, info, warn or error")
	pf.BoolP(config.KeyYes, "y", false, "answer yes to every confirmation")
	pf.Bool(config.KeyNoColor, false, "disable coloured output")
	pf.String(config.KeyUpstreamURL, "", "Spack git repository to clone")
	pf.String(config.KeyPullRequestURL, "", "URL format for pull request diffs, %s is the PR number")
	pf.String(config.KeyShell, "", "shell used to run commands")

	cmd.AddCommand(version.NewCmd())
	cmd.AddCommand(create.NewCmd())
	cmd.AddCommand(list.NewCmd())
	cmd.AddCommand(load.NewCmd())
	cmd.AddCommand(remove.NewCmd())
	cmd.AddCommand(add.NewCmd())
	return cmd
}

func needsEnv(cmd *cobra.Command) bool {
	if cmd == cmd.Root() || cmd.Name() == "help" {
		return false
	}
	_, skip := cmd.Annotations[app.AnnotationNoEnv]
	return !skip
}

func setup(cmd *cobra.Command) (*app.Env, error) {
	cfg, err := config.Load(cmd.Root().PersistentFlags())
	if err != nil {
		return nil, err
	}
	return app.New(cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// Execute runs the root command with the process streams. SIGINT and
// SIGTERM cancel the running command.
func Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return ExecuteWith(ctx, args, os.Stdin, os.Stdout, os.Stderr)
}

// ExecuteWith runs the root command on the given streams and prints any
// fatal error before returning it.
func ExecuteWith(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		noColor, _ := cmd.PersistentFlags().GetBool(config.KeyNoColor)
		report(console.New(out, errOut, noColor), out, err)
	}
	return err
}

func report(c *console.Console, out io.Writer, err error) {
	var amb *registry.AmbiguousError
	if errors.As(err, &amb) {
		c.Error("%s:", amb.Error())
		_ = render.Compact(out, amb.Matches)
		c.Step("Use 'spackter load <id> --id' to specify the intended spack stack.")
		return
	}
	msg := strings.Join(strings.Fields(err.Error()), " ")
	if msg == "" {
		msg = "error"
	}
	c.Error("%s", msg)
}
