package load

import (
	"fmt"

	"github.com/flarebyte/spackter/internal/app"
	"github.com/spf13/cobra"
)

// NewCmd returns `spackter load`. It only reports the environment script;
// sourcing it is left to the calling shell.
func NewCmd() *cobra.Command {
	var byID, onlyEnvScript bool
	cmd := &cobra.Command{
		Use:     "load NAME",
		Short:   "Print the environment script of a spack stack",
		Example: `  source "$(spackter load mystack --only-env-script)"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			m, err := env.Stacks().Find(args[0], byID)
			if err != nil {
				return err
			}
			if onlyEnvScript {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), m.Record.EnvScript)
				return err
			}
			env.Console.Step("Loading spack stack: %s (ID %d)", m.Record.Name, m.Record.ID)
			env.Console.Step("Using this environment script: %s", m.Record.EnvScript)
			return nil
		},
	}
	cmd.Flags().BoolVar(&byID, "id", false, "treat NAME as a stack ID")
	cmd.Flags().BoolVar(&onlyEnvScript, "only-env-script", false, "print only the environment script path")
	return cmd
}
