package add

import (
	"github.com/flarebyte/spackter/internal/app"
	"github.com/spf13/cobra"
)

// NewCmd returns `spackter add`.
func NewCmd() *cobra.Command {
	var envScript string
	cmd := &cobra.Command{
		Use:   "add NAME PATH",
		Short: "Register an existing Spack installation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			_, err = env.Stacks().Add(args[0], args[1], envScript)
			return err
		},
	}
	cmd.Flags().StringVar(&envScript, "env-script", "", "script that activates the stack (default PATH/share/spack/setup-env.sh)")
	return cmd
}
