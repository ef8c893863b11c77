// Package remove implements `spackter delete`.
package remove

import (
	"github.com/flarebyte/spackter/internal/app"
	"github.com/spf13/cobra"
)

func NewCmd() *cobra.Command {
	var byID, entryOnly bool
	cmd := &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a spack stack and its registry entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			_, err = env.Stacks().Delete(args[0], byID, entryOnly)
			return err
		},
	}
	cmd.Flags().BoolVar(&byID, "id", false, "treat NAME as a stack ID")
	cmd.Flags().BoolVar(&entryOnly, "only-spackter-entry", false, "keep the files, only remove the registry entry")
	return cmd
}
