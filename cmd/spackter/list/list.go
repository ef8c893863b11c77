package list

import (
	"github.com/flarebyte/spackter/internal/app"
	"github.com/flarebyte/spackter/internal/render"
	"github.com/spf13/cobra"
)

// NewCmd returns `spackter list`.
func NewCmd() *cobra.Command {
	var byID bool
	cmd := &cobra.Command{
		Use:   "list [NAME]",
		Short: "List registered spack stacks, or show one in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			svc := env.Stacks()
			if len(args) == 1 {
				m, err := svc.Find(args[0], byID)
				if err != nil {
					return err
				}
				return render.Detail(cmd.OutOrStdout(), m)
			}
			ms, err := svc.List()
			if err != nil {
				return err
			}
			if len(ms) == 0 {
				env.Console.Step("No spack stacks registered.")
				return nil
			}
			return render.Compact(cmd.OutOrStdout(), ms)
		},
	}
	cmd.Flags().BoolVar(&byID, "id", false, "treat NAME as a stack ID")
	return cmd
}
