package version

import (
	"fmt"
	"runtime"

	"github.com/flarebyte/spackter/internal/app"
	"github.com/flarebyte/spackter/internal/buildinfo"
	"github.com/spf13/cobra"
)

// NewCmd returns `spackter version`. It needs no root directory.
func NewCmd() *cobra.Command {
	var short, asJSON bool
	cmd := &cobra.Command{
		Use:         "version",
		Short:       "Print the spackter version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{app.AnnotationNoEnv: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch {
			case short:
				_, err := fmt.Fprintln(out, buildinfo.Short())
				return err
			case asJSON:
				return encodeJSON(out, map[string]any{
					"version": buildinfo.Short(),
					"commit":  buildinfo.Commit,
					"date":    buildinfo.Date,
					"go":      runtime.Version(),
					"go_os":   runtime.GOOS,
					"go_arch": runtime.GOARCH,
				})
			default:
				_, err := fmt.Fprintf(out, "spackter %s\n", buildinfo.Summary())
				return err
			}
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version string")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print detailed JSON version info")
	cmd.MarkFlagsMutuallyExclusive("short", "json")
	return cmd
}
