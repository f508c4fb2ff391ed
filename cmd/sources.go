package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// newSourcesCmd creates the 'sources' subcommand, which lists the
// registered sources with their priority and enabled state.
func newSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "Lists the registered price sources",

		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPRIORITY\tENABLED")
			for _, reg := range appInstance.GetOrchestrator().Registrations() {
				fmt.Fprintf(w, "%s\t%d\t%t\n", reg.Name, reg.Priority, reg.Enabled)
			}
			return w.Flush()
		},
	}
}
