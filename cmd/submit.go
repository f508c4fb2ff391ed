package cmd

import (
	"github.com/spf13/cobra"
)

// newSubmitCmd creates the 'submit' subcommand, an interactive console for
// entering prices by hand. Entries flow through the same catalog resolution
// and queue publish path as the scrapers.
func newSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit",
		Short: "Interactively submits prices from the terminal",

		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			return appInstance.GetRunner().Run(cmd.Context(), appInstance.NewManual())
		},
	}
}
