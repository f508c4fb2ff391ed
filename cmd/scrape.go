// Package cmd defines and implements the CLI commands for the price-scraper
// executable.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agrilens/price-scraper/internal/orchestrator"
)

// newScrapeCmd creates and configures the 'scrape' subcommand. Without
// flags it runs every enabled source in priority order; --source runs a
// single source by its registry name.
func newScrapeCmd() *cobra.Command {
	var sourceName string

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Runs the configured price scrapers",
		Long: `Runs every enabled source in priority order, publishing each
normalized price record to the ingestion queue. Use --source to run a
single source by name, e.g. --source "Jiji.ng Marketplace".`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			orch := appInstance.GetOrchestrator()

			if sourceName != "" {
				result, err := orch.RunOne(cmd.Context(), sourceName)
				if err != nil {
					return err
				}
				if result.Status == orchestrator.StatusFailed {
					return fmt.Errorf("source %q failed: %w", sourceName, result.Err)
				}
				return nil
			}

			results := orch.RunAll(cmd.Context())
			for _, r := range results {
				if r.Status == orchestrator.StatusFailed {
					appInstance.GetLogger().Warn("Source finished with errors",
						zap.String("source", r.Adapter))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceName, "source", "", "run only the named source")
	return cmd
}
