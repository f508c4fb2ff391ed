package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agrilens/price-scraper/internal/fetch"
	"github.com/agrilens/price-scraper/internal/inspect"
)

const inspectOutputFile = "website_structure.html"

// newInspectCmd creates the 'inspect' subcommand, a helper for studying a
// page's structure before writing selectors for it.
func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect URL",
		Short: "Analyzes the HTML structure of a listing page",
		Long: `Fetches a page and reports its tables, price-related class names,
listing containers, embedded JSON, and candidate API endpoints. The raw
HTML is saved alongside for manual study.`,
		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]
			fetcher := fetch.NewColly(fetch.CollyConfig{
				UserAgent: viper.GetString("scraper.user_agent"),
				Timeout:   time.Duration(viper.GetInt("scraper.timeout_seconds")) * time.Second,
			})

			doc, err := fetcher.Fetch(cmd.Context(), fetch.Request{URL: url})
			if err != nil {
				return fmt.Errorf("fetch %s: %w", url, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Inspecting: %s\n\n", url)
			inspect.Analyze(doc).Write(out)

			if digest, err := inspect.Fingerprint(doc); err == nil {
				fmt.Fprintf(out, "\nContent hash: %s\n", digest)
			}

			if err := inspect.SaveHTML(doc, inspectOutputFile); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nFull HTML saved to: %s\n", inspectOutputFile)
			return nil
		},
	}
}
