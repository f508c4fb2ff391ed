package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/agrilens/price-scraper/internal/app"
	"github.com/agrilens/price-scraper/internal/logging"
	"github.com/agrilens/price-scraper/internal/orchestrator"
	"github.com/agrilens/price-scraper/internal/source"
	"github.com/agrilens/price-scraper/pkg/config"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application interface that commands will use.
// This allows us to inject a mock app during tests.
type App interface {
	Close()
	GetLogger() *zap.Logger
	GetRunner() *source.Runner
	GetOrchestrator() *orchestrator.Orchestrator
	NewManual() *source.Manual
}

// newApp is the application factory. It's a variable so we can
// replace it with a mock factory in our tests.
var newApp func(ctx context.Context) (App, error) = func(ctx context.Context) (App, error) {
	return app.NewApp(ctx)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price-scraper",
		Short: "Commodity price ingestion for Nigerian agricultural markets.",
		Long: `price-scraper collects agricultural commodity prices from online
marketplaces and other sources, normalizes them against the product and
location catalog, and publishes them to the ingestion queue for downstream
processing.`,

		// This hook runs AFTER config is loaded but BEFORE the subcommand's
		// RunE, so the application is built from the final configuration.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if viper.GetBool("logging.development") {
				logging.InitLogger(true)
			}
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		// This hook ensures services are shut down gracefully.
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cobra.OnInitialize(config.InitConfig)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.price-scraper/config.yaml)")

	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newSourcesCmd())
	cmd.AddCommand(newScheduleCmd())
	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newSubmitCmd())

	return cmd
}

// resolveApp pulls the App out of the command context.
func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	// Initialize the logger once at the very start.
	logging.InitLogger(false)

	if err := newRootCmd().Execute(); err != nil {
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}
