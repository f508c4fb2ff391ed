package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agrilens/price-scraper/internal/sched"
)

// newScheduleCmd creates the 'schedule' subcommand: a full scraper run
// immediately and then on a fixed interval until SIGINT or SIGTERM.
func newScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Runs the scrapers on a fixed interval",
		Long: `Runs every enabled source immediately and again on each interval
(schedule.interval_minutes, default 30) until interrupted. Failed runs are
logged and retried on the next interval.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			interval := time.Duration(viper.GetInt("schedule.interval_minutes")) * time.Minute
			scheduler := sched.New(interval, appInstance.GetLogger())
			scheduler.Run(ctx, func(ctx context.Context) error {
				appInstance.GetOrchestrator().RunAll(ctx)
				return nil
			})
			return nil
		},
	}
}
