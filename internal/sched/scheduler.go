// Package sched repeats full scraper runs on a fixed interval until the
// context is canceled.
package sched

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the pause between consecutive runs.
const DefaultInterval = 30 * time.Minute

// Scheduler triggers a run function immediately and then once per interval.
type Scheduler struct {
	Every  time.Duration
	Logger *zap.Logger
}

// New builds a Scheduler. A non-positive interval falls back to
// DefaultInterval.
func New(every time.Duration, logger *zap.Logger) *Scheduler {
	if every <= 0 {
		every = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{Every: every, Logger: logger}
}

// Run executes fn immediately, then every s.Every until ctx is canceled.
// Errors from fn are logged and do not stop the loop; the scheduler exists
// to keep trying.
func (s *Scheduler) Run(ctx context.Context, fn func(context.Context) error) {
	s.Logger.Info("Scheduler started", zap.Duration("interval", s.Every))

	s.tick(ctx, fn)
	ticker := time.NewTicker(s.Every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx, fn)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context, fn func(context.Context) error) {
	if ctx.Err() != nil {
		return
	}
	if err := fn(ctx); err != nil {
		s.Logger.Error("Scheduled run failed", zap.Error(err))
	}
	s.Logger.Info("Next run scheduled", zap.Time("at", time.Now().Add(s.Every)))
}
