// Package orchestrator sequences the registered source adapters: priority
// ordering, per-adapter failure isolation, politeness pacing between
// adapters, and the run summary.
package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/agrilens/price-scraper/internal/id/uuid"
	"github.com/agrilens/price-scraper/internal/metrics"
	"github.com/agrilens/price-scraper/internal/source"
)

// Status is the outcome of one adapter execution.
type Status string

const (
	// StatusSuccess marks a run that completed without a fatal error.
	StatusSuccess Status = "success"
	// StatusFailed marks a run whose adapter raised a fatal error.
	StatusFailed Status = "failed"
)

// Registration declares one adapter to the orchestrator. Lower priority
// numbers run earlier; disabled adapters are skipped entirely.
type Registration struct {
	Name     string
	Priority int
	Enabled  bool
	Adapter  source.Adapter
}

// RunResult summarizes one adapter execution. Results live only for the
// duration of the run; they are reported, never persisted.
type RunResult struct {
	Adapter string
	Status  Status
	Elapsed time.Duration
	Err     error
}

// Orchestrator drives registered adapters sequentially through the shared
// runner.
type Orchestrator struct {
	runner *source.Runner
	regs   []Registration
	delay  time.Duration
	logger *zap.Logger
	sleep  func(ctx context.Context, d time.Duration)
	ids    *uuid.Generator
	now    func() time.Time
}

// New builds an Orchestrator over the given registrations. delay is the
// politeness pause inserted between consecutive adapters.
func New(runner *source.Runner, regs []Registration, delay time.Duration, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		runner: runner,
		regs:   regs,
		delay:  delay,
		logger: logger,
		sleep:  sleepWithContext,
		ids:    uuid.NewUUIDGenerator(),
		now:    time.Now,
	}
}

// Registrations returns the registered adapters in declaration order, for
// listing surfaces.
func (o *Orchestrator) Registrations() []Registration {
	out := make([]Registration, len(o.regs))
	copy(out, o.regs)
	return out
}

// RunAll executes every enabled adapter in ascending priority order. Each
// failure is captured into its RunResult and never aborts the remaining
// adapters. The full result list is returned for summary reporting.
func (o *Orchestrator) RunAll(ctx context.Context) []RunResult {
	runID, err := o.ids.NewID()
	if err != nil {
		runID = "unknown"
	}
	logger := o.logger.With(zap.String("run_id", runID))

	enabled := make([]Registration, 0, len(o.regs))
	for _, reg := range o.regs {
		if reg.Enabled {
			enabled = append(enabled, reg)
		}
	}
	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})

	logger.Info("Scraper run started", zap.Int("adapters", len(enabled)))
	for _, reg := range enabled {
		logger.Info("Scheduled",
			zap.String("adapter", reg.Name),
			zap.Int("priority", reg.Priority),
		)
	}

	results := make([]RunResult, 0, len(enabled))
	start := o.now()
	for i, reg := range enabled {
		if i > 0 {
			// Be polite to the upstream servers between adapters.
			o.sleep(ctx, o.delay)
		}
		results = append(results, o.runOne(ctx, logger, reg))
	}

	o.logSummary(logger, results, o.now().Sub(start))
	return results
}

// RunOne executes a single registered adapter by name. An unknown name is
// an error to the caller, not a process failure.
func (o *Orchestrator) RunOne(ctx context.Context, name string) (RunResult, error) {
	for _, reg := range o.regs {
		if reg.Name == name {
			return o.runOne(ctx, o.logger, reg), nil
		}
	}
	return RunResult{}, fmt.Errorf("adapter %q is not registered", name)
}

func (o *Orchestrator) runOne(ctx context.Context, logger *zap.Logger, reg Registration) RunResult {
	logger.Info("Starting adapter", zap.String("adapter", reg.Name))
	start := o.now()
	err := o.runner.Run(ctx, reg.Adapter)
	elapsed := o.now().Sub(start)

	result := RunResult{Adapter: reg.Name, Elapsed: elapsed}
	if err != nil {
		result.Status = StatusFailed
		result.Err = err
		logger.Error("Adapter failed",
			zap.String("adapter", reg.Name),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
	} else {
		result.Status = StatusSuccess
		logger.Info("Adapter completed",
			zap.String("adapter", reg.Name),
			zap.Duration("elapsed", elapsed),
		)
	}
	metrics.ObserveRun(reg.Name, string(result.Status), elapsed)
	return result
}

func (o *Orchestrator) logSummary(logger *zap.Logger, results []RunResult, total time.Duration) {
	succeeded := 0
	for _, r := range results {
		if r.Status == StatusSuccess {
			succeeded++
		}
	}
	logger.Info("Scraper run summary",
		zap.Duration("total", total),
		zap.Int("successful", succeeded),
		zap.Int("failed", len(results)-succeeded),
	)
	for _, r := range results {
		if r.Status == StatusFailed {
			logger.Warn("Failed adapter",
				zap.String("adapter", r.Adapter),
				zap.Error(r.Err),
			)
		}
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
