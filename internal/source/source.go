// Package source defines the source adapter contract and the shared driver
// that connects, scrapes, publishes, and releases resources for every
// adapter. Adapters are independent values implementing a small capability
// interface; the driver owns connection lifecycle so a panic-free exit path
// is guaranteed regardless of how an individual scrape ends.
package source

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/agrilens/price-scraper/internal/catalog"
	"github.com/agrilens/price-scraper/internal/market"
	"github.com/agrilens/price-scraper/internal/publish"
	"github.com/agrilens/price-scraper/internal/transport"
)

// Adapter is the capability a concrete data source supplies: produce the
// finite sequence of normalized price records for one run. Everything else
// (connections, source registration, publishing, cleanup) is the driver's
// job.
type Adapter interface {
	// Name is the source's registry name, e.g. "Jiji.ng Marketplace".
	Name() string

	// SourceURL is recorded in the catalog when the source is first seen.
	SourceURL() string

	// Scrape produces the run's records using the session's catalog
	// resolver. Returning an error fails the whole run for this adapter.
	Scrape(ctx context.Context, sess *Session) ([]market.PriceRecord, error)
}

// Session carries the per-run dependencies the driver acquires on behalf of
// an adapter. Sessions are valid only for the duration of one Run call.
type Session struct {
	SourceID   int64
	SourceName string
	Catalog    *catalog.Resolver
	Logger     *zap.Logger
}

// Runner is the shared driver. The factory fields open adapter-scoped
// connections: each Run acquires a fresh catalog and transport pair and
// releases both on every exit path, so connections are never shared across
// adapters or reused after close.
type Runner struct {
	NewCatalog   func(ctx context.Context) (catalog.Provider, error)
	NewTransport func(ctx context.Context) (transport.Provider, error)
	Queue        string
	Logger       *zap.Logger
}

// Run drives one adapter through connect, source registration, scrape,
// publish, and cleanup. Connectivity failures and scrape errors are fatal to
// this run and returned to the caller; individual publish failures are not.
func (r *Runner) Run(ctx context.Context, adapter Adapter) error {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("source", adapter.Name()))
	logger.Info("Starting scraper")

	provider, err := r.NewCatalog(ctx)
	if err != nil {
		return fmt.Errorf("connect catalog: %w", err)
	}
	defer provider.Close()

	tp, err := r.NewTransport(ctx)
	if err != nil {
		return fmt.Errorf("connect transport: %w", err)
	}
	defer func() {
		if cerr := tp.Close(); cerr != nil {
			logger.Warn("Failed to close transport", zap.Error(cerr))
		}
	}()

	resolver := catalog.NewResolver(provider, logger)
	sourceID, err := resolver.Source(ctx, adapter.Name(), adapter.SourceURL())
	if err != nil {
		return err
	}

	sess := &Session{
		SourceID:   sourceID,
		SourceName: adapter.Name(),
		Catalog:    resolver,
		Logger:     logger,
	}
	records, err := adapter.Scrape(ctx, sess)
	if err != nil {
		return fmt.Errorf("scrape %s: %w", adapter.Name(), err)
	}
	logger.Info("Scraping finished", zap.Int("records", len(records)))

	publisher := publish.New(tp, r.Queue, logger)
	published := 0
	for _, record := range records {
		if publisher.Publish(ctx, sourceID, adapter.Name(), record) {
			published++
		}
	}
	logger.Info("Run complete",
		zap.Int("records", len(records)),
		zap.Int("published", published),
	)
	return nil
}
