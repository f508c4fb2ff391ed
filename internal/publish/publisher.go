// Package publish wraps normalized price records in source envelopes and
// hands them to the queue transport.
package publish

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/agrilens/price-scraper/internal/clock/system"
	"github.com/agrilens/price-scraper/internal/market"
	"github.com/agrilens/price-scraper/internal/metrics"
	"github.com/agrilens/price-scraper/internal/transport"
)

// DefaultQueue is the queue downstream ingestion consumes from.
const DefaultQueue = "scraped_prices"

// Publisher serializes envelopes onto a queue transport with durable
// delivery. One message is enqueued per call; deduplication is a downstream
// concern.
type Publisher struct {
	transport transport.Provider
	queue     string
	now       func() time.Time
	logger    *zap.Logger
}

// New builds a Publisher. An empty queue name falls back to DefaultQueue.
func New(tp transport.Provider, queue string, logger *zap.Logger) *Publisher {
	if queue == "" {
		queue = DefaultQueue
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		transport: tp,
		queue:     queue,
		now:       system.New().Now,
		logger:    logger,
	}
}

// WithClock overrides the capture-timestamp source, for tests.
func (p *Publisher) WithClock(now func() time.Time) *Publisher {
	p.now = now
	return p
}

// Publish seals the record in an envelope stamped at call time and enqueues
// it durably. A transport error is logged and reported as false rather than
// propagated, so one failed record never aborts the rest of a batch.
func (p *Publisher) Publish(ctx context.Context, sourceID int64, sourceName string, record market.PriceRecord) bool {
	env := market.NewEnvelope(sourceID, sourceName, record, p.now())
	body, err := json.Marshal(env)
	if err != nil {
		p.logger.Error("Failed to encode envelope",
			zap.String("source", sourceName),
			zap.String("product", record.ProductName),
			zap.Error(err),
		)
		metrics.ObservePublish(sourceName, false)
		return false
	}

	if err := p.transport.Publish(ctx, p.queue, body, true); err != nil {
		p.logger.Error("Failed to publish envelope",
			zap.String("source", sourceName),
			zap.String("product", record.ProductName),
			zap.Error(err),
		)
		metrics.ObservePublish(sourceName, false)
		return false
	}

	p.logger.Info("Published price record",
		zap.String("source", sourceName),
		zap.String("product", record.ProductName),
		zap.String("price", record.Price.String()),
		zap.String("location", record.LocationName),
	)
	metrics.ObservePublish(sourceName, true)
	return true
}
