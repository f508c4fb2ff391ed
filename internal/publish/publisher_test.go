package publish

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agrilens/price-scraper/internal/market"
	"github.com/agrilens/price-scraper/internal/transport"
)

func testRecord() market.PriceRecord {
	return market.PriceRecord{
		ProductID:    4,
		ProductName:  "Tomatoes",
		LocationID:   1,
		LocationName: "Mile 12 Market",
		Price:        decimal.NewFromInt(12000),
		Unit:         "basket",
		Currency:     market.CurrencyNGN,
	}
}

func TestPublishSealsDurableEnvelope(t *testing.T) {
	t.Parallel()

	mem := transport.NewMemory()
	captured := time.Date(2025, 11, 3, 8, 30, 0, 0, time.UTC)
	p := New(mem, "", zap.NewNop()).WithClock(func() time.Time { return captured })

	require.True(t, p.Publish(context.Background(), 7, "Lagos Sample Market Data", testRecord()))

	msgs := mem.Messages()
	require.Len(t, msgs, 1)
	require.Equal(t, DefaultQueue, msgs[0].Queue)
	require.True(t, msgs[0].Durable)

	var env market.Envelope
	require.NoError(t, json.Unmarshal(msgs[0].Body, &env))
	require.Equal(t, int64(7), env.SourceID)
	require.Equal(t, "Lagos Sample Market Data", env.SourceName)
	require.Equal(t, captured, env.ScrapedAt)
	require.Equal(t, "Tomatoes", env.Data.ProductName)
	require.True(t, env.Data.Price.Equal(decimal.NewFromInt(12000)))
}

func TestPublishFailureDoesNotAbortBatch(t *testing.T) {
	t.Parallel()

	mem := transport.NewMemory()
	mem.FailNext(errors.New("broker unavailable"))
	p := New(mem, "scraped_prices", zap.NewNop())

	// First record fails, the remaining ones still go through.
	require.False(t, p.Publish(context.Background(), 1, "Jiji.ng Marketplace", testRecord()))
	require.True(t, p.Publish(context.Background(), 1, "Jiji.ng Marketplace", testRecord()))
	require.True(t, p.Publish(context.Background(), 1, "Jiji.ng Marketplace", testRecord()))
	require.Len(t, mem.Messages(), 2)
}
