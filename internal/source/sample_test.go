package source

import (
	"context"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agrilens/price-scraper/internal/catalog"
)

func sampleSession(provider *catalog.MockProvider) *Session {
	return &Session{
		SourceID:   5,
		SourceName: "Lagos Sample Market Data",
		Catalog:    catalog.NewResolver(provider, zap.NewNop()),
		Logger:     zap.NewNop(),
	}
}

func TestSampleScrapeGeneratesPerPair(t *testing.T) {
	t.Parallel()

	provider := new(catalog.MockProvider)
	provider.On("ProductIDByName", context.Background(), "Yam").Return(int64(7), true, nil)
	provider.On("LocationIDByName", context.Background(), "Mile 12 Market").Return(int64(1), true, nil)
	provider.On("LocationIDByName", context.Background(), "Bodija Market").Return(int64(4), true, nil)

	s := NewSample(
		[]SampleRange{{Product: "Yam", Min: 1500, Max: 3000, Unit: "tuber"}},
		nil,
		rand.New(rand.NewSource(42)),
	)

	records, err := s.Scrape(context.Background(), sampleSession(provider))
	require.NoError(t, err)
	require.Len(t, records, 2)

	for _, rec := range records {
		require.Equal(t, int64(7), rec.ProductID)
		require.Equal(t, "tuber", rec.Unit)
		require.Equal(t, "NGN", rec.Currency)
		// Band plus at most ±5% variation.
		require.True(t, rec.Price.GreaterThanOrEqual(decimal.NewFromFloat(1500*0.95)))
		require.True(t, rec.Price.LessThanOrEqual(decimal.NewFromFloat(3000*1.05)))
	}
	require.Equal(t, "Mile 12 Market", records[0].LocationName)
	require.Equal(t, "Bodija Market", records[1].LocationName)
}

func TestSampleScrapeSkipsUnresolvedPairs(t *testing.T) {
	t.Parallel()

	provider := new(catalog.MockProvider)
	provider.On("ProductIDByName", context.Background(), "Yam").Return(int64(0), false, nil)
	provider.On("LocationIDByName", context.Background(), "Mile 12 Market").Return(int64(1), true, nil)
	provider.On("LocationIDByName", context.Background(), "Bodija Market").Return(int64(4), true, nil)

	s := NewSample(
		[]SampleRange{{Product: "Yam", Min: 1500, Max: 3000, Unit: "tuber"}},
		nil,
		rand.New(rand.NewSource(1)),
	)

	records, err := s.Scrape(context.Background(), sampleSession(provider))
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestSampleDefaults(t *testing.T) {
	t.Parallel()

	s := NewSample(nil, nil, nil)
	require.Equal(t, "Lagos Sample Market Data", s.Name())
	require.Equal(t, "sample", s.SourceURL())
	require.Len(t, s.products, 8)
	require.Len(t, s.locations, 2)
}
