package source

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agrilens/price-scraper/internal/catalog"
)

func manualSession(provider *catalog.MockProvider) *Session {
	return &Session{
		SourceID:   9,
		SourceName: "Manual Entry",
		Catalog:    catalog.NewResolver(provider, zap.NewNop()),
		Logger:     zap.NewNop(),
	}
}

func TestManualScrapeCollectsEntries(t *testing.T) {
	t.Parallel()

	provider := new(catalog.MockProvider)
	provider.On("ProductIDByName", context.Background(), "Garri (White)").Return(int64(8), true, nil)
	provider.On("LocationIDByName", context.Background(), "Bodija Market").Return(int64(4), true, nil)

	input := strings.Join([]string{
		"Garri (White)",
		"Bodija Market",
		"28,500",
		"bag (50kg)",
		"done",
	}, "\n")
	var out bytes.Buffer

	m := NewManual(strings.NewReader(input), &out)
	records, err := m.Scrape(context.Background(), manualSession(provider))
	require.NoError(t, err)

	require.Len(t, records, 1)
	require.Equal(t, int64(8), records[0].ProductID)
	require.Equal(t, int64(4), records[0].LocationID)
	require.True(t, records[0].Price.Equal(decimal.NewFromInt(28500)))
	require.Equal(t, "bag (50kg)", records[0].Unit)
	require.Contains(t, out.String(), "Added: Garri (White)")
	require.Contains(t, out.String(), "Total entries: 1")
}

func TestManualScrapeRejectsBadEntriesAndContinues(t *testing.T) {
	t.Parallel()

	provider := new(catalog.MockProvider)
	provider.On("ProductIDByName", context.Background(), "Unicorn Feed").Return(int64(0), false, nil)
	provider.On("ProductIDByName", context.Background(), "Yam").Return(int64(7), true, nil)
	provider.On("LocationIDByName", context.Background(), "Wuse Market").Return(int64(2), true, nil)

	input := strings.Join([]string{
		// Unknown product: discarded.
		"Unicorn Feed", "Wuse Market", "5000", "bag",
		// Unparsable price: discarded before any catalog lookup.
		"Yam", "Wuse Market", "call for price", "tuber",
		// Valid entry.
		"Yam", "Wuse Market", "2500", "tuber",
		"done",
	}, "\n")
	var out bytes.Buffer

	m := NewManual(strings.NewReader(input), &out)
	records, err := m.Scrape(context.Background(), manualSession(provider))
	require.NoError(t, err)

	require.Len(t, records, 1)
	require.Equal(t, "Yam", records[0].ProductName)
	require.Contains(t, out.String(), "not found in catalog")
	require.Contains(t, out.String(), "Invalid price")
}

func TestManualScrapeEndsOnEOF(t *testing.T) {
	t.Parallel()

	m := NewManual(strings.NewReader(""), &bytes.Buffer{})
	records, err := m.Scrape(context.Background(), manualSession(new(catalog.MockProvider)))
	require.NoError(t, err)
	require.Empty(t, records)
}
