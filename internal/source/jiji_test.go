package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agrilens/price-scraper/internal/catalog"
	"github.com/agrilens/price-scraper/internal/fetch"
	"github.com/agrilens/price-scraper/internal/market"
)

const jijiRicePage = `
<html><body>
<div class="b-list-advert__gallery__item">
  <div class="b-advert-title-inner">Ofada local rice 50kg, stone free</div>
  <div class="qa-advert-price">₦48,500</div>
  <span class="b-list-advert__region">Mushin, Lagos</span>
</div>
<div class="b-list-advert__gallery__item">
  <div class="b-advert-title-inner">Thailand foreign rice 50kg</div>
  <div class="qa-advert-price">₦66,000</div>
  <span class="b-list-advert__region">Lagos</span>
</div>
</body></html>`

func jijiSession(t *testing.T) *Session {
	t.Helper()
	provider := new(catalog.MockProvider)
	provider.On("ProductIDByName", context.Background(), "Rice (Local)").Return(int64(4), true, nil)
	return &Session{
		SourceID:   7,
		SourceName: "Jiji.ng Marketplace",
		Catalog:    catalog.NewResolver(provider, zap.NewNop()),
		Logger:     zap.NewNop(),
	}
}

func newTestJiji(t *testing.T, fetcher fetch.Fetcher, rules []market.ProductRule) *Jiji {
	t.Helper()
	j, err := NewJiji(fetcher, JijiConfig{Rules: rules})
	require.NoError(t, err)
	j.sleep = func(context.Context, time.Duration) {}
	return j
}

func TestJijiScrapeExtractsMatchingListings(t *testing.T) {
	t.Parallel()

	rules := []market.ProductRule{{
		Name:        "Rice (Local)",
		Query:       "mango+rice",
		Include:     []string{"local", "ofada"},
		Exclude:     []string{"foreign", "thailand"},
		DefaultUnit: "bag (50kg)",
	}}
	stub := fetch.NewStub(map[string]string{
		"https://jiji.ng/search?query=mango+rice": jijiRicePage,
	})

	j := newTestJiji(t, stub, rules)
	records, err := j.Scrape(context.Background(), jijiSession(t))
	require.NoError(t, err)

	require.Len(t, records, 1)
	require.Equal(t, "Rice (Local)", records[0].ProductName)
	require.Equal(t, int64(16), records[0].LocationID) // Mushin precedes the Lagos state default
	require.Equal(t, "Mushin, Lagos", records[0].LocationName)

	reqs := stub.Requests()
	require.Len(t, reqs, 1)
	require.Equal(t, "https://jiji.ng/search?query=mango+rice", reqs[0].URL)
	require.NotEmpty(t, reqs[0].Headers["User-Agent"])
}

func TestJijiScrapeSkipsFailedProductFetch(t *testing.T) {
	t.Parallel()

	rules := []market.ProductRule{
		{Name: "Yam", Query: "tubers+yam", Include: []string{"tuber"}},
		{Name: "Rice (Local)", Query: "mango+rice", Include: []string{"local", "ofada"}, DefaultUnit: "bag (50kg)"},
	}
	// Only the rice page is served; the yam fetch fails and is skipped.
	stub := fetch.NewStub(map[string]string{
		"https://jiji.ng/search?query=mango+rice": jijiRicePage,
	})

	j := newTestJiji(t, stub, rules)
	records, err := j.Scrape(context.Background(), jijiSession(t))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Len(t, stub.Requests(), 2)
}

func TestJijiScrapeStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	stub := fetch.NewStub(nil)
	stub.Err = errors.New("should never be reached")

	j := newTestJiji(t, stub, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := j.Scrape(ctx, jijiSession(t))
	require.Error(t, err)
	require.Empty(t, stub.Requests())
}

func TestNewJijiRejectsRuleWithoutIncludes(t *testing.T) {
	t.Parallel()

	_, err := NewJiji(fetch.NewStub(nil), JijiConfig{
		Rules: []market.ProductRule{{Name: "Broken", Query: "q"}},
	})
	require.Error(t, err)
}

func TestJijiDefaults(t *testing.T) {
	t.Parallel()

	j, err := NewJiji(fetch.NewStub(nil), JijiConfig{})
	require.NoError(t, err)
	require.Equal(t, "Jiji.ng Marketplace", j.Name())
	require.Equal(t, "https://jiji.ng", j.SourceURL())
	require.Len(t, j.cfg.Rules, 8)
	require.True(t, j.cfg.MinPrice.Equal(decimal.NewFromInt(1000)))

	// Jitter stays inside the configured politeness window.
	for range 100 {
		d := j.jitter()
		require.GreaterOrEqual(t, d, 2*time.Second)
		require.Less(t, d, 5*time.Second)
	}
}
