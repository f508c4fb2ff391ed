package source

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/agrilens/price-scraper/internal/extract"
	"github.com/agrilens/price-scraper/internal/fetch"
	"github.com/agrilens/price-scraper/internal/market"
	"github.com/agrilens/price-scraper/internal/metrics"
)

// JijiConfig is the immutable configuration for the Jiji.ng marketplace
// adapter. Rules, selectors, and the location table are injected at
// construction so tests can substitute them without touching adapter logic.
type JijiConfig struct {
	BaseURL   string
	Headers   map[string]string
	Timeout   time.Duration
	MinDelay  time.Duration
	MaxDelay  time.Duration
	MinPrice  decimal.Decimal
	Rules     []market.ProductRule
	Locations market.LocationTable
	Selectors extract.Selectors
}

// Jiji scrapes commodity listings from the Jiji.ng marketplace, one search
// query per configured product.
type Jiji struct {
	cfg     JijiConfig
	fetcher fetch.Fetcher
	sleep   func(ctx context.Context, d time.Duration)
	rng     *rand.Rand
}

// NewJiji builds the adapter, filling zero config fields with the defaults
// below. Rules with no include keywords are rejected outright rather than
// silently matching nothing.
func NewJiji(fetcher fetch.Fetcher, cfg JijiConfig) (*Jiji, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://jiji.ng"
	}
	if cfg.Headers == nil {
		cfg.Headers = DefaultJijiHeaders()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MinDelay == 0 {
		cfg.MinDelay = 2 * time.Second
	}
	if cfg.MaxDelay == 0 {
		cfg.MaxDelay = 5 * time.Second
	}
	if cfg.MinPrice.IsZero() {
		cfg.MinPrice = decimal.NewFromInt(1000)
	}
	if cfg.Rules == nil {
		cfg.Rules = DefaultProductRules()
	}
	if cfg.Locations.Patterns == nil {
		cfg.Locations = DefaultLocationTable()
	}
	if cfg.Selectors.Fragment == nil {
		cfg.Selectors = DefaultJijiSelectors()
	}
	for _, rule := range cfg.Rules {
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("jiji adapter: %w", err)
		}
	}
	return &Jiji{
		cfg:     cfg,
		fetcher: fetcher,
		sleep:   sleepWithContext,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Name implements Adapter.
func (j *Jiji) Name() string { return "Jiji.ng Marketplace" }

// SourceURL implements Adapter.
func (j *Jiji) SourceURL() string { return j.cfg.BaseURL }

// Scrape searches the marketplace once per product rule and extracts
// normalized records from each result page. A failed fetch skips that
// product and continues with the next; only context cancellation aborts the
// run.
func (j *Jiji) Scrape(ctx context.Context, sess *Session) ([]market.PriceRecord, error) {
	extractor := &extract.Extractor{
		Selectors: j.cfg.Selectors,
		Locations: j.cfg.Locations,
		MinPrice:  j.cfg.MinPrice,
		Source:    j.Name(),
		Logger:    sess.Logger,
	}

	var all []market.PriceRecord
	for _, rule := range j.cfg.Rules {
		if err := ctx.Err(); err != nil {
			return all, fmt.Errorf("scrape interrupted: %w", err)
		}

		// Randomized pause between search queries keeps the request rate
		// polite and less fingerprintable.
		j.sleep(ctx, j.jitter())

		searchURL := fmt.Sprintf("%s/search?query=%s", j.cfg.BaseURL, rule.Query)
		doc, err := j.fetcher.Fetch(ctx, fetch.Request{
			URL:     searchURL,
			Headers: j.cfg.Headers,
			Timeout: j.cfg.Timeout,
		})
		if err != nil {
			sess.Logger.Error("Search fetch failed, skipping product",
				zap.String("product", rule.Name),
				zap.String("url", searchURL),
				zap.Error(err),
			)
			metrics.ObserveFetchFailure(j.Name())
			continue
		}

		records := extractor.Extract(ctx, doc, rule, sess.Catalog)
		sess.Logger.Info("Product search finished",
			zap.String("product", rule.Name),
			zap.Int("valid_listings", len(records)),
		)
		all = append(all, records...)
	}
	return all, nil
}

func (j *Jiji) jitter() time.Duration {
	spread := j.cfg.MaxDelay - j.cfg.MinDelay
	if spread <= 0 {
		return j.cfg.MinDelay
	}
	return j.cfg.MinDelay + time.Duration(j.rng.Int63n(int64(spread)))
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

// DefaultJijiHeaders mimics a desktop browser; marketplaces serve sparse
// layouts to obvious bots.
func DefaultJijiHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
		"Referer":         "https://jiji.ng/",
	}
}

// DefaultJijiSelectors carries the marketplace's current listing layout
// first and older layouts as fallbacks.
func DefaultJijiSelectors() extract.Selectors {
	return extract.Selectors{
		Fragment: []string{"div.b-list-advert__gallery__item", "div.masonry-item"},
		Title:    []string{"div.b-advert-title-inner", "h3", "div.qa-advert-title"},
		Price:    []string{"div.qa-advert-price", "span.qa-advert-price"},
		Location: []string{"span.b-list-advert__region", "div.b-list-advert__region"},
	}
}

// DefaultProductRules is the tracked commodity basket with its strict
// inclusion/exclusion keyword sets.
func DefaultProductRules() []market.ProductRule {
	return []market.ProductRule{
		{
			Name:        "Rice (Local)",
			Query:       "mango+rice",
			Include:     []string{"local", "nigeria", "mango", "ofada", "stone free", "abakaliki"},
			Exclude:     []string{"foreign", "long grain", "thailand", "caprice", "vape"},
			DefaultUnit: "bag (50kg)",
		},
		{
			Name:        "Rice (Foreign)",
			Query:       "mama+gold+rice",
			Include:     []string{"foreign", "royal", "stallion", "caprice", "thailand", "mama gold"},
			Exclude:     []string{"local", "ofada", "nigeria"},
			DefaultUnit: "bag (50kg)",
		},
		{
			Name:        "Beans (Brown)",
			Query:       "brown+beans",
			Include:     []string{"brown", "honey", "oloyin", "drum"},
			Exclude:     []string{"white", "black"},
			DefaultUnit: "bag (100kg)",
		},
		{
			Name:        "Tomatoes",
			Query:       "basket+tomatoes",
			Include:     []string{"basket", "fresh", "rafia"},
			Exclude:     []string{"paste", "tin", "sachet"},
			DefaultUnit: "basket",
		},
		{
			Name:        "Onions",
			Query:       "bag+onions",
			Include:     []string{"dry", "bag", "white", "red"},
			Exclude:     []string{"spring", "powder"},
			DefaultUnit: "bag (100kg)",
		},
		{
			Name:        "Palm Oil",
			Query:       "palm+oil+25+liters",
			Include:     []string{"red", "palm", "oil"},
			Exclude:     []string{"kernel", "vegetable", "kings"},
			DefaultUnit: "liter",
		},
		{
			Name:        "Yam",
			Query:       "tubers+yam",
			Include:     []string{"tuber", "fresh", "benue", "abuja"},
			Exclude:     []string{"flour", "pounded", "dried"},
			DefaultUnit: "tuber",
		},
		{
			Name:        "Garri (White)",
			Query:       "bag+garri",
			Include:     []string{"white", "ijebu", "bag"},
			Exclude:     []string{"yellow", "fried"},
			DefaultUnit: "bag (50kg)",
		},
	}
}

// DefaultLocationTable maps marketplace region strings to catalog location
// ids. City and market patterns come before the state-level patterns that
// would otherwise shadow them; the fallback is Mile 12 Market, Lagos.
func DefaultLocationTable() market.LocationTable {
	return market.LocationTable{
		Patterns: []market.LocationPattern{
			// City / market specific patterns first.
			{Pattern: "Port Harcourt", ID: 10},
			{Pattern: "Port-Harcourt", ID: 10},
			{Pattern: "Obio-Akpor", ID: 11},
			{Pattern: "Shomolu", ID: 12},
			{Pattern: "Ajah", ID: 13},
			{Pattern: "Agege", ID: 14},
			{Pattern: "Kosofe", ID: 15},
			{Pattern: "Mushin", ID: 16},
			{Pattern: "Ilorin West", ID: 17},
			{Pattern: "Ilorin South", ID: 33},
			{Pattern: "Karu", ID: 18},
			{Pattern: "Maiduguri", ID: 19},
			{Pattern: "Ojo", ID: 20},
			{Pattern: "Ikorodu", ID: 21},
			{Pattern: "Lagos Island", ID: 22},
			{Pattern: "Eko", ID: 22},
			{Pattern: "Dei-Dei", ID: 23},
			{Pattern: "Apo District", ID: 24},
			{Pattern: "Oju", ID: 25},
			{Pattern: "Warri", ID: 26},
			{Pattern: "Abakaliki", ID: 27},
			{Pattern: "Obi-Nasarawa", ID: 28},
			{Pattern: "Ado-Odo", ID: 29},
			{Pattern: "Ota", ID: 29},
			{Pattern: "Ipaja", ID: 30},
			{Pattern: "Kubwa", ID: 31},
			{Pattern: "Ede", ID: 32},
			{Pattern: "Sagamu", ID: 34},
			{Pattern: "Ibadan", ID: 4},
			// State-level defaults afterwards.
			{Pattern: "Lagos", ID: 1},
			{Pattern: "FCT", ID: 2},
			{Pattern: "Abuja", ID: 2},
			{Pattern: "Abia", ID: 3},
			{Pattern: "Oyo", ID: 4},
			{Pattern: "Kano", ID: 5},
			{Pattern: "Rivers", ID: 10},
			{Pattern: "Edo", ID: 7},
			{Pattern: "Anambra", ID: 8},
			{Pattern: "Plateau", ID: 9},
			{Pattern: "Ogun", ID: 29},
			{Pattern: "Kwara", ID: 17},
			{Pattern: "Borno", ID: 19},
			{Pattern: "Delta", ID: 26},
			{Pattern: "Ebonyi", ID: 27},
			{Pattern: "Nasarawa", ID: 28},
			{Pattern: "Benue", ID: 25},
			{Pattern: "Osun", ID: 32},
		},
		DefaultID: 1,
	}
}
