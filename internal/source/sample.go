package source

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/agrilens/price-scraper/internal/market"
	"github.com/agrilens/price-scraper/internal/metrics"
)

// SampleRange is the typical Naira price band for one commodity in the
// synthetic generator.
type SampleRange struct {
	Product string
	Min     int64
	Max     int64
	Unit    string
}

// Sample generates realistic synthetic price data: one record per
// product/location pair with a price drawn from the product's band plus a
// small variation. It exercises the full catalog-and-publish path without
// touching any marketplace.
type Sample struct {
	products  []SampleRange
	locations []string
	rng       *rand.Rand
}

// NewSample builds the generator; rng may be nil for a time-seeded source.
func NewSample(products []SampleRange, locations []string, rng *rand.Rand) *Sample {
	if products == nil {
		products = DefaultSampleRanges()
	}
	if locations == nil {
		locations = []string{"Mile 12 Market", "Bodija Market"}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sample{products: products, locations: locations, rng: rng}
}

// Name implements Adapter.
func (s *Sample) Name() string { return "Lagos Sample Market Data" }

// SourceURL implements Adapter.
func (s *Sample) SourceURL() string { return "sample" }

// Scrape emits one record per product/location pair whose ids resolve; a
// pair with an unresolved product or location is skipped with a warning.
func (s *Sample) Scrape(ctx context.Context, sess *Session) ([]market.PriceRecord, error) {
	var records []market.PriceRecord
	for _, product := range s.products {
		for _, location := range s.locations {
			productID := sess.Catalog.Product(ctx, product.Product)
			locationID := sess.Catalog.Location(ctx, location)
			if !productID.OK() || !locationID.OK() {
				sess.Logger.Warn("Skipping sample pair, ids not found",
					zap.String("product", product.Product),
					zap.String("location", location),
				)
				metrics.ObserveDrop(s.Name(), metrics.DropProductMiss)
				continue
			}

			records = append(records, market.PriceRecord{
				ProductID:    productID.ID,
				ProductName:  product.Product,
				LocationID:   locationID.ID,
				LocationName: location,
				Price:        s.price(product),
				Unit:         product.Unit,
				Currency:     market.CurrencyNGN,
			})
			metrics.ObserveRecord(s.Name())
		}
	}
	return records, nil
}

// price draws uniformly from the product band and applies ±5% variation,
// rounded to two decimal places.
func (s *Sample) price(product SampleRange) decimal.Decimal {
	base := float64(product.Min) + s.rng.Float64()*float64(product.Max-product.Min)
	variation := 1 + (s.rng.Float64()*0.10 - 0.05)
	return decimal.NewFromFloat(base * variation).Round(2)
}

// DefaultSampleRanges is the generator's commodity basket with typical
// price bands in Naira.
func DefaultSampleRanges() []SampleRange {
	return []SampleRange{
		{Product: "Rice (Local)", Min: 45000, Max: 55000, Unit: "bag (50kg)"},
		{Product: "Rice (Foreign)", Min: 65000, Max: 75000, Unit: "bag (50kg)"},
		{Product: "Beans (Brown)", Min: 150000, Max: 180000, Unit: "bag (100kg)"},
		{Product: "Tomatoes", Min: 8000, Max: 15000, Unit: "basket"},
		{Product: "Onions", Min: 35000, Max: 45000, Unit: "bag (100kg)"},
		{Product: "Palm Oil", Min: 1800, Max: 2500, Unit: "liter"},
		{Product: "Yam", Min: 1500, Max: 3000, Unit: "tuber"},
		{Product: "Garri (White)", Min: 25000, Max: 35000, Unit: "bag (50kg)"},
	}
}
