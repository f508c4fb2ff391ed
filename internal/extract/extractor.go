// Package extract turns parsed listing pages into normalized price records.
// It applies the per-product classification rules, price sanity filtering,
// and catalog/location resolution that every source adapter shares.
package extract

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/agrilens/price-scraper/internal/catalog"
	"github.com/agrilens/price-scraper/internal/market"
	"github.com/agrilens/price-scraper/internal/metrics"
)

// unknownLocation is recorded when a listing carries no location fragment.
const unknownLocation = "Unknown"

// ProductResolver is the slice of the catalog resolver the extractor needs.
type ProductResolver interface {
	Product(ctx context.Context, text string) catalog.Lookup
}

// Selectors are prioritized CSS selector chains for the listing fragments
// and the fields inside each fragment. For every chain the first selector
// that yields a non-empty result wins; results are never merged across
// selectors. Marketplace markup shifts often, so each chain carries the
// current layout first and older layouts as fallbacks.
type Selectors struct {
	Fragment []string
	Title    []string
	Price    []string
	Location []string
}

// Extractor produces normalized price records from one parsed page and one
// product rule.
type Extractor struct {
	Selectors Selectors
	Locations market.LocationTable
	MinPrice  decimal.Decimal
	Source    string
	Logger    *zap.Logger
}

// Extract walks the candidate listing fragments on the page and returns the
// records that survive classification, price sanity checks, and product
// resolution. A product miss drops the record with a warning; a location
// miss falls back to the table's default id. The sequence is finite and
// produced in page order.
func (e *Extractor) Extract(
	ctx context.Context,
	doc *goquery.Document,
	rule market.ProductRule,
	products ProductResolver,
) []market.PriceRecord {
	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	fragments := e.fragments(doc)
	if fragments == nil {
		return nil
	}

	var records []market.PriceRecord
	fragments.Each(func(_ int, listing *goquery.Selection) {
		title := e.firstText(listing, e.Selectors.Title)
		if title == "" {
			metrics.ObserveDrop(e.Source, metrics.DropMissingFragment)
			return
		}
		if !rule.Matches(title) {
			metrics.ObserveDrop(e.Source, metrics.DropRuleRejected)
			return
		}

		priceText := e.firstText(listing, e.Selectors.Price)
		price := market.ParsePrice(priceText)
		if price.IsZero() {
			metrics.ObserveDrop(e.Source, metrics.DropPriceUnparsable)
			return
		}
		if price.LessThanOrEqual(e.MinPrice) {
			// Placeholder and malformed listings tend to carry token prices.
			metrics.ObserveDrop(e.Source, metrics.DropPriceTooLow)
			return
		}

		rawLocation := e.firstText(listing, e.Selectors.Location)
		if rawLocation == "" {
			rawLocation = unknownLocation
		}

		product := products.Product(ctx, rule.Name)
		if !product.OK() {
			logger.Warn("Skipping listing, product not in catalog",
				zap.String("product", rule.Name),
				zap.String("title", title),
			)
			metrics.ObserveDrop(e.Source, metrics.DropProductMiss)
			return
		}

		records = append(records, market.PriceRecord{
			ProductID:    product.ID,
			ProductName:  rule.Name,
			LocationID:   e.Locations.Resolve(rawLocation),
			LocationName: rawLocation,
			Price:        price,
			Unit:         rule.DefaultUnit,
			Currency:     market.CurrencyNGN,
		})
		metrics.ObserveRecord(e.Source)
	})
	return records
}

// fragments returns the candidate listing selection from the first fragment
// selector that matches anything, or nil when the page has no candidates.
func (e *Extractor) fragments(doc *goquery.Document) *goquery.Selection {
	for _, sel := range e.Selectors.Fragment {
		if found := doc.Find(sel); found.Length() > 0 {
			return found
		}
	}
	return nil
}

// firstText returns the trimmed text of the first selector in the chain that
// yields non-empty text.
func (e *Extractor) firstText(s *goquery.Selection, chain []string) string {
	for _, sel := range chain {
		if text := strings.TrimSpace(s.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}
