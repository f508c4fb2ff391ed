package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/agrilens/price-scraper/internal/market"
)

// Manual is the operator price-entry console: a line-oriented prompt loop
// over an io.Reader/io.Writer pair, used when a market has no scrapable
// source. Entries that fail resolution or price parsing are rejected and
// the operator is prompted again; "done" ends the session.
type Manual struct {
	in  io.Reader
	out io.Writer
}

// NewManual builds the console adapter over the given streams.
func NewManual(in io.Reader, out io.Writer) *Manual {
	return &Manual{in: in, out: out}
}

// Name implements Adapter.
func (m *Manual) Name() string { return "Manual Entry" }

// SourceURL implements Adapter.
func (m *Manual) SourceURL() string { return "manual" }

// Scrape runs the interactive entry loop until the operator types "done" or
// input ends.
func (m *Manual) Scrape(ctx context.Context, sess *Session) ([]market.PriceRecord, error) {
	scanner := bufio.NewScanner(m.in)
	fmt.Fprintln(m.out, "Manual price entry. Type 'done' to finish.")

	var records []market.PriceRecord
	for {
		if err := ctx.Err(); err != nil {
			return records, fmt.Errorf("entry interrupted: %w", err)
		}

		product, ok := m.prompt(scanner, "Product name (or 'done'): ")
		if !ok || strings.EqualFold(product, "done") {
			break
		}
		location, ok := m.prompt(scanner, "Location/Market: ")
		if !ok {
			break
		}
		priceText, ok := m.prompt(scanner, "Price (NGN): ")
		if !ok {
			break
		}
		unit, ok := m.prompt(scanner, "Unit (e.g. 'bag (50kg)'): ")
		if !ok {
			break
		}

		price := market.ParsePrice(priceText)
		if price.IsZero() {
			fmt.Fprintln(m.out, "Invalid price, entry discarded.")
			continue
		}

		productID := sess.Catalog.Product(ctx, product)
		if !productID.OK() {
			fmt.Fprintf(m.out, "Product %q not found in catalog, entry discarded.\n", product)
			continue
		}
		locationID := sess.Catalog.Location(ctx, location)
		if !locationID.OK() {
			fmt.Fprintf(m.out, "Location %q not found in catalog, entry discarded.\n", location)
			continue
		}

		records = append(records, market.PriceRecord{
			ProductID:    productID.ID,
			ProductName:  product,
			LocationID:   locationID.ID,
			LocationName: location,
			Price:        price,
			Unit:         unit,
			Currency:     market.CurrencyNGN,
		})
		fmt.Fprintf(m.out, "Added: %s - NGN %s at %s\n", product, price.String(), location)
	}

	fmt.Fprintf(m.out, "Total entries: %d\n", len(records))
	return records, nil
}

// prompt writes the prompt and reads one trimmed line; ok is false when
// input is exhausted.
func (m *Manual) prompt(scanner *bufio.Scanner, text string) (string, bool) {
	fmt.Fprint(m.out, text)
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}
