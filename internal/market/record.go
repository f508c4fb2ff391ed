// Package market defines the core domain types for commodity price
// ingestion: normalized price records, per-product classification rules,
// location mapping, and the wire envelope handed to the queue transport.
package market

import (
	"github.com/shopspring/decimal"
)

// CurrencyNGN is the fixed currency code for every record this service emits.
const CurrencyNGN = "NGN"

func init() {
	// Downstream consumers expect the price as a JSON number, not a string.
	decimal.MarshalJSONWithoutQuotes = true
}

// PriceRecord is one normalized commodity price observation. ProductID and
// LocationID are canonical catalog identifiers; LocationName keeps the raw
// text as captured so operators can audit the mapping after the fact.
type PriceRecord struct {
	ProductID    int64           `json:"product_id"`
	ProductName  string          `json:"product_name"`
	LocationID   int64           `json:"location_id"`
	LocationName string          `json:"location_name"`
	Price        decimal.Decimal `json:"price"`
	Unit         string          `json:"unit"`
	Currency     string          `json:"currency"`
}
