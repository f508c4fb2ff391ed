package market

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice extracts a decimal price from marketplace text such as
// "₦45,000.50" by stripping every rune that is not a digit or a decimal
// point. Unparsable text yields decimal.Zero as a sentinel; callers drop
// such records.
func ParsePrice(text string) decimal.Decimal {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return decimal.Zero
	}
	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return price
}
