package market

import "strings"

// LocationPattern pairs a substring pattern with the canonical catalog
// identifier it maps to.
type LocationPattern struct {
	Pattern string
	ID      int64
}

// LocationTable maps free-text location strings to canonical location
// identifiers. Patterns are scanned in order and the first case-insensitive
// substring match wins, so more specific city and market patterns must be
// registered before the broader state-level patterns that would otherwise
// shadow them. This is deliberately a slice, not a map: iteration order is
// load-bearing.
type LocationTable struct {
	Patterns  []LocationPattern
	DefaultID int64
}

// Resolve returns the canonical id for the first pattern contained in raw,
// or DefaultID when nothing matches. Location mapping is best-effort; an
// unrecognized market never drops a record.
func (t LocationTable) Resolve(raw string) int64 {
	lowered := strings.ToLower(raw)
	for _, p := range t.Patterns {
		if strings.Contains(lowered, strings.ToLower(p.Pattern)) {
			return p.ID
		}
	}
	return t.DefaultID
}
