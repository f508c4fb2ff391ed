package market

import (
	"fmt"
	"strings"
)

// ProductRule configures how raw listing titles are classified for one
// catalog product: the marketplace search query, the keyword sets that
// admit or veto a listing, and the unit attached to accepted records.
type ProductRule struct {
	Name        string
	Query       string
	Include     []string
	Exclude     []string
	DefaultUnit string
}

// Validate checks that the rule can actually classify something.
func (r ProductRule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("product rule requires a name")
	}
	if len(r.Include) == 0 {
		return fmt.Errorf("product rule %q requires at least one include keyword", r.Name)
	}
	return nil
}

// Matches classifies a raw listing title. Exclusion is checked first and is
// authoritative: a single exclude keyword rejects the listing even when
// include keywords are also present. Otherwise the title is accepted iff at
// least one include keyword appears. The filter is precision-biased; dropping
// a legitimate listing is preferred over admitting a wrong one.
func (r ProductRule) Matches(title string) bool {
	lowered := strings.ToLower(title)
	for _, bad := range r.Exclude {
		if strings.Contains(lowered, strings.ToLower(bad)) {
			return false
		}
	}
	for _, good := range r.Include {
		if strings.Contains(lowered, strings.ToLower(good)) {
			return true
		}
	}
	return false
}
