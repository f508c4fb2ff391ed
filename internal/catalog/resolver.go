package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// LookupState distinguishes a genuine catalog miss from a store that could
// not be reached. Callers drop the record either way, but the two cases are
// logged and counted separately.
type LookupState int

const (
	// Found means the catalog returned an identifier.
	Found LookupState = iota
	// NotFound means the catalog has no matching entry.
	NotFound
	// Unavailable means the lookup itself failed; treated as a miss.
	Unavailable
)

// Lookup is the outcome of a product or location resolution.
type Lookup struct {
	ID    int64
	State LookupState
}

// OK reports whether the lookup produced a usable identifier.
func (l Lookup) OK() bool { return l.State == Found }

// Resolver maps free text to canonical catalog identifiers on top of a
// Provider. Product and location lookups fail open: a store error is logged
// and surfaced as Unavailable rather than aborting the enclosing source
// adapter over a single I/O hiccup.
type Resolver struct {
	provider Provider
	logger   *zap.Logger
}

// NewResolver wraps a provider.
func NewResolver(provider Provider, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{provider: provider, logger: logger}
}

// Source resolves the source registry entry by exact name, creating it when
// absent. Repeated calls with the same name return the same id and create at
// most one row. Errors here are connectivity-class and fatal to the caller.
func (r *Resolver) Source(ctx context.Context, name, url string) (int64, error) {
	id, found, err := r.provider.SourceIDByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("resolve source %q: %w", name, err)
	}
	if found {
		return id, nil
	}
	id, err = r.provider.InsertSource(ctx, name, url, "website")
	if err != nil {
		return 0, fmt.Errorf("register source %q: %w", name, err)
	}
	r.logger.Info("Registered new source", zap.String("source", name), zap.Int64("source_id", id))
	return id, nil
}

// Product resolves free text to a product identifier.
func (r *Resolver) Product(ctx context.Context, text string) Lookup {
	return r.lookup(ctx, "product", text, r.provider.ProductIDByName)
}

// Location resolves free text to a location identifier.
func (r *Resolver) Location(ctx context.Context, text string) Lookup {
	return r.lookup(ctx, "location", text, r.provider.LocationIDByName)
}

func (r *Resolver) lookup(
	ctx context.Context,
	kind, text string,
	fn func(context.Context, string) (int64, bool, error),
) Lookup {
	id, found, err := fn(ctx, text)
	if err != nil {
		r.logger.Warn("Catalog lookup failed",
			zap.String("kind", kind),
			zap.String("text", text),
			zap.Error(err),
		)
		return Lookup{State: Unavailable}
	}
	if !found {
		return Lookup{State: NotFound}
	}
	return Lookup{ID: id, State: Found}
}
