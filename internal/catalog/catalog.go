// Package catalog provides access to the canonical product, location, and
// source registry. By using an interface, we decouple the pipeline from a
// specific store implementation, allowing a real Postgres catalog in
// production and a mock in tests.
package catalog

import "context"

// Provider defines the lookup and insert operations the pipeline needs from
// the catalog store. Name lookups return at most one match; Found reports
// whether a row existed so that absence is distinguishable from failure.
type Provider interface {
	// SourceIDByName looks up a source registry entry by its exact name.
	SourceIDByName(ctx context.Context, name string) (id int64, found bool, err error)

	// InsertSource registers a new source and returns its identifier.
	InsertSource(ctx context.Context, name, url, sourceType string) (int64, error)

	// ProductIDByName finds a product whose name contains the given text or
	// whose name appears within it, case-insensitively.
	ProductIDByName(ctx context.Context, name string) (id int64, found bool, err error)

	// LocationIDByName is the location counterpart of ProductIDByName.
	LocationIDByName(ctx context.Context, name string) (id int64, found bool, err error)

	// Close releases the underlying connections.
	Close()
}

// NoOpProvider is a catalog provider that finds nothing. It is useful for
// running the pipeline without a real database.
type NoOpProvider struct{}

// SourceIDByName never finds a source.
func (NoOpProvider) SourceIDByName(context.Context, string) (int64, bool, error) {
	return 0, false, nil
}

// InsertSource pretends to register a source.
func (NoOpProvider) InsertSource(context.Context, string, string, string) (int64, error) {
	return 1, nil
}

// ProductIDByName never finds a product.
func (NoOpProvider) ProductIDByName(context.Context, string) (int64, bool, error) {
	return 0, false, nil
}

// LocationIDByName never finds a location.
func (NoOpProvider) LocationIDByName(context.Context, string) (int64, bool, error) {
	return 0, false, nil
}

// Close does nothing.
func (NoOpProvider) Close() {}
