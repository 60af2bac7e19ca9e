package catalog

import "context"

// Store is the local cache: the last-known product set plus the locally owned
// favorite flags. It is advisory, never a correctness-critical store — read
// failures surface as errors so callers can log them, but every caller in
// this package treats them as "cache empty" and moves on.
//
// Favorite flags live in their own keyed map (name → bool) rather than inline
// in the product record, so a wholesale upsert of freshly fetched products
// can never destroy favorite state.
type Store interface {
	Ping(ctx context.Context) error

	// UpsertAll writes the product fields for each record, keyed by name.
	// Existing records are overwritten in place, new ones inserted. Favorite
	// flags are untouched.
	UpsertAll(ctx context.Context, products []Product) error

	// FetchAll returns every cached record, unordered, with the favorite
	// flag joined on.
	FetchAll(ctx context.Context) ([]Product, error)

	// SetFavorite records the flag for a product name. Setting a flag for a
	// name with no cached record is still persisted: the flag is owned
	// locally and outlives any particular fetched snapshot.
	SetFavorite(ctx context.Context, name string, favorite bool) error

	// Favorites returns the name → flag map for joining onto fetched data.
	Favorites(ctx context.Context) (map[string]bool, error)
}
