package domain

import "context"

// Resolver answers coordinates against a priority list of providers. A
// Resolver never fails as a whole: when every provider fails the returned
// envelope carries the error.
type Resolver interface {
	// LookupWithFallback returns the first provider answer for coords.
	LookupWithFallback(ctx context.Context, coords Coordinates, providers []string, lang string) Envelope

	// LookupBatch resolves every coordinate and keeps input order.
	LookupBatch(ctx context.Context, coords []Coordinates, providers []string, lang string) []Envelope
}
