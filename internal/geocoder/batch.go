package geocoder

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/re-geocode-service/internal/domain"
)

// LookupBatch runs LookupWithFallback for every coordinate concurrently and
// returns the envelopes in input order. A failing coordinate yields an error
// envelope; the batch as a whole never fails.
func (g *Geocoder) LookupBatch(ctx context.Context, coords []domain.Coordinates, providers []string, lang string) []domain.Envelope {
	out := make([]domain.Envelope, len(coords))
	if len(coords) == 0 {
		return out
	}
	g.metrics.LookupBatchSize.Observe(float64(len(coords)))

	var eg errgroup.Group
	if g.maxConcurrency > 0 {
		eg.SetLimit(g.maxConcurrency)
	}
	for i, c := range coords {
		eg.Go(func() error {
			out[i] = g.LookupWithFallback(ctx, c, providers, lang)
			return nil
		})
	}
	_ = eg.Wait()
	return out
}
