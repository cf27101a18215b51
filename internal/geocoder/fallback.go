package geocoder

import (
	"context"
	"strings"

	"github.com/couchcryptid/re-geocode-service/internal/domain"
)

// providerFailed is the error text of every per-provider failure record.
const providerFailed = "Provider failed"

// Attempt is the outcome of trying one provider of a priority list. Exactly
// one of Envelope (on success) or Err is meaningful.
type Attempt struct {
	Provider string
	Envelope domain.Envelope
	Err      error
}

// OK reports whether the provider answered.
func (a Attempt) OK() bool { return a.Err == nil }

// Failure converts a failed attempt into its JSON record.
func (a Attempt) Failure() *domain.FailureRecord {
	if a.Err == nil {
		return nil
	}
	return &domain.FailureRecord{
		Error:    providerFailed,
		Provider: a.Provider,
		Details:  a.Err.Error(),
	}
}

// LookupWithFallback tries providers in order and returns the first success.
// When all fail, the result is an error envelope carrying the last failure.
func (g *Geocoder) LookupWithFallback(ctx context.Context, coords domain.Coordinates, providers []string, lang string) domain.Envelope {
	env, _ := g.Resolve(ctx, coords, providers, lang)
	return env
}

// Resolve is LookupWithFallback that also reports every attempt made, in
// order. Names are trimmed and empty names skipped. No state survives the
// call.
func (g *Geocoder) Resolve(ctx context.Context, coords domain.Coordinates, providers []string, lang string) (domain.Envelope, []Attempt) {
	attempts := make([]Attempt, 0, len(providers))
	for _, raw := range providers {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}

		a := g.attempt(ctx, coords, name, lang)
		attempts = append(attempts, a)
		if a.OK() {
			g.metrics.FallbackAttempts.WithLabelValues(name, "success").Inc()
			return a.Envelope, attempts
		}

		g.metrics.FallbackAttempts.WithLabelValues(name, "failure").Inc()
		g.logger.WarnContext(ctx, "provider failed, trying next",
			"provider", name,
			"lat", coords.Latitude,
			"lon", coords.Longitude,
			"error", a.Err,
		)
	}

	g.metrics.FallbackExhausted.Inc()
	var last *domain.FailureRecord
	if n := len(attempts); n > 0 {
		last = attempts[n-1].Failure()
	}
	return domain.NewExhaustedEnvelope(last), attempts
}

func (g *Geocoder) attempt(ctx context.Context, coords domain.Coordinates, name, lang string) Attempt {
	env, err := g.LookupJSON(ctx, coords, name, lang)
	return Attempt{Provider: name, Envelope: env, Err: err}
}
