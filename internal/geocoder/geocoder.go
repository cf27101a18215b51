// Package geocoder orchestrates reverse lookups: it resolves a provider's
// configuration, enforces its daily quota, calls it over HTTP and normalizes
// the answer. On top of the single lookup it layers the dual-language
// resolver, the JSON envelope, sequential fallback across providers and the
// concurrent batch dispatcher.
package geocoder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/re-geocode-service/internal/adapter/httpclient"
	"github.com/couchcryptid/re-geocode-service/internal/adapter/urltemplate"
	"github.com/couchcryptid/re-geocode-service/internal/domain"
	"github.com/couchcryptid/re-geocode-service/internal/observability"
)

// DefaultMaxConcurrency caps in-flight coordinates per batch.
const DefaultMaxConcurrency = 8

// ProviderStore resolves provider definitions by name.
type ProviderStore interface {
	Get(name string) (domain.ProviderConfig, bool)
	All() []domain.ProviderConfig
}

// QuotaTracker reserves and returns daily request budget.
type QuotaTracker interface {
	TryConsume(provider string, limit int) bool
	Refund(provider string, limit int)
}

// URLRenderer renders a provider URL template.
type URLRenderer interface {
	Render(tpl string, p urltemplate.Params) (string, error)
}

// Transport performs the outbound provider request.
type Transport interface {
	Get(ctx context.Context, rawURL string, timeout time.Duration) (httpclient.Response, error)
}

// Geocoder answers coordinates against configured providers. It is safe for
// concurrent use; everything except the quota tracker is read-only.
type Geocoder struct {
	store     ProviderStore
	registry  *domain.Registry
	quota     QuotaTracker
	renderer  URLRenderer
	transport Transport
	logger    *slog.Logger
	metrics   *observability.Metrics

	maxConcurrency int
}

// Option customizes a Geocoder.
type Option func(*Geocoder)

// WithMaxConcurrency bounds how many coordinates of a batch resolve at once.
// n <= 0 removes the bound.
func WithMaxConcurrency(n int) Option {
	return func(g *Geocoder) { g.maxConcurrency = n }
}

// WithRenderer replaces the default pongo2 URL renderer.
func WithRenderer(r URLRenderer) Option {
	return func(g *Geocoder) { g.renderer = r }
}

// New wires a Geocoder. Every configured provider must reference a registered
// adapter; otherwise New fails with domain.ErrConfiguration.
func New(
	store ProviderStore,
	registry *domain.Registry,
	quota QuotaTracker,
	transport Transport,
	logger *slog.Logger,
	metrics *observability.Metrics,
	opts ...Option,
) (*Geocoder, error) {
	g := &Geocoder{
		store:          store,
		registry:       registry,
		quota:          quota,
		renderer:       urltemplate.NewRenderer(),
		transport:      transport,
		logger:         logger,
		metrics:        metrics,
		maxConcurrency: DefaultMaxConcurrency,
	}
	for _, opt := range opts {
		opt(g)
	}

	for _, p := range store.All() {
		if _, ok := registry.Get(p.AdapterID); !ok {
			return nil, fmt.Errorf("%w: provider %s references unknown adapter %q",
				domain.ErrConfiguration, p.Name, p.AdapterID)
		}
	}
	return g, nil
}

// Lookup answers coords with a single provider in the given language.
// Errors are never recovered here: unknown providers, missing adapters,
// exhausted quota, transport and status failures and malformed bodies all
// surface to the caller.
//
// Quota is reserved before the request and refunded only when no request
// reached the provider.
func (g *Geocoder) Lookup(ctx context.Context, coords domain.Coordinates, providerName, lang string) (domain.AddressResult, error) {
	p, ok := g.store.Get(providerName)
	if !ok {
		return domain.AddressResult{}, fmt.Errorf("%w: %s", domain.ErrUnknownProvider, providerName)
	}
	adapter, ok := g.registry.Get(p.AdapterID)
	if !ok {
		return domain.AddressResult{}, fmt.Errorf("%w: %s (provider %s)", domain.ErrAdapterNotFound, p.AdapterID, p.Name)
	}

	if !g.quota.TryConsume(p.Name, p.DailyLimit) {
		g.metrics.QuotaRejections.WithLabelValues(p.Name).Inc()
		return domain.AddressResult{}, fmt.Errorf("%w: %s (limit %d)", domain.ErrQuotaExceeded, p.Name, p.DailyLimit)
	}

	url, err := g.renderer.Render(p.URITemplate, urltemplate.Params{
		Coordinates: coords,
		APIKey:      p.APIKey,
		Lang:        lang,
	})
	if err != nil {
		g.quota.Refund(p.Name, p.DailyLimit)
		return domain.AddressResult{}, fmt.Errorf("%s: %w", p.Name, err)
	}

	start := time.Now()
	resp, err := g.transport.Get(ctx, url, p.Timeout)
	g.metrics.ProviderDuration.WithLabelValues(p.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, domain.ErrTransport) {
			g.quota.Refund(p.Name, p.DailyLimit)
		}
		g.metrics.ProviderRequests.WithLabelValues(p.Name, outcome(err)).Inc()
		return domain.AddressResult{}, fmt.Errorf("%s: %w", p.Name, err)
	}

	res, err := adapter.Normalize(resp.Body)
	if err != nil {
		g.metrics.ProviderRequests.WithLabelValues(p.Name, outcome(err)).Inc()
		return domain.AddressResult{}, fmt.Errorf("%s: %w", p.Name, err)
	}
	g.metrics.ProviderRequests.WithLabelValues(p.Name, "success").Inc()
	return res, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrTransport):
		return "transport_error"
	case errors.Is(err, domain.ErrHTTPStatus):
		return "http_error"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "malformed"
	default:
		return "error"
	}
}
