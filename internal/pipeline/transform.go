package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/couchcryptid/re-geocode-service/internal/domain"
)

// PriorityResolver expands a strategy name or comma-separated provider list.
type PriorityResolver interface {
	PriorityList(selector string) []string
}

// LookupTransformer implements Transformer by resolving each request with the
// fallback orchestrator.
type LookupTransformer struct {
	resolver        domain.Resolver
	strategies      PriorityResolver
	defaultStrategy string
	logger          *slog.Logger
}

// NewTransformer creates a LookupTransformer. Requests without providers use
// defaultStrategy.
func NewTransformer(resolver domain.Resolver, strategies PriorityResolver, defaultStrategy string, logger *slog.Logger) *LookupTransformer {
	return &LookupTransformer{
		resolver:        resolver,
		strategies:      strategies,
		defaultStrategy: defaultStrategy,
		logger:          logger,
	}
}

// Transform decodes the request and resolves it. Only undecodable requests
// fail; provider failures travel inside the error envelope.
func (t *LookupTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	req, err := domain.ParseLookupRequest(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	selector := strings.Join(req.Providers, ",")
	if strings.TrimSpace(selector) == "" {
		selector = t.defaultStrategy
	}
	list := t.strategies.PriorityList(selector)

	env := t.resolver.LookupWithFallback(ctx, req.Coordinates(), list, req.Lang)
	if env.Failed() {
		t.logger.WarnContext(ctx, "stream request exhausted providers", "id", req.ID, "providers", list)
	}
	return domain.SerializeEnvelope(req.ID, env)
}
