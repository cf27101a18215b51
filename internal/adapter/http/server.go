package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/re-geocode-service/internal/domain"
	"github.com/couchcryptid/re-geocode-service/internal/observability"
)

const (
	requestIDHeader  = "X-Request-ID"
	maxBatchBodySize = 1 << 20
	// MaxBatchCoordinates bounds a single POST /v1/batch request.
	MaxBatchCoordinates = 1000
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// PriorityResolver expands a strategy name or comma-separated provider list.
type PriorityResolver interface {
	PriorityList(selector string) []string
}

// Server exposes the lookup API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger

	resolver        domain.Resolver
	strategies      PriorityResolver
	defaultStrategy string
}

// Option customizes a Server.
type Option func(*Server)

// WithLookupAPI mounts /v1/reverse and /v1/batch. Requests without a
// providers parameter use defaultStrategy.
func WithLookupAPI(resolver domain.Resolver, strategies PriorityResolver, defaultStrategy string) Option {
	return func(s *Server) {
		s.resolver = resolver
		s.strategies = strategies
		s.defaultStrategy = defaultStrategy
	}
}

// NewServer creates an HTTP server with /healthz, /readyz, and /metrics routes.
func NewServer(addr string, ready ReadinessChecker, logger *slog.Logger, opts ...Option) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 2 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	if s.resolver != nil {
		mux.HandleFunc("GET /v1/reverse", s.handleReverse)
		mux.HandleFunc("POST /v1/batch", s.handleBatch)
	}
	s.httpServer.Handler = withRequestID(mux)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// handleReverse serves GET /v1/reverse?lat=&lon=&providers=&lang=. Provider
// failures are reported inside the envelope with status 200.
func (s *Server) handleReverse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	coords, err := parseCoordinates(q.Get("lat"), q.Get("lon"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	list := s.priorityList(q.Get("providers"))
	if len(list) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("no providers requested"))
		return
	}

	// Started lookups run to completion even if the client goes away.
	env := s.resolver.LookupWithFallback(context.WithoutCancel(r.Context()), coords, list, q.Get("lang"))
	if env.Failed() {
		s.logger.WarnContext(r.Context(), "reverse lookup exhausted providers",
			"lat", coords.Latitude, "lon", coords.Longitude, "providers", list)
	}
	writeJSON(w, http.StatusOK, env)
}

type batchRequest struct {
	Coordinates []domain.Coordinates `json:"coordinates"`
	Providers   []string             `json:"providers"`
	Lang        string               `json:"lang"`
}

// handleBatch serves POST /v1/batch and answers with one envelope per
// coordinate, in request order.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBatchBodySize))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode batch request: %w", err))
		return
	}

	switch n := len(req.Coordinates); {
	case n == 0:
		writeError(w, http.StatusBadRequest, errors.New("coordinates must not be empty"))
		return
	case n > MaxBatchCoordinates:
		writeError(w, http.StatusBadRequest, fmt.Errorf("at most %d coordinates per batch", MaxBatchCoordinates))
		return
	}
	for i, c := range req.Coordinates {
		if err := validate(c); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("coordinates[%d]: %w", i, err))
			return
		}
	}

	list := s.priorityList(strings.Join(req.Providers, ","))
	if len(list) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("no providers requested"))
		return
	}

	start := time.Now()
	out := s.resolver.LookupBatch(context.WithoutCancel(r.Context()), req.Coordinates, list, req.Lang)
	s.logger.InfoContext(r.Context(), "batch lookup finished",
		"coordinates", len(req.Coordinates),
		"duration", time.Since(start),
	)
	writeJSON(w, http.StatusOK, out)
}

// priorityList resolves strategy names and provider lists. An empty selector
// falls back to the default strategy.
func (s *Server) priorityList(selector string) []string {
	if strings.TrimSpace(selector) == "" {
		selector = s.defaultStrategy
	}
	return s.strategies.PriorityList(selector)
}

func parseCoordinates(lat, lon string) (domain.Coordinates, error) {
	if lat == "" || lon == "" {
		return domain.Coordinates{}, errors.New("lat and lon are required")
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("invalid lat %q", lat)
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("invalid lon %q", lon)
	}
	c := domain.Coordinates{Latitude: la, Longitude: lo}
	return c, validate(c)
}

func validate(c domain.Coordinates) error {
	if math.IsNaN(c.Latitude) || c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", c.Latitude)
	}
	if math.IsNaN(c.Longitude) || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", c.Longitude)
	}
	return nil
}

// withRequestID tags each request with an id, reusing the caller's
// X-Request-ID when present.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(observability.WithRequestID(r.Context(), id)))
	})
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
