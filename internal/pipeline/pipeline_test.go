package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/re-geocode-service/internal/domain"
	"github.com/couchcryptid/re-geocode-service/internal/observability"
	"github.com/couchcryptid/re-geocode-service/internal/pipeline"
	"github.com/couchcryptid/re-geocode-service/internal/providers"
)

// --- mocks ---

// mockExtractor hands out its events in one batch, then blocks until the
// context is cancelled.
type mockExtractor struct {
	events []domain.RawEvent
	calls  atomic.Int64
	err    error
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error) {
	if m.calls.Add(1) == 1 {
		if m.err != nil {
			return nil, m.err
		}
		if len(m.events) > batchSize {
			return m.events[:batchSize], nil
		}
		return m.events, nil
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

type mockTransformer struct {
	err error
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	if m.err != nil {
		return domain.OutputEvent{}, m.err
	}
	return domain.OutputEvent{Key: raw.Key, Value: raw.Value}, nil
}

type mockLoader struct {
	mu     sync.Mutex
	loaded []domain.OutputEvent
	err    error
}

func (m *mockLoader) LoadBatch(_ context.Context, events []domain.OutputEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.loaded = append(m.loaded, events...)
	return nil
}

func (m *mockLoader) snapshot() []domain.OutputEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.OutputEvent(nil), m.loaded...)
}

// mockResolver echoes the request back inside a geocoding envelope.
type mockResolver struct {
	mu        sync.Mutex
	providers [][]string
}

func (m *mockResolver) LookupWithFallback(_ context.Context, c domain.Coordinates, providers []string, lang string) domain.Envelope {
	m.mu.Lock()
	m.providers = append(m.providers, providers)
	m.mu.Unlock()

	if len(providers) == 0 || providers[0] == "down" {
		return domain.NewExhaustedEnvelope(nil)
	}
	return domain.NewEnvelope(
		domain.ProviderConfig{Name: providers[0], Type: domain.ProviderTypeGeocoding},
		c,
		domain.AddressResult{AddressEnglish: "addr-" + lang},
	)
}

func (m *mockResolver) LookupBatch(ctx context.Context, coords []domain.Coordinates, providers []string, lang string) []domain.Envelope {
	out := make([]domain.Envelope, len(coords))
	for i, c := range coords {
		out[i] = m.LookupWithFallback(ctx, c, providers, lang)
	}
	return out
}

func newStore(t *testing.T) *providers.Store {
	t.Helper()
	s, err := providers.Parse([]byte("[strategies]\ntype = strategies\ndefault = nominatim, opencage\n"), "")
	require.NoError(t, err)
	return s
}

func makeRequest(t *testing.T, id string, lat, lon float64) domain.RawEvent {
	t.Helper()
	data, err := json.Marshal(domain.LookupRequest{ID: id, Latitude: lat, Longitude: lon})
	require.NoError(t, err)
	return domain.RawEvent{Key: []byte(id), Value: data}
}

func runFor(t *testing.T, p *pipeline.Pipeline, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	require.NoError(t, p.Run(ctx))
}

// --- pipeline ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	raw := makeRequest(t, "req-1", 48.1351, 11.582)

	ext := &mockExtractor{events: []domain.RawEvent{raw}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), metrics, 10, 4)

	runFor(t, p, 300*time.Millisecond)

	loaded := ldr.snapshot()
	require.Len(t, loaded, 1)
	assert.Equal(t, raw.Value, loaded[0].Value)
	assert.NoError(t, p.CheckReadiness(context.Background()))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.MessagesConsumed), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.MessagesProduced), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.PipelineRunning), 0)
}

func TestPipeline_Run_PreservesOrderWithinBatch(t *testing.T) {
	events := make([]domain.RawEvent, 20)
	for i := range events {
		events[i] = makeRequest(t, string(rune('a'+i)), float64(i), 0)
	}
	ldr := &mockLoader{}
	p := pipeline.New(&mockExtractor{events: events}, &mockTransformer{}, ldr, slog.Default(), observability.NewMetricsForTesting(), 50, 0)

	runFor(t, p, 300*time.Millisecond)

	loaded := ldr.snapshot()
	require.Len(t, loaded, 20)
	for i := range events {
		assert.Equal(t, events[i].Key, loaded[i].Key)
	}
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ldr := &mockLoader{}
	p := pipeline.New(&mockExtractor{}, &mockTransformer{}, ldr, slog.Default(), observability.NewMetricsForTesting(), 10, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.snapshot())
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_TransformErrorCommitsAndSkips(t *testing.T) {
	var committed atomic.Bool
	raw := makeRequest(t, "req-2", 1, 2)
	raw.Commit = func(context.Context) error {
		committed.Store(true)
		return nil
	}

	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(&mockExtractor{events: []domain.RawEvent{raw}}, &mockTransformer{err: errors.New("bad data")}, ldr, slog.Default(), metrics, 10, 1)

	runFor(t, p, 300*time.Millisecond)

	assert.Empty(t, ldr.snapshot())
	assert.True(t, committed.Load())
	assert.Error(t, p.CheckReadiness(context.Background()))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.DecodeErrors), 0)
}

func TestPipeline_Run_CommitsAfterLoad(t *testing.T) {
	var committed atomic.Bool
	raw := makeRequest(t, "req-5", 1, 2)
	raw.Topic = "geocode-requests"
	raw.Commit = func(context.Context) error {
		committed.Store(true)
		return nil
	}

	p := pipeline.New(&mockExtractor{events: []domain.RawEvent{raw}}, &mockTransformer{}, &mockLoader{}, slog.Default(), observability.NewMetricsForTesting(), 10, 1)

	runFor(t, p, 300*time.Millisecond)
	assert.True(t, committed.Load())
}

func TestPipeline_Run_LoadFailureDoesNotCommit(t *testing.T) {
	var committed atomic.Bool
	raw := makeRequest(t, "req-6", 1, 2)
	raw.Commit = func(context.Context) error {
		committed.Store(true)
		return nil
	}

	ldr := &mockLoader{err: errors.New("broker down")}
	p := pipeline.New(&mockExtractor{events: []domain.RawEvent{raw}}, &mockTransformer{}, ldr, slog.Default(), observability.NewMetricsForTesting(), 10, 1)

	runFor(t, p, 300*time.Millisecond)
	assert.False(t, committed.Load())
}

func TestPipeline_Run_ExtractErrorBacksOff(t *testing.T) {
	ext := &mockExtractor{err: errors.New("coordinator not available")}
	p := pipeline.New(ext, &mockTransformer{}, &mockLoader{}, slog.Default(), observability.NewMetricsForTesting(), 10, 1)

	runFor(t, p, 500*time.Millisecond)
	assert.GreaterOrEqual(t, ext.calls.Load(), int64(2))
}

// --- transformer ---

func TestLookupTransformer_Transform(t *testing.T) {
	res := &mockResolver{}
	tfm := pipeline.NewTransformer(res, newStore(t), "default", slog.Default())

	raw := domain.RawEvent{Value: []byte(`{"id":"req-1","latitude":52.52,"longitude":13.405,"providers":["google","default"],"lang":"de"}`)}
	out, err := tfm.Transform(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, []byte("req-1"), out.Key)
	assert.Equal(t, "ok", out.Headers["status"])
	assert.JSONEq(t, `{
		"meta":{"api":"google","type":"geocoding","latitude":52.52,"longitude":13.405},
		"result":{"address_english":"addr-de","address_local":"","country_code":"","details":{}}
	}`, string(out.Value))
	if diff := cmp.Diff([][]string{{"google", "nominatim", "opencage"}}, res.providers); diff != "" {
		t.Errorf("priority list mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupTransformer_DefaultStrategy(t *testing.T) {
	res := &mockResolver{}
	tfm := pipeline.NewTransformer(res, newStore(t), "default", slog.Default())

	_, err := tfm.Transform(context.Background(), makeRequest(t, "req-2", 1, 2))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"nominatim", "opencage"}}, res.providers)
}

func TestLookupTransformer_MissingCoordinatesNotResolved(t *testing.T) {
	res := &mockResolver{}
	tfm := pipeline.NewTransformer(res, newStore(t), "default", slog.Default())

	_, err := tfm.Transform(context.Background(), domain.RawEvent{Value: []byte(`{"id":"r1","lat":48.1,"lon":11.5}`)})
	require.Error(t, err)
	assert.Empty(t, res.providers)
}

func TestLookupTransformer_ErrorEnvelopeIsNotAnError(t *testing.T) {
	tfm := pipeline.NewTransformer(&mockResolver{}, newStore(t), "default", slog.Default())

	raw := domain.RawEvent{Value: []byte(`{"id":"req-3","latitude":1,"longitude":2,"providers":["down"]}`)}
	out, err := tfm.Transform(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "error", out.Headers["status"])
	assert.JSONEq(t, `{"error":"All providers failed"}`, string(out.Value))
}

func TestLookupTransformer_InvalidRequest(t *testing.T) {
	tfm := pipeline.NewTransformer(&mockResolver{}, newStore(t), "default", slog.Default())
	_, err := tfm.Transform(context.Background(), domain.RawEvent{Value: []byte("not json")})
	assert.Error(t, err)
}
