package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// LookupRequest is a stream request to resolve one coordinate.
type LookupRequest struct {
	ID        string   `json:"id"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Providers []string `json:"providers,omitempty"`
	Lang      string   `json:"lang,omitempty"`
}

// Coordinates returns the requested position.
func (r LookupRequest) Coordinates() Coordinates {
	return Coordinates{Latitude: r.Latitude, Longitude: r.Longitude}
}

// ParseLookupRequest decodes a source message. A missing id falls back to the
// message key. Both coordinates must be present; a request without them is
// rejected rather than resolved at (0,0).
func ParseLookupRequest(raw RawEvent) (LookupRequest, error) {
	var wire struct {
		ID        string   `json:"id"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
		Providers []string `json:"providers"`
		Lang      string   `json:"lang"`
	}
	if err := json.Unmarshal(raw.Value, &wire); err != nil {
		return LookupRequest{}, fmt.Errorf("decode lookup request: %w", err)
	}

	req := LookupRequest{ID: wire.ID, Providers: wire.Providers, Lang: wire.Lang}
	if req.ID == "" {
		req.ID = string(raw.Key)
	}
	if req.ID == "" {
		return LookupRequest{}, errors.New("lookup request without id")
	}
	if wire.Latitude == nil || wire.Longitude == nil {
		return LookupRequest{}, fmt.Errorf("lookup request %s: latitude and longitude are required", req.ID)
	}
	req.Latitude, req.Longitude = *wire.Latitude, *wire.Longitude
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		return LookupRequest{}, fmt.Errorf("lookup request %s: coordinates out of range", req.ID)
	}
	return req, nil
}

// SerializeEnvelope builds the sink message for a resolved request.
func SerializeEnvelope(id string, env Envelope) (OutputEvent, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize envelope: %w", err)
	}
	status := "ok"
	if env.Failed() {
		status = "error"
	}
	return OutputEvent{
		Key:   []byte(id),
		Value: data,
		Headers: map[string]string{
			"status":       status,
			"processed_at": clock.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}
