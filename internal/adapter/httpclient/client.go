// Package httpclient is the outbound transport used to call providers.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/couchcryptid/re-geocode-service/internal/domain"
)

const (
	userAgent    = "re-geocode/1.0"
	maxBodyBytes = 10 << 20
	maxErrorBody = 512
)

// Response is a successful (2xx) provider response.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client performs GET requests with a per-call timeout.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a transport. Timeouts are applied per request, so the
// underlying http.Client has none.
func NewClient(logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Get fetches rawURL. Failures before a response arrives (network errors,
// timeouts) wrap domain.ErrTransport; a body cut off after the response
// started wraps domain.ErrMalformedResponse; non-2xx responses return
// *domain.HTTPStatusError.
func (c *Client) Get(ctx context.Context, rawURL string, timeout time.Duration) (Response, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Response{}, fmt.Errorf("%w: create request: %v", domain.ErrTransport, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Response{}, fmt.Errorf("%w: read body (status %d): %v", domain.ErrMalformedResponse, resp.StatusCode, err)
	}

	c.logger.Debug("provider response",
		"host", req.URL.Host,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Response{}, &domain.HTTPStatusError{
			StatusCode: resp.StatusCode,
			Body:       truncate(strings.TrimSpace(string(body)), maxErrorBody),
		}
	}
	return Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}
