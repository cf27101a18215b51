package domain

import (
	"errors"
	"fmt"
)

// Lookup failure kinds. Callers match them with errors.Is.
var (
	ErrConfiguration     = errors.New("invalid configuration")
	ErrUnknownProvider   = errors.New("unknown provider")
	ErrAdapterNotFound   = errors.New("adapter not found")
	ErrQuotaExceeded     = errors.New("daily quota exceeded")
	ErrTransport         = errors.New("transport error")
	ErrHTTPStatus        = errors.New("unexpected http status")
	ErrMalformedResponse = errors.New("malformed provider response")
)

// HTTPStatusError reports a provider response outside the 2xx range.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http status %d", e.StatusCode)
	}
	return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Body)
}

// Unwrap lets errors.Is(err, ErrHTTPStatus) match.
func (e *HTTPStatusError) Unwrap() error { return ErrHTTPStatus }
