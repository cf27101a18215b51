// Package payload holds JSON helpers shared by the provider adapters.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/couchcryptid/re-geocode-service/internal/domain"
)

// Decode unmarshals body into v, keeping numbers as json.Number inside
// untyped values. Only bodies that are not JSON (syntax errors, empty or
// truncated input) are reported as domain.ErrMalformedResponse. Valid JSON of
// an unexpected shape leaves the mismatched fields at their zero values, so
// adapters fall back to their defaults.
func Decode(adapter string, body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	err := dec.Decode(v)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrMalformedResponse, adapter, err)
}

// Scalar renders a decoded JSON scalar as a string. Objects, arrays and nulls
// report false.
func Scalar(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case float64:
		return FormatFloat(x), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return "", false
	}
}

// FormatFloat renders f with the shortest exact representation.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Float reads a numeric JSON value.
func Float(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case float64:
		return x, true
	default:
		return 0, false
	}
}

// CopyScalars copies every scalar field of obj into attrs, prefixing keys.
func CopyScalars(attrs map[string]string, prefix string, obj map[string]any) {
	for k, v := range obj {
		if s, ok := Scalar(v); ok {
			attrs[prefix+k] = s
		}
	}
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NewResult starts an AddressResult that keeps the raw body.
func NewResult(body []byte) domain.AddressResult {
	return domain.AddressResult{
		RawResponse: string(body),
		Attributes:  map[string]string{},
	}
}
