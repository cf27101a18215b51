package domain

import "fmt"

// Adapter normalizes one provider's raw response body into an AddressResult.
// Implementations are stateless and safe for concurrent use.
type Adapter interface {
	// Name is the identifier referenced by a provider's Adapter setting.
	Name() string

	// Normalize parses the body. Semantically empty but valid bodies yield a
	// default result; unparseable bodies return ErrMalformedResponse.
	Normalize(body []byte) (AddressResult, error)
}

// Registry maps adapter identifiers to adapters. It is built once at startup
// and never mutated afterwards.
type Registry struct {
	order    []string
	adapters map[string]Adapter
}

// NewRegistry builds a registry, preserving registration order. Duplicate or
// empty identifiers are configuration errors.
func NewRegistry(adapters ...Adapter) (*Registry, error) {
	r := &Registry{
		order:    make([]string, 0, len(adapters)),
		adapters: make(map[string]Adapter, len(adapters)),
	}
	for _, a := range adapters {
		if a == nil || a.Name() == "" {
			return nil, fmt.Errorf("%w: adapter without identifier", ErrConfiguration)
		}
		if _, dup := r.adapters[a.Name()]; dup {
			return nil, fmt.Errorf("%w: adapter %q registered twice", ErrConfiguration, a.Name())
		}
		r.adapters[a.Name()] = a
		r.order = append(r.order, a.Name())
	}
	return r, nil
}

// Get returns the adapter registered under id.
func (r *Registry) Get(id string) (Adapter, bool) {
	a, ok := r.adapters[id]
	return a, ok
}

// Names returns adapter identifiers in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
