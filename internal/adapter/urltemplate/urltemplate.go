// Package urltemplate renders provider URL templates such as
//
//	https://nominatim.openstreetmap.org/reverse?lat={{ latitude }}&lon={{ longitude }}&accept-language={{ lang }}
//
// Available variables: latitude, longitude, apikey (alias api_key) and lang.
package urltemplate

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/couchcryptid/re-geocode-service/internal/domain"
	"github.com/flosch/pongo2/v6"
)

// Params are the values substituted into a provider URL template.
type Params struct {
	Coordinates domain.Coordinates
	APIKey      string
	Lang        string
}

// Renderer compiles templates once and renders them concurrently.
type Renderer struct {
	mu        sync.RWMutex
	templates map[string]*pongo2.Template
}

// NewRenderer returns an empty template cache.
func NewRenderer() *Renderer {
	return &Renderer{templates: make(map[string]*pongo2.Template)}
}

// Render substitutes params into tpl. Template syntax errors are configuration
// errors.
func (r *Renderer) Render(tpl string, p Params) (string, error) {
	t, err := r.compile(tpl)
	if err != nil {
		return "", err
	}

	apiKey := pongo2.AsSafeValue(url.QueryEscape(p.APIKey))
	out, err := t.Execute(pongo2.Context{
		"latitude":  pongo2.AsSafeValue(p.Coordinates.LatString()),
		"longitude": pongo2.AsSafeValue(p.Coordinates.LonString()),
		"apikey":    apiKey,
		"api_key":   apiKey,
		"lang":      pongo2.AsSafeValue(url.QueryEscape(p.Lang)),
	})
	if err != nil {
		return "", fmt.Errorf("%w: render url template: %v", domain.ErrConfiguration, err)
	}
	return out, nil
}

func (r *Renderer) compile(tpl string) (*pongo2.Template, error) {
	r.mu.RLock()
	t, ok := r.templates[tpl]
	r.mu.RUnlock()
	if ok {
		return t, nil
	}

	t, err := pongo2.FromString(tpl)
	if err != nil {
		return nil, fmt.Errorf("%w: parse url template: %v", domain.ErrConfiguration, err)
	}

	r.mu.Lock()
	r.templates[tpl] = t
	r.mu.Unlock()
	return t, nil
}
