// Package geocoding contains adapters for general reverse geocoding providers.
// Each adapter turns a provider's response body into a domain.AddressResult
// with a formatted address and an ISO country code.
package geocoding

import "github.com/couchcryptid/re-geocode-service/internal/domain"

// All returns one instance of every geocoding adapter.
func All() []domain.Adapter {
	return []domain.Adapter{
		Nominatim{},
		Google{},
		OpenCage{},
		Bing{},
		Mapbox{},
	}
}
