// Package information normalizes responses from point-of-interest style
// providers (time zone, Wikipedia, weather, air quality, tides, sea weather).
// They return descriptive data instead of a postal address: AddressEnglish
// carries a title and AddressLocal a human readable summary.
package information

import "github.com/couchcryptid/re-geocode-service/internal/domain"

// All returns one instance of every information adapter.
func All() []domain.Adapter {
	return []domain.Adapter{
		Timezone{},
		NearbyWikipedia{},
		OpenWeather{},
		Pollution{},
		Tides{},
		MareaTides{},
		SeaWeather{},
	}
}
