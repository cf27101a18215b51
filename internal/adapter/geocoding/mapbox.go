package geocoding

import (
	"strings"

	"github.com/couchcryptid/re-geocode-service/internal/adapter/payload"
	"github.com/couchcryptid/re-geocode-service/internal/domain"
)

// Mapbox understands Mapbox Geocoding v5 reverse responses
// (mapbox.places/{lon},{lat}.json).
type Mapbox struct{}

// Mapbox API response types.

type mapboxResponse struct {
	Features []mapboxFeature `json:"features"`
}

type mapboxFeature struct {
	ID         string          `json:"id"`
	Center     []float64       `json:"center"` // [lon, lat]
	PlaceName  string          `json:"place_name"`
	Text       string          `json:"text"`
	Relevance  float64         `json:"relevance"`
	Properties map[string]any  `json:"properties"`
	Context    []mapboxContext `json:"context"`
}

type mapboxContext struct {
	ID        string `json:"id"` // e.g. "country.8470"
	Text      string `json:"text"`
	ShortCode string `json:"short_code"`
}

func (Mapbox) Name() string { return "mapbox" }

func (m Mapbox) Normalize(body []byte) (domain.AddressResult, error) {
	var resp mapboxResponse
	if err := payload.Decode(m.Name(), body, &resp); err != nil {
		return domain.AddressResult{}, err
	}

	res := payload.NewResult(body)
	if len(resp.Features) == 0 {
		return res, nil
	}

	f := resp.Features[0]
	res.AddressEnglish = f.PlaceName
	res.AddressLocal = f.PlaceName
	res.Attributes["place_name"] = f.Text
	res.Attributes["relevance"] = payload.FormatFloat(f.Relevance)
	if len(f.Center) == 2 {
		res.Attributes["lon"] = payload.FormatFloat(f.Center[0])
		res.Attributes["lat"] = payload.FormatFloat(f.Center[1])
	}

	// The country is either the feature itself or one of its context entries.
	if strings.HasPrefix(f.ID, "country.") {
		if sc, ok := payload.Scalar(f.Properties["short_code"]); ok {
			res.CountryCode = sc
		}
	}
	for _, c := range f.Context {
		kind, _, _ := strings.Cut(c.ID, ".")
		res.Attributes[kind] = c.Text
		if kind == "country" && res.CountryCode == "" {
			res.CountryCode = c.ShortCode
		}
	}
	return res, nil
}
