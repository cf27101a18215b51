package geocoding

import (
	"slices"

	"github.com/couchcryptid/re-geocode-service/internal/adapter/payload"
	"github.com/couchcryptid/re-geocode-service/internal/domain"
)

// Google understands Google Maps Geocoding API reverse (latlng) responses.
type Google struct{}

type googleResponse struct {
	Status       string         `json:"status"` // OK, ZERO_RESULTS, REQUEST_DENIED, ...
	ErrorMessage string         `json:"error_message"`
	Results      []googleResult `json:"results"`
}

type googleResult struct {
	FormattedAddress  string            `json:"formatted_address"`
	PlaceID           string            `json:"place_id"`
	AddressComponents []googleComponent `json:"address_components"`
}

type googleComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

func (Google) Name() string { return "google" }

func (g Google) Normalize(body []byte) (domain.AddressResult, error) {
	var resp googleResponse
	if err := payload.Decode(g.Name(), body, &resp); err != nil {
		return domain.AddressResult{}, err
	}

	res := payload.NewResult(body)
	if resp.Status != "" {
		res.Attributes["status"] = resp.Status
	}
	if resp.ErrorMessage != "" {
		res.Attributes["error_message"] = resp.ErrorMessage
	}
	if len(resp.Results) == 0 {
		return res, nil
	}

	first := resp.Results[0]
	res.AddressEnglish = first.FormattedAddress
	res.AddressLocal = first.FormattedAddress
	if first.PlaceID != "" {
		res.Attributes["place_id"] = first.PlaceID
	}

	for _, comp := range first.AddressComponents {
		if len(comp.Types) == 0 {
			continue
		}
		if _, seen := res.Attributes[comp.Types[0]]; !seen {
			res.Attributes[comp.Types[0]] = comp.LongName
		}
		if res.CountryCode == "" && slices.Contains(comp.Types, "country") {
			res.CountryCode = comp.ShortName
		}
	}
	return res, nil
}
