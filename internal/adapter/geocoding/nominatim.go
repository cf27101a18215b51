package geocoding

import (
	"github.com/couchcryptid/re-geocode-service/internal/adapter/payload"
	"github.com/couchcryptid/re-geocode-service/internal/domain"
)

// Nominatim understands OpenStreetMap Nominatim /reverse?format=json responses.
type Nominatim struct{}

type nominatimResponse struct {
	DisplayName string         `json:"display_name"`
	Error       string         `json:"error"`
	Address     map[string]any `json:"address"`
}

func (Nominatim) Name() string { return "nominatim" }

func (n Nominatim) Normalize(body []byte) (domain.AddressResult, error) {
	var resp nominatimResponse
	if err := payload.Decode(n.Name(), body, &resp); err != nil {
		return domain.AddressResult{}, err
	}

	res := payload.NewResult(body)
	res.AddressEnglish = resp.DisplayName
	res.AddressLocal = resp.DisplayName
	if cc, ok := payload.Scalar(resp.Address["country_code"]); ok {
		res.CountryCode = cc
	}
	payload.CopyScalars(res.Attributes, "", resp.Address)
	if resp.Error != "" {
		res.Attributes["error"] = resp.Error
	}
	return res, nil
}
