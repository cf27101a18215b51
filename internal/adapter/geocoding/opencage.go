package geocoding

import (
	"github.com/couchcryptid/re-geocode-service/internal/adapter/payload"
	"github.com/couchcryptid/re-geocode-service/internal/domain"
)

// OpenCage understands OpenCage Geocoding API responses.
type OpenCage struct{}

type openCageResponse struct {
	Results []struct {
		Formatted  string         `json:"formatted"`
		Components map[string]any `json:"components"`
		Confidence any            `json:"confidence"`
	} `json:"results"`
}

func (OpenCage) Name() string { return "opencage" }

func (o OpenCage) Normalize(body []byte) (domain.AddressResult, error) {
	var resp openCageResponse
	if err := payload.Decode(o.Name(), body, &resp); err != nil {
		return domain.AddressResult{}, err
	}

	res := payload.NewResult(body)
	if len(resp.Results) == 0 {
		return res, nil
	}

	first := resp.Results[0]
	res.AddressEnglish = first.Formatted
	res.AddressLocal = first.Formatted
	if cc, ok := payload.Scalar(first.Components["country_code"]); ok {
		res.CountryCode = cc
	}
	payload.CopyScalars(res.Attributes, "", first.Components)
	if c, ok := payload.Scalar(first.Confidence); ok {
		res.Attributes["confidence"] = c
	}
	return res, nil
}
