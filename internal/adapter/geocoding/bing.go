package geocoding

import (
	"github.com/couchcryptid/re-geocode-service/internal/adapter/payload"
	"github.com/couchcryptid/re-geocode-service/internal/domain"
)

// Bing understands Azure Maps (formerly Bing Maps) reverse address search
// responses: { "addresses": [ { "address": {...}, "position": "lat,lon" } ] }.
type Bing struct{}

type bingResponse struct {
	Addresses []struct {
		Address  map[string]any `json:"address"`
		Position any            `json:"position"`
	} `json:"addresses"`
}

func (Bing) Name() string { return "bing" }

func (b Bing) Normalize(body []byte) (domain.AddressResult, error) {
	var resp bingResponse
	if err := payload.Decode(b.Name(), body, &resp); err != nil {
		return domain.AddressResult{}, err
	}

	res := payload.NewResult(body)
	if len(resp.Addresses) == 0 {
		return res, nil
	}

	hit := resp.Addresses[0]
	// The language is chosen through the request, so the freeform address is
	// already localized.
	if addr, ok := payload.Scalar(hit.Address["freeformAddress"]); ok {
		res.AddressEnglish = addr
		res.AddressLocal = addr
	}
	if cc, ok := payload.Scalar(hit.Address["countryCode"]); ok {
		res.CountryCode = cc
	}
	payload.CopyScalars(res.Attributes, "", hit.Address)
	if pos, ok := payload.Scalar(hit.Position); ok {
		res.Attributes["position_raw"] = pos
	}
	return res, nil
}
