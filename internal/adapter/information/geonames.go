package information

import (
	"github.com/couchcryptid/re-geocode-service/internal/adapter/payload"
	"github.com/couchcryptid/re-geocode-service/internal/domain"
)

// Timezone reads GeoNames timezoneJSON responses.
type Timezone struct{}

func (Timezone) Name() string { return "timezone" }

func (tz Timezone) Normalize(body []byte) (domain.AddressResult, error) {
	var resp map[string]any
	if err := payload.Decode(tz.Name(), body, &resp); err != nil {
		return domain.AddressResult{}, err
	}

	res := payload.NewResult(body)
	payload.CopyScalars(res.Attributes, "", resp)
	res.CountryCode = res.Attributes["countryCode"]
	res.AddressEnglish = res.Attributes["timezoneId"]
	res.AddressLocal = res.Attributes["time"]
	if name := res.Attributes["countryName"]; name != "" {
		if res.AddressEnglish != "" {
			res.AddressEnglish += " (" + name + ")"
		} else {
			res.AddressEnglish = name
		}
	}
	return res, nil
}

// NearbyWikipedia reads GeoNames findNearbyWikipediaJSON responses and
// reports the closest article.
type NearbyWikipedia struct{}

type wikipediaResponse struct {
	Geonames []struct {
		Title        string `json:"title"`
		Summary      string `json:"summary"`
		WikipediaURL string `json:"wikipediaUrl"`
		CountryCode  string `json:"countryCode"`
		Distance     any    `json:"distance"`
		Feature      string `json:"feature"`
	} `json:"geonames"`
}

func (NearbyWikipedia) Name() string { return "nearbyWikipedia" }

func (w NearbyWikipedia) Normalize(body []byte) (domain.AddressResult, error) {
	var resp wikipediaResponse
	if err := payload.Decode(w.Name(), body, &resp); err != nil {
		return domain.AddressResult{}, err
	}

	res := payload.NewResult(body)
	if len(resp.Geonames) == 0 {
		return res, nil
	}
	first := resp.Geonames[0]
	res.AddressEnglish = first.Title
	res.AddressLocal = first.Summary
	switch {
	case first.WikipediaURL != "" && res.AddressLocal != "":
		res.AddressLocal += " (" + first.WikipediaURL + ")"
	case first.WikipediaURL != "":
		res.AddressLocal = first.WikipediaURL
	}
	res.CountryCode = first.CountryCode

	if first.WikipediaURL != "" {
		res.Attributes["wikipedia_url"] = first.WikipediaURL
	}
	if first.Feature != "" {
		res.Attributes["feature"] = first.Feature
	}
	if d, ok := payload.Scalar(first.Distance); ok {
		res.Attributes["distance"] = d
	}
	return res, nil
}
