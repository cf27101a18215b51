package geocoding

import (
	"testing"

	"github.com/couchcryptid/re-geocode-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_UniqueNames(t *testing.T) {
	reg, err := domain.NewRegistry(All()...)
	require.NoError(t, err)
	assert.Equal(t, []string{"nominatim", "google", "opencage", "bing", "mapbox"}, reg.Names())
}

func TestNominatim_Normalize(t *testing.T) {
	body := []byte(`{
		"place_id": 1234,
		"display_name": "Marienplatz, Altstadt, München, Bayern, 80331, Deutschland",
		"address": {"road": "Marienplatz", "city": "München", "postcode": "80331", "country": "Deutschland", "country_code": "de"}
	}`)

	res, err := Nominatim{}.Normalize(body)
	require.NoError(t, err)

	assert.Equal(t, "Marienplatz, Altstadt, München, Bayern, 80331, Deutschland", res.AddressEnglish)
	assert.Equal(t, res.AddressEnglish, res.AddressLocal)
	assert.Equal(t, "de", res.CountryCode)
	assert.Equal(t, "München", res.Attributes["city"])
	assert.Equal(t, string(body), res.RawResponse)
}

func TestNominatim_ErrorPayloadIsEmptyResult(t *testing.T) {
	res, err := Nominatim{}.Normalize([]byte(`{"error":"Unable to geocode"}`))
	require.NoError(t, err)
	assert.Empty(t, res.AddressEnglish)
	assert.Empty(t, res.CountryCode)
	assert.Equal(t, "Unable to geocode", res.Attributes["error"])
}

func TestGoogle_Normalize(t *testing.T) {
	body := []byte(`{
		"status": "OK",
		"results": [{
			"formatted_address": "Pariser Platz, 10117 Berlin, Germany",
			"place_id": "abc",
			"address_components": [
				{"long_name": "Pariser Platz", "short_name": "Pariser Platz", "types": ["route"]},
				{"long_name": "Berlin", "short_name": "Berlin", "types": ["locality", "political"]},
				{"long_name": "Germany", "short_name": "DE", "types": ["country", "political"]}
			]
		}]
	}`)

	res, err := Google{}.Normalize(body)
	require.NoError(t, err)
	assert.Equal(t, "Pariser Platz, 10117 Berlin, Germany", res.AddressEnglish)
	assert.Equal(t, "DE", res.CountryCode)
	assert.Equal(t, "Berlin", res.Attributes["locality"])
	assert.Equal(t, "Germany", res.Attributes["country"])
	assert.Equal(t, "abc", res.Attributes["place_id"])
	assert.Equal(t, "OK", res.Attributes["status"])
}

func TestGoogle_ZeroResults(t *testing.T) {
	res, err := Google{}.Normalize([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	require.NoError(t, err)
	assert.Empty(t, res.AddressEnglish)
	assert.Equal(t, "ZERO_RESULTS", res.Attributes["status"])
}

func TestOpenCage_Normalize(t *testing.T) {
	body := []byte(`{"results":[{"formatted":"Rue de Rivoli, 75001 Paris, France","confidence":9,
		"components":{"_type":"road","road":"Rue de Rivoli","city":"Paris","country_code":"fr","ISO_3166-1_alpha-2":"FR"}}]}`)

	res, err := OpenCage{}.Normalize(body)
	require.NoError(t, err)
	assert.Equal(t, "Rue de Rivoli, 75001 Paris, France", res.AddressEnglish)
	assert.Equal(t, "fr", res.CountryCode)
	assert.Equal(t, "Paris", res.Attributes["city"])
	assert.Equal(t, "9", res.Attributes["confidence"])
}

func TestBing_Normalize(t *testing.T) {
	body := []byte(`{"addresses":[{"address":{"freeformAddress":"Stephansplatz 1, 1010 Wien","countryCode":"AT","municipality":"Wien","extendedPostalCode":1010,"isCapital":true},"position":"48.2085,16.3731"}]}`)

	res, err := Bing{}.Normalize(body)
	require.NoError(t, err)
	assert.Equal(t, "Stephansplatz 1, 1010 Wien", res.AddressEnglish)
	assert.Equal(t, "AT", res.CountryCode)
	assert.Equal(t, "1010", res.Attributes["extendedPostalCode"])
	assert.Equal(t, "true", res.Attributes["isCapital"])
	assert.Equal(t, "48.2085,16.3731", res.Attributes["position_raw"])
}

func TestMapbox_Normalize(t *testing.T) {
	body := []byte(`{"features":[{
		"id": "address.1",
		"center": [-97.7431, 30.2672],
		"place_name": "Congress Ave, Austin, Texas 78701, United States",
		"text": "Congress Ave",
		"relevance": 0.98,
		"context": [
			{"id": "place.1", "text": "Austin"},
			{"id": "region.2", "text": "Texas", "short_code": "US-TX"},
			{"id": "country.3", "text": "United States", "short_code": "us"}
		]
	}]}`)

	res, err := Mapbox{}.Normalize(body)
	require.NoError(t, err)
	assert.Equal(t, "Congress Ave, Austin, Texas 78701, United States", res.AddressEnglish)
	assert.Equal(t, "us", res.CountryCode)
	assert.Equal(t, "Austin", res.Attributes["place"])
	assert.Equal(t, "0.98", res.Attributes["relevance"])
	assert.Equal(t, "30.2672", res.Attributes["lat"])
	assert.Equal(t, "-97.7431", res.Attributes["lon"])
}

func TestMapbox_CountryFeature(t *testing.T) {
	res, err := Mapbox{}.Normalize([]byte(`{"features":[{"id":"country.9","place_name":"Japan","text":"Japan","properties":{"short_code":"jp"}}]}`))
	require.NoError(t, err)
	assert.Equal(t, "jp", res.CountryCode)
}

func TestAdapters_EmptyAndMalformed(t *testing.T) {
	for _, a := range All() {
		t.Run(a.Name(), func(t *testing.T) {
			res, err := a.Normalize([]byte(`{}`))
			require.NoError(t, err)
			assert.Empty(t, res.AddressEnglish)
			assert.Empty(t, res.CountryCode)
			assert.NotNil(t, res.Attributes)

			_, err = a.Normalize([]byte(`<html>502 Bad Gateway</html>`))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformedResponse)
		})
	}
}

func TestAdapters_ValidJSONOfUnexpectedShape(t *testing.T) {
	bodies := []string{`[]`, `"ok"`, `null`, `{"address":[]}`, `{"results":{}}`, `{"features":"none"}`}
	for _, a := range All() {
		for _, body := range bodies {
			t.Run(a.Name()+" "+body, func(t *testing.T) {
				res, err := a.Normalize([]byte(body))
				require.NoError(t, err)
				assert.Empty(t, res.AddressEnglish)
				assert.Empty(t, res.CountryCode)
				assert.NotNil(t, res.Attributes)
			})
		}
	}
}

func TestNominatim_MismatchedAddressKeepsDisplayName(t *testing.T) {
	res, err := Nominatim{}.Normalize([]byte(`{"display_name":"Somewhere","address":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "Somewhere", res.AddressEnglish)
	assert.Empty(t, res.CountryCode)
}
