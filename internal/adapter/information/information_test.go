package information

import (
	"testing"

	"github.com/couchcryptid/re-geocode-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_UniqueNames(t *testing.T) {
	reg, err := domain.NewRegistry(All()...)
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"timezone", "nearbyWikipedia", "openweather", "pollution", "tides", "marea_tides", "seaweather"},
		reg.Names())
}

func TestAdapters_Malformed(t *testing.T) {
	for _, a := range All() {
		t.Run(a.Name(), func(t *testing.T) {
			_, err := a.Normalize([]byte(`not json`))
			assert.ErrorIs(t, err, domain.ErrMalformedResponse)
		})
	}
}

func TestAdapters_ValidJSONOfUnexpectedShape(t *testing.T) {
	bodies := []string{`[]`, `"ok"`, `null`, `{"list":{}}`, `{"geonames":{}}`, `{"hours":"none"}`, `{"extremes":{},"heights":1}`}
	for _, a := range All() {
		for _, body := range bodies {
			t.Run(a.Name()+" "+body, func(t *testing.T) {
				res, err := a.Normalize([]byte(body))
				require.NoError(t, err)
				assert.NotNil(t, res.Attributes)
			})
		}
	}
}

func TestAdapters_UnexpectedShapeUsesDefaults(t *testing.T) {
	res, err := Tides{}.Normalize([]byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, "Tide Information", res.AddressEnglish)
	assert.Equal(t, "No data available", res.AddressLocal)

	res, err = SeaWeather{}.Normalize([]byte(`{"hours":{}}`))
	require.NoError(t, err)
	assert.Equal(t, "Sea Weather Conditions", res.AddressEnglish)
	assert.Equal(t, "No data available", res.AddressLocal)

	res, err = Pollution{}.Normalize([]byte(`{"list":"none"}`))
	require.NoError(t, err)
	assert.Empty(t, res.AddressEnglish)
}

func TestTimezone_Normalize(t *testing.T) {
	body := []byte(`{"timezoneId":"Europe/Berlin","countryName":"Germany","countryCode":"DE","time":"2026-03-01 12:30","gmtOffset":1,"lat":52.52}`)

	res, err := Timezone{}.Normalize(body)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin (Germany)", res.AddressEnglish)
	assert.Equal(t, "2026-03-01 12:30", res.AddressLocal)
	assert.Equal(t, "DE", res.CountryCode)
	assert.Equal(t, "1", res.Attributes["gmtOffset"])
	assert.Equal(t, "52.52", res.Attributes["lat"])
}

func TestTimezone_CountryOnly(t *testing.T) {
	res, err := Timezone{}.Normalize([]byte(`{"countryName":"Austria"}`))
	require.NoError(t, err)
	assert.Equal(t, "Austria", res.AddressEnglish)
}

func TestNearbyWikipedia_Normalize(t *testing.T) {
	body := []byte(`{"geonames":[
		{"title":"Glärnisch","summary":"A mountain in the Glarus Alps","wikipediaUrl":"en.wikipedia.org/wiki/Glärnisch","countryCode":"CH","distance":"0.5"},
		{"title":"Other"}
	]}`)

	res, err := NearbyWikipedia{}.Normalize(body)
	require.NoError(t, err)
	assert.Equal(t, "Glärnisch", res.AddressEnglish)
	assert.Equal(t, "A mountain in the Glarus Alps (en.wikipedia.org/wiki/Glärnisch)", res.AddressLocal)
	assert.Equal(t, "CH", res.CountryCode)
	assert.Equal(t, "0.5", res.Attributes["distance"])
}

func TestNearbyWikipedia_URLOnlyAndEmpty(t *testing.T) {
	res, err := NearbyWikipedia{}.Normalize([]byte(`{"geonames":[{"title":"X","wikipediaUrl":"en.wikipedia.org/wiki/X"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "en.wikipedia.org/wiki/X", res.AddressLocal)

	res, err = NearbyWikipedia{}.Normalize([]byte(`{"geonames":[]}`))
	require.NoError(t, err)
	assert.Empty(t, res.AddressEnglish)
	assert.Empty(t, res.AddressLocal)
}

func TestOpenWeather_Normalize(t *testing.T) {
	body := []byte(`{"name":"Paris","sys":{"country":"FR"},"weather":[{"description":"light rain"}],
		"main":{"temp":12.5,"feels_like":11.9,"pressure":1012,"humidity":80},"wind":{"speed":4.1,"deg":250}}`)

	res, err := OpenWeather{}.Normalize(body)
	require.NoError(t, err)
	assert.Equal(t, "Paris", res.AddressEnglish)
	assert.Equal(t, "light rain", res.AddressLocal)
	assert.Equal(t, "FR", res.CountryCode)
	assert.Equal(t, map[string]string{
		"condition":  "light rain",
		"temp":       "12.5",
		"feels_like": "11.9",
		"pressure":   "1012",
		"humidity":   "80",
		"wind_speed": "4.1",
		"wind_deg":   "250",
	}, res.Attributes)
}

func TestPollution_Normalize(t *testing.T) {
	tests := []struct {
		aqi  string
		want string
	}{
		{"1", "AQI: 1 (Good)"},
		{"2", "AQI: 2 (Fair)"},
		{"3", "AQI: 3 (Moderate)"},
		{"4", "AQI: 4 (Poor)"},
		{"5", "AQI: 5 (Very Poor)"},
		{"9", "AQI: 9 (Unknown)"},
	}
	for _, tt := range tests {
		t.Run(tt.aqi, func(t *testing.T) {
			body := []byte(`{"list":[{"main":{"aqi":` + tt.aqi + `},"components":{"pm2_5":3.2,"co":201.94,"no2":0.77}}]}`)
			res, err := Pollution{}.Normalize(body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.AddressEnglish)
			assert.Equal(t, "co: 201.94, no2: 0.77, pm2_5: 3.2", res.AddressLocal)
			assert.Empty(t, res.CountryCode)
		})
	}
}

func TestTides_Normalize(t *testing.T) {
	body := []byte(`{
		"unit":"ft",
		"disclaimer":"Not for navigation",
		"origin":{"distance":1.234,"unit":"km"},
		"extremes":[
			{"state":"HIGH TIDE","datetime":"2026-03-01T04:12:00Z","height":1.456},
			{"state":"LOW TIDE","datetime":"2026-03-01T10:30:00Z","height":-0.5},
			{"state":"HIGH TIDE","datetime":"t2","height":1},
			{"state":"LOW TIDE","datetime":"t3","height":0},
			{"state":"HIGH TIDE","datetime":"t4","height":1},
			{"state":"LOW TIDE","datetime":"t5","height":0}
		],
		"heights":[{"height":0.8,"state":"RISING"}]
	}`)

	res, err := Tides{}.Normalize(body)
	require.NoError(t, err)
	assert.Equal(t, "Tide Information", res.AddressEnglish)
	assert.Equal(t, "HIGH TIDE (1.46ft) at 2026-03-01T04:12:00Z", res.AddressLocal)
	assert.Equal(t, "ft", res.Attributes["unit"])
	assert.Equal(t, "Not for navigation", res.Attributes["disclaimer"])
	assert.Equal(t, "1.23 km", res.Attributes["station_distance"])
	assert.Equal(t, "-0.5", res.Attributes["event_1_height"])
	assert.Equal(t, "t4", res.Attributes["event_4_time"])
	assert.NotContains(t, res.Attributes, "event_5_time")
	assert.Equal(t, "0.8", res.Attributes["current_height"])
	assert.Equal(t, "RISING", res.Attributes["current_state"])
}

func TestTides_Defaults(t *testing.T) {
	res, err := Tides{}.Normalize([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "Tide Information", res.AddressEnglish)
	assert.Equal(t, "No data available", res.AddressLocal)
	assert.Equal(t, "m", res.Attributes["unit"])
}

func TestMareaTides_Normalize(t *testing.T) {
	body := []byte(`{"copyright":"Marea","source":"FES2014","datums":{"LAT":-1.2,"MSL":0,"label":"x"},
		"extremes":[{"state":"LOW TIDE","datetime":"2026-03-01T10:30:00Z","height":-0.25}]}`)

	res, err := MareaTides{}.Normalize(body)
	require.NoError(t, err)
	assert.Equal(t, "LOW TIDE (-0.25m) at 2026-03-01T10:30:00Z", res.AddressLocal)
	assert.Equal(t, "Marea", res.Attributes["copyright"])
	assert.Equal(t, "FES2014", res.Attributes["source"])
	assert.Equal(t, "-1.2", res.Attributes["datum_LAT"])
	assert.Equal(t, "0", res.Attributes["datum_MSL"])
	assert.NotContains(t, res.Attributes, "datum_label")
}

func TestSeaWeather_Normalize(t *testing.T) {
	body := []byte(`{
		"meta":{"lat":58.7984,"lng":17.8081,"dailyQuota":10,"requestCount":1},
		"hours":[{
			"time":"2026-03-01T00:00:00+00:00",
			"airTemperature":{"noaa":3.1,"sg":3.4},
			"waveHeight":{"noaa":0.9,"sg":1.2}
		}]
	}`)

	res, err := SeaWeather{}.Normalize(body)
	require.NoError(t, err)
	assert.Equal(t, "Sea Weather Conditions", res.AddressEnglish)
	assert.Equal(t, "Air Temp: 3.4°C Wave: 1.2m", res.AddressLocal)
	assert.Equal(t, "58.7984", res.Attributes["meta_lat"])
	assert.Equal(t, "10", res.Attributes["meta_dailyQuota"])
	assert.Equal(t, "3.1", res.Attributes["airTemperature_noaa"])
	assert.Equal(t, "2026-03-01T00:00:00+00:00", res.Attributes["time"])
}

func TestSeaWeather_FallbackSummary(t *testing.T) {
	res, err := SeaWeather{}.Normalize([]byte(`{"hours":[{"time":"t0","windSpeed":{"noaa":5}}]}`))
	require.NoError(t, err)
	assert.Equal(t, "Time: t0 | windSpeed: 5", res.AddressLocal)
}

func TestSeaWeather_NoHours(t *testing.T) {
	res, err := SeaWeather{}.Normalize([]byte(`{"meta":{}}`))
	require.NoError(t, err)
	assert.Equal(t, "No data available", res.AddressLocal)
}
