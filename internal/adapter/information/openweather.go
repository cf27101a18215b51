package information

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/re-geocode-service/internal/adapter/payload"
	"github.com/couchcryptid/re-geocode-service/internal/domain"
)

// OpenWeather reads OpenWeatherMap current weather responses.
type OpenWeather struct{}

type openWeatherResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main map[string]any `json:"main"`
	Wind map[string]any `json:"wind"`
}

func (OpenWeather) Name() string { return "openweather" }

func (o OpenWeather) Normalize(body []byte) (domain.AddressResult, error) {
	var resp openWeatherResponse
	if err := payload.Decode(o.Name(), body, &resp); err != nil {
		return domain.AddressResult{}, err
	}

	res := payload.NewResult(body)
	res.AddressEnglish = resp.Name
	res.CountryCode = resp.Sys.Country
	if len(resp.Weather) > 0 {
		res.AddressLocal = resp.Weather[0].Description
		res.Attributes["condition"] = res.AddressLocal
	}
	copyNumbers(res.Attributes, "", resp.Main, "temp", "feels_like", "pressure", "humidity")
	copyNumbers(res.Attributes, "wind_", resp.Wind, "speed", "deg")
	return res, nil
}

// Pollution reads OpenWeatherMap air pollution responses.
type Pollution struct{}

type pollutionResponse struct {
	List []struct {
		Main struct {
			AQI *int `json:"aqi"`
		} `json:"main"`
		Components map[string]any `json:"components"`
	} `json:"list"`
}

var aqiLabels = map[int]string{
	1: "Good",
	2: "Fair",
	3: "Moderate",
	4: "Poor",
	5: "Very Poor",
}

func (Pollution) Name() string { return "pollution" }

func (p Pollution) Normalize(body []byte) (domain.AddressResult, error) {
	var resp pollutionResponse
	if err := payload.Decode(p.Name(), body, &resp); err != nil {
		return domain.AddressResult{}, err
	}

	res := payload.NewResult(body)
	if len(resp.List) == 0 {
		return res, nil
	}
	first := resp.List[0]
	if first.Main.AQI != nil {
		aqi := *first.Main.AQI
		label, ok := aqiLabels[aqi]
		if !ok {
			label = "Unknown"
		}
		res.AddressEnglish = fmt.Sprintf("AQI: %d (%s)", aqi, label)
		res.Attributes["aqi"] = fmt.Sprint(aqi)
	}

	parts := make([]string, 0, len(first.Components))
	for _, k := range payload.SortedKeys(first.Components) {
		v, ok := payload.Scalar(first.Components[k])
		if !ok {
			continue
		}
		parts = append(parts, k+": "+v)
		res.Attributes[k] = v
	}
	res.AddressLocal = strings.Join(parts, ", ")
	return res, nil
}

// copyNumbers copies the listed numeric fields of obj that are present.
func copyNumbers(attrs map[string]string, prefix string, obj map[string]any, keys ...string) {
	for _, k := range keys {
		if f, ok := payload.Float(obj[k]); ok {
			attrs[prefix+k] = payload.FormatFloat(f)
		}
	}
}
