package information

import (
	"strings"

	"github.com/couchcryptid/re-geocode-service/internal/adapter/payload"
	"github.com/couchcryptid/re-geocode-service/internal/domain"
)

const (
	seaWeatherTitle = "Sea Weather Conditions"
	// preferredSource is the Stormglass blended forecast.
	preferredSource = "sg"
)

// SeaWeather reads Stormglass weather point responses. Only the first hour
// is reported.
type SeaWeather struct{}

type seaWeatherResponse struct {
	Meta  map[string]any   `json:"meta"`
	Hours []map[string]any `json:"hours"`
}

func (SeaWeather) Name() string { return "seaweather" }

func (s SeaWeather) Normalize(body []byte) (domain.AddressResult, error) {
	var resp seaWeatherResponse
	if err := payload.Decode(s.Name(), body, &resp); err != nil {
		return domain.AddressResult{}, err
	}

	res := payload.NewResult(body)
	res.AddressEnglish = seaWeatherTitle
	res.AddressLocal = noDataSummary
	payload.CopyScalars(res.Attributes, "meta_", resp.Meta)

	if len(resp.Hours) == 0 {
		return res, nil
	}
	hour := resp.Hours[0]

	var fallback strings.Builder
	if t, ok := hour["time"].(string); ok {
		res.Attributes["time"] = t
		fallback.WriteString("Time: " + t + " | ")
	}
	first := true
	for _, key := range payload.SortedKeys(hour) {
		sources, ok := hour[key].(map[string]any)
		if !ok {
			continue
		}
		for _, src := range payload.SortedKeys(sources) {
			v, ok := payload.Scalar(sources[src])
			if !ok {
				continue
			}
			res.Attributes[key+"_"+src] = v
			if first {
				fallback.WriteString(key + ": " + v)
				first = false
			}
		}
	}

	var summary strings.Builder
	if temp := sourceValue(hour, "airTemperature"); temp != "" {
		summary.WriteString("Air Temp: " + temp + "°C ")
	}
	if wave := sourceValue(hour, "waveHeight"); wave != "" {
		summary.WriteString("Wave: " + wave + "m")
	}
	switch {
	case summary.Len() > 0:
		res.AddressLocal = strings.TrimSpace(summary.String())
	case fallback.Len() > 0:
		res.AddressLocal = fallback.String()
	}
	return res, nil
}

// sourceValue picks one source's reading for key, preferring the blended one.
func sourceValue(hour map[string]any, key string) string {
	sources, ok := hour[key].(map[string]any)
	if !ok || len(sources) == 0 {
		return ""
	}
	if v, ok := payload.Scalar(sources[preferredSource]); ok {
		return v
	}
	for _, src := range payload.SortedKeys(sources) {
		if v, ok := payload.Scalar(sources[src]); ok {
			return v
		}
	}
	return ""
}
