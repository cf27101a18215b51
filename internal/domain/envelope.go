package domain

// Meta identifies which provider answered and for which coordinates.
type Meta struct {
	API       string       `json:"api"`
	Type      ProviderType `json:"type"`
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
}

// GeocodingPayload is the result shape for geocoding providers.
type GeocodingPayload struct {
	AddressEnglish string            `json:"address_english"`
	AddressLocal   string            `json:"address_local"`
	CountryCode    string            `json:"country_code"`
	Details        map[string]string `json:"details"`
}

// InformationPayload is the result shape for information providers.
type InformationPayload struct {
	Title       string            `json:"title"`
	Summary     string            `json:"summary"`
	CountryCode string            `json:"country_code"`
	Data        map[string]string `json:"data"`
}

// FailureRecord describes why a provider in a priority list was skipped.
type FailureRecord struct {
	Error    string `json:"error"`
	Provider string `json:"provider"`
	Details  string `json:"details"`
}

// Envelope is the normalized JSON answer. Exactly one of Result or Error is set.
type Envelope struct {
	Meta        *Meta          `json:"meta,omitempty"`
	Result      any            `json:"result,omitempty"`
	Error       string         `json:"error,omitempty"`
	LastAttempt *FailureRecord `json:"last_attempt,omitempty"`
}

// Failed reports whether the envelope is an error envelope.
func (e Envelope) Failed() bool { return e.Error != "" }

// NewEnvelope wraps a resolved AddressResult according to the provider type.
func NewEnvelope(provider ProviderConfig, coords Coordinates, res AddressResult) Envelope {
	attrs := res.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}

	env := Envelope{
		Meta: &Meta{
			API:       provider.Name,
			Type:      provider.Type,
			Latitude:  coords.Latitude,
			Longitude: coords.Longitude,
		},
	}

	if provider.Type == ProviderTypeGeocoding {
		env.Result = GeocodingPayload{
			AddressEnglish: res.AddressEnglish,
			AddressLocal:   res.AddressLocal,
			CountryCode:    res.CountryCode,
			Details:        attrs,
		}
		return env
	}

	env.Result = InformationPayload{
		Title:       res.AddressEnglish,
		Summary:     res.AddressLocal,
		CountryCode: res.CountryCode,
		Data:        attrs,
	}
	return env
}

// NewExhaustedEnvelope is returned when every provider in a priority list failed.
func NewExhaustedEnvelope(last *FailureRecord) Envelope {
	return Envelope{
		Error:       "All providers failed",
		LastAttempt: last,
	}
}
