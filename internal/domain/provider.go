package domain

import "time"

// ProviderType selects how a provider's answer is resolved and enveloped.
type ProviderType string

const (
	ProviderTypeGeocoding   ProviderType = "geocoding"
	ProviderTypeInformation ProviderType = "information"
)

// DefaultProviderTimeout applies when a provider section sets no timeout.
const DefaultProviderTimeout = 10 * time.Second

// ProviderConfig is one resolved provider definition. Immutable after load.
type ProviderConfig struct {
	Name        string
	URITemplate string
	APIKey      string
	AdapterID   string
	Type        ProviderType
	Timeout     time.Duration
	DailyLimit  int // 0 means unlimited
}

// IsInformation reports whether the provider is an informational (single
// language) provider.
func (p ProviderConfig) IsInformation() bool {
	return p.Type == ProviderTypeInformation
}
