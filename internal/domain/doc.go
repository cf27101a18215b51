// Package domain models reverse geocoding lookups against third-party
// providers.
//
// # Providers
//
// A provider is a named entry in the provider configuration file: a URL
// template, an API key, the identifier of the adapter that understands its
// response, a type, a request timeout and an optional daily request limit.
//
// Two provider types exist:
//
//	geocoding    general reverse geocoders (Nominatim, Google, OpenCage, ...)
//	             returning a formatted address and a country code.
//	information  location data services (timezone, nearby Wikipedia articles,
//	             weather, air pollution, tides, sea weather) whose payload is
//	             squeezed into the same AddressResult shape, with provider
//	             specific fields carried in Attributes.
//
// # Dual-language lookups
//
// Geocoding providers are queried twice: once in English and once in a local
// language. The local language is either chosen by the caller or inferred from
// the country code returned by the English lookup:
//
//	de, at, ch → de      ae, sa, eg → ar      cn → zh-CN      tw → zh-TW
//	jp → ja              kr → ko              fr, es, it, ru, pt, nl → same
//	anything else → en
//
// Information providers are queried once, in the requested language.
//
// # Result envelopes
//
// Every lookup that goes through the fallback orchestrator returns an
// Envelope. A successful envelope carries meta (provider, type, coordinates)
// and a type-dependent result; an exhausted priority list yields an error
// envelope with the last recorded failure.
package domain
