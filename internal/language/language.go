// Package language validates user supplied language codes and infers a local
// language from an ISO 3166-1 alpha-2 country code.
package language

import "strings"

// Default is used when no better language can be inferred.
const Default = "en"

var supported = map[string]struct{}{
	"en": {}, "de": {}, "fr": {}, "es": {}, "it": {}, "ar": {}, "ru": {},
	"pt": {}, "nl": {}, "pl": {}, "zh": {}, "zh-CN": {}, "zh-TW": {},
	"ja": {}, "ko": {}, "tr": {}, "sv": {}, "no": {}, "fi": {},
}

var byCountry = map[string]string{
	"de": "de", "at": "de", "ch": "de",
	"ae": "ar", "sa": "ar", "eg": "ar",
	"cn": "zh-CN", "tw": "zh-TW",
	"jp": "ja", "kr": "ko",
	"fr": "fr", "es": "es", "it": "it", "ru": "ru", "pt": "pt", "nl": "nl",
}

// IsSupported reports whether code is on the language whitelist. Matching is
// exact, so "zh-CN" is supported but "zh-cn" is not.
func IsSupported(code string) bool {
	_, ok := supported[code]
	return ok
}

// FromCountry maps a country code to its likely local language, defaulting to
// English for empty or unmapped codes.
func FromCountry(countryCode string) string {
	if lang, ok := byCountry[strings.ToLower(strings.TrimSpace(countryCode))]; ok {
		return lang
	}
	return Default
}
