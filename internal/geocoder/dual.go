package geocoder

import (
	"context"
	"fmt"

	"github.com/couchcryptid/re-geocode-service/internal/domain"
	"github.com/couchcryptid/re-geocode-service/internal/language"
)

// LookupDualLanguage returns an English address plus a local-language one.
//
// Information providers get a single lookup in userLang (English when empty).
// Geocoding providers are asked in English first. The second lookup uses
// userLang when it is supported, or the language inferred from the English
// answer's country code when userLang is empty. An unsupported userLang or a
// missing country code skips the second lookup.
//
// A failed first lookup fails the call. A failed second lookup is logged and
// leaves AddressLocal empty.
func (g *Geocoder) LookupDualLanguage(ctx context.Context, coords domain.Coordinates, providerName, userLang string) (domain.AddressResult, error) {
	p, ok := g.store.Get(providerName)
	if !ok {
		return domain.AddressResult{}, fmt.Errorf("%w: %s", domain.ErrUnknownProvider, providerName)
	}

	if p.IsInformation() {
		lang := userLang
		if lang == "" {
			lang = language.Default
		}
		return g.Lookup(ctx, coords, providerName, lang)
	}

	res, err := g.Lookup(ctx, coords, providerName, language.Default)
	if err != nil {
		return domain.AddressResult{}, err
	}
	res.AddressLocal = ""

	localLang := ""
	switch {
	case userLang != "":
		if language.IsSupported(userLang) {
			localLang = userLang
		}
	case res.CountryCode != "":
		localLang = language.FromCountry(res.CountryCode)
	}
	if localLang == "" {
		return res, nil
	}

	local, err := g.Lookup(ctx, coords, providerName, localLang)
	if err != nil {
		g.logger.WarnContext(ctx, "local-language lookup failed, returning english only",
			"provider", providerName,
			"lang", localLang,
			"lat", coords.Latitude,
			"lon", coords.Longitude,
			"error", err,
		)
		return res, nil
	}
	res.AddressLocal = local.AddressEnglish
	return res, nil
}

// LookupJSON resolves coords in both languages and wraps the answer in the
// envelope matching the provider's type.
func (g *Geocoder) LookupJSON(ctx context.Context, coords domain.Coordinates, providerName, userLang string) (domain.Envelope, error) {
	p, ok := g.store.Get(providerName)
	if !ok {
		return domain.Envelope{}, fmt.Errorf("%w: %s", domain.ErrUnknownProvider, providerName)
	}
	res, err := g.LookupDualLanguage(ctx, coords, providerName, userLang)
	if err != nil {
		return domain.Envelope{}, err
	}
	return domain.NewEnvelope(p, coords, res), nil
}
