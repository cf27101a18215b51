// Package providers loads the provider configuration store from an INI file.
//
// Every section is a provider unless its type is "config", "general" or
// "strategies":
//
//	[general]
//	type = general
//	quota_file = quota_status.json
//
//	[strategies]
//	type = strategies
//	default = nominatim, opencage
//
//	[nominatim]
//	URI = https://nominatim.openstreetmap.org/reverse?lat={{ latitude }}&lon={{ longitude }}&accept-language={{ lang }}&format=json
//	API-Key =
//	timeout = 5
//
//	[google]
//	URI = https://maps.googleapis.com/maps/api/geocode/json?latlng={{ latitude }},{{ longitude }}&key={{ apikey }}&language={{ lang }}
//	API-Key = secret
//	daily_limit = 2500
package providers

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/couchcryptid/re-geocode-service/internal/domain"
	"gopkg.in/ini.v1"
)

// DefaultQuotaFile is used when no general section names a quota file.
const DefaultQuotaFile = "quota_status.json"

const (
	sectionTypeConfig     = "config"
	sectionTypeGeneral    = "general"
	sectionTypeStrategies = "strategies"
)

// Store holds the resolved provider definitions. It is read-only after Load.
type Store struct {
	providers  map[string]domain.ProviderConfig
	strategies map[string][]string
	quotaFile  string
}

// Load reads and validates the INI file at path. Relative quota file paths
// are resolved against the directory of path.
func Load(path string) (*Store, error) {
	f, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, path)
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", domain.ErrConfiguration, path, err)
	}
	return build(f, filepath.Dir(path))
}

// Parse builds a Store from in-memory INI data. Relative quota file paths are
// resolved against baseDir.
func Parse(data []byte, baseDir string) (*Store, error) {
	f, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse provider config: %v", domain.ErrConfiguration, err)
	}
	return build(f, baseDir)
}

// New builds a Store directly from provider definitions. Missing optional
// fields get the same defaults as the INI loader.
func New(quotaFile string, providers ...domain.ProviderConfig) *Store {
	s := &Store{
		providers:  make(map[string]domain.ProviderConfig, len(providers)),
		strategies: map[string][]string{},
		quotaFile:  quotaFile,
	}
	for _, p := range providers {
		if p.AdapterID == "" {
			p.AdapterID = p.Name
		}
		if p.Type == "" {
			p.Type = domain.ProviderTypeGeocoding
		}
		if p.Timeout <= 0 {
			p.Timeout = domain.DefaultProviderTimeout
		}
		s.providers[p.Name] = p
	}
	return s
}

func build(f *ini.File, baseDir string) (*Store, error) {
	s := &Store{
		providers:  map[string]domain.ProviderConfig{},
		strategies: map[string][]string{},
		quotaFile:  DefaultQuotaFile,
	}

	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}

		kind := strings.ToLower(value(sec, "type"))
		switch kind {
		case sectionTypeConfig, sectionTypeGeneral:
			if qf := value(sec, "quota_file"); qf != "" {
				s.quotaFile = qf
			}
			continue
		case sectionTypeStrategies:
			for _, key := range sec.Keys() {
				if strings.EqualFold(key.Name(), "type") {
					continue
				}
				s.strategies[key.Name()] = SplitList(key.String())
			}
			continue
		}

		cfg, err := parseProvider(sec, kind)
		if err != nil {
			return nil, err
		}
		s.providers[cfg.Name] = cfg
	}

	if baseDir != "" && !filepath.IsAbs(s.quotaFile) {
		s.quotaFile = filepath.Join(baseDir, s.quotaFile)
	}
	return s, nil
}

func parseProvider(sec *ini.Section, kind string) (domain.ProviderConfig, error) {
	name := sec.Name()
	cfg := domain.ProviderConfig{
		Name:      name,
		AdapterID: name,
		Type:      domain.ProviderTypeGeocoding,
		Timeout:   domain.DefaultProviderTimeout,
	}

	switch kind {
	case "", string(domain.ProviderTypeGeocoding):
	case "info", string(domain.ProviderTypeInformation):
		cfg.Type = domain.ProviderTypeInformation
	default:
		return cfg, fmt.Errorf("%w: section %s: unknown type %q", domain.ErrConfiguration, name, kind)
	}

	if !has(sec, "URI") {
		return cfg, fmt.Errorf("%w: missing URI in API section: %s", domain.ErrConfiguration, name)
	}
	if !has(sec, "API-Key") {
		return cfg, fmt.Errorf("%w: missing API-Key in API section: %s", domain.ErrConfiguration, name)
	}
	cfg.URITemplate = value(sec, "URI")
	cfg.APIKey = value(sec, "API-Key")
	if cfg.URITemplate == "" {
		return cfg, fmt.Errorf("%w: empty URI in API section: %s", domain.ErrConfiguration, name)
	}

	if adapter := unquote(value(sec, "Adapter")); adapter != "" {
		cfg.AdapterID = adapter
	}

	if has(sec, "timeout") {
		secs, err := key(sec, "timeout").Int()
		if err != nil || secs <= 0 {
			return cfg, fmt.Errorf("%w: section %s: invalid timeout %q", domain.ErrConfiguration, name, value(sec, "timeout"))
		}
		cfg.Timeout = time.Duration(secs) * time.Second
	}

	if has(sec, "daily_limit") {
		limit, err := key(sec, "daily_limit").Int()
		if err != nil || limit < 0 {
			return cfg, fmt.Errorf("%w: section %s: invalid daily_limit %q", domain.ErrConfiguration, name, value(sec, "daily_limit"))
		}
		cfg.DailyLimit = limit
	}

	return cfg, nil
}

// Get returns the provider named name.
func (s *Store) Get(name string) (domain.ProviderConfig, bool) {
	p, ok := s.providers[name]
	return p, ok
}

// All returns every provider sorted by name.
func (s *Store) All() []domain.ProviderConfig {
	out := make([]domain.ProviderConfig, 0, len(s.providers))
	for _, p := range s.providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// QuotaFile is the path of the quota state file.
func (s *Store) QuotaFile() string { return s.quotaFile }

// Strategy returns the named priority list from the strategies section.
func (s *Store) Strategy(name string) ([]string, bool) {
	list, ok := s.strategies[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(list))
	copy(out, list)
	return out, true
}

// PriorityList resolves a comma-separated list in which every entry is either
// a strategy name, expanded in place, or a provider name.
func (s *Store) PriorityList(selector string) []string {
	var out []string
	for _, part := range SplitList(selector) {
		if list, ok := s.strategies[part]; ok {
			out = append(out, list...)
			continue
		}
		out = append(out, part)
	}
	return out
}

// SplitList splits a comma-separated list, trimming blanks and dropping empty
// entries.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// key looks a key up by its canonical name, falling back to lower case.
func key(sec *ini.Section, name string) *ini.Key {
	if sec.HasKey(name) {
		return sec.Key(name)
	}
	return sec.Key(strings.ToLower(name))
}

func has(sec *ini.Section, name string) bool {
	return sec.HasKey(name) || sec.HasKey(strings.ToLower(name))
}

func value(sec *ini.Section, name string) string {
	if !has(sec, name) {
		return ""
	}
	return strings.TrimSpace(key(sec, name).String())
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
