package main

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/re-geocode-service/internal/adapter/geocoding"
	"github.com/couchcryptid/re-geocode-service/internal/adapter/httpclient"
	"github.com/couchcryptid/re-geocode-service/internal/adapter/information"
	"github.com/couchcryptid/re-geocode-service/internal/config"
	"github.com/couchcryptid/re-geocode-service/internal/domain"
	"github.com/couchcryptid/re-geocode-service/internal/geocoder"
	"github.com/couchcryptid/re-geocode-service/internal/observability"
	"github.com/couchcryptid/re-geocode-service/internal/providers"
	"github.com/couchcryptid/re-geocode-service/internal/quota"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "regeocode",
		Short: "Reverse geocoding with provider fallback",
		Long: `
regeocode turns latitude/longitude pairs into addresses (or location
information such as time zone, weather and tides) by trying the configured
providers in priority order until one answers.

Providers and strategies are read from an INI file, by default
re-geocode.ini or the path in REGEOCODE_CONFIG.
`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "provider INI file (overrides REGEOCODE_CONFIG)")

	cmd.AddCommand(
		newLookupCmd(opts),
		newBatchCmd(opts),
		newProvidersCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

// app bundles the collaborators every subcommand needs.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	store   *providers.Store
	tracker *quota.Tracker
	geo     *geocoder.Geocoder
}

func newApp(opts *rootOptions, metrics *observability.Metrics) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.configPath != "" {
		cfg.ProviderConfigPath = opts.configPath
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)

	store, err := providers.Load(cfg.ProviderConfigPath)
	if err != nil {
		return nil, err
	}

	registry, err := domain.NewRegistry(append(geocoding.All(), information.All()...)...)
	if err != nil {
		return nil, err
	}

	tracker := quota.NewTracker(store.QuotaFile(),
		quota.WithLocation(cfg.QuotaLocation),
		quota.WithLogger(logger),
	)

	geo, err := geocoder.New(store, registry, tracker, httpclient.NewClient(logger), logger, metrics,
		geocoder.WithMaxConcurrency(cfg.BatchMaxConcurrency),
	)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		store:   store,
		tracker: tracker,
		geo:     geo,
	}, nil
}

// priorityList resolves --api / --strategy into an ordered provider list.
func (a *app) priorityList(api, strategy string) []string {
	if api != "" {
		return []string{api}
	}
	if strategy == "" {
		strategy = a.cfg.DefaultStrategy
	}
	return a.store.PriorityList(strategy)
}

// cliMetrics returns metrics on a private registry for one-shot commands,
// which never expose /metrics.
func cliMetrics() *observability.Metrics {
	return observability.NewMetricsWithRegistry(prometheus.NewRegistry())
}
