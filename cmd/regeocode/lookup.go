package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/re-geocode-service/internal/domain"
)

var errAllProvidersFailed = errors.New("all providers failed")

type lookupOptions struct {
	lat, lon float64
	strategy string
	api      string
	lang     string
}

func newLookupCmd(root *rootOptions) *cobra.Command {
	opts := &lookupOptions{}

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Resolve a single coordinate",
		Long: `Resolves one coordinate and prints the result envelope as JSON.

$ regeocode lookup --lat 48.1351 --lon 11.5820 --lang de
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			coords := domain.Coordinates{Latitude: opts.lat, Longitude: opts.lon}
			if err := validateCoordinates(coords); err != nil {
				return err
			}

			a, err := newApp(root, cliMetrics())
			if err != nil {
				return err
			}

			env := a.geo.LookupWithFallback(cmd.Context(), coords, a.priorityList(opts.api, opts.strategy), opts.lang)
			if err := printJSON(cmd.OutOrStdout(), env); err != nil {
				return err
			}
			if env.Failed() {
				return errAllProvidersFailed
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&opts.lat, "lat", 0, "latitude in decimal degrees")
	cmd.Flags().Float64Var(&opts.lon, "lon", 0, "longitude in decimal degrees")
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "strategy name or comma-separated providers (default DEFAULT_STRATEGY)")
	cmd.Flags().StringVar(&opts.api, "api", "", "query a single provider, ignoring --strategy")
	cmd.Flags().StringVar(&opts.lang, "lang", "", "two-letter language for the local address")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

func validateCoordinates(c domain.Coordinates) error {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return errors.New("coordinates must be numbers")
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", c.Longitude)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
