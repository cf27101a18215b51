package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/re-geocode-service/internal/domain"
)

// demoCoordinates are resolved by `batch --demo`.
var demoCoordinates = []domain.Coordinates{
	{Latitude: 48.1351, Longitude: 11.5820}, // Munich
	{Latitude: 52.52, Longitude: 13.405},    // Berlin
	{Latitude: 48.8566, Longitude: 2.3522},  // Paris
	{Latitude: 48.2082, Longitude: 16.3738}, // Vienna
	{Latitude: 40.7128, Longitude: -74.006}, // New York
}

type batchOptions struct {
	file     string
	demo     bool
	strategy string
	lang     string
	progress bool
}

func newBatchCmd(root *rootOptions) *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Resolve many coordinates",
		Long: `Resolves every coordinate of a CSV file (one "latitude,longitude" pair per
line, an optional header row is skipped) and prints the envelopes as a JSON
array in input order.

$ regeocode batch --file coords.csv --strategy default --progress
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			coords, err := batchInput(opts)
			if err != nil {
				return err
			}

			a, err := newApp(root, cliMetrics())
			if err != nil {
				return err
			}
			providers := a.priorityList("", opts.strategy)

			var bar *progressbar.ProgressBar
			if opts.progress && isatty.IsTerminal(os.Stderr.Fd()) {
				bar = progressbar.NewOptions(len(coords),
					progressbar.OptionSetDescription("Resolving"),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}

			// Chunks of the concurrency limit keep the bar moving while each
			// chunk still runs in parallel.
			chunk := a.cfg.BatchMaxConcurrency
			if chunk <= 0 || bar == nil {
				chunk = len(coords)
			}

			out := make([]domain.Envelope, 0, len(coords))
			for start := 0; start < len(coords); start += chunk {
				end := min(start+chunk, len(coords))
				out = append(out, a.geo.LookupBatch(cmd.Context(), coords[start:end], providers, opts.lang)...)
				if bar != nil {
					_ = bar.Add(end - start)
				}
			}
			if bar != nil {
				_ = bar.Finish()
			}

			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "CSV file with latitude,longitude rows")
	cmd.Flags().BoolVar(&opts.demo, "demo", false, "resolve a built-in set of European and US cities")
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "strategy name or comma-separated providers (default DEFAULT_STRATEGY)")
	cmd.Flags().StringVar(&opts.lang, "lang", "", "two-letter language for the local address")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "show a progress bar when stderr is a terminal")
	cmd.MarkFlagsMutuallyExclusive("file", "demo")
	cmd.MarkFlagsOneRequired("file", "demo")
	return cmd
}

func batchInput(opts *batchOptions) ([]domain.Coordinates, error) {
	if opts.demo {
		return demoCoordinates, nil
	}
	f, err := os.Open(opts.file)
	if err != nil {
		return nil, fmt.Errorf("open coordinates file: %w", err)
	}
	defer f.Close()
	return readCoordinates(f)
}

// readCoordinates parses latitude,longitude rows. A first row that does not
// parse as numbers is treated as a header.
func readCoordinates(r io.Reader) ([]domain.Coordinates, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var out []domain.Coordinates
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read coordinates: %w", err)
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("line %d: want latitude,longitude", line)
		}

		lat, latErr := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if latErr != nil || lonErr != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: invalid coordinate %q,%q", line, rec[0], rec[1])
		}

		c := domain.Coordinates{Latitude: lat, Longitude: lon}
		if err := validateCoordinates(c); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, errors.New("no coordinates in input")
	}
	return out, nil
}
