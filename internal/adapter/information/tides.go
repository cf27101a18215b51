package information

import (
	"fmt"
	"strconv"

	"github.com/couchcryptid/re-geocode-service/internal/adapter/payload"
	"github.com/couchcryptid/re-geocode-service/internal/domain"
)

const (
	tideTitle     = "Tide Information"
	noDataSummary = "No data available"
	maxTideEvents = 5
)

type tideEvent struct {
	State    string  `json:"state"`
	Datetime string  `json:"datetime"`
	Height   float64 `json:"height"`
}

type tideResponse struct {
	Unit       string         `json:"unit"`
	Disclaimer string         `json:"disclaimer"`
	Copyright  string         `json:"copyright"`
	Source     string         `json:"source"`
	Origin     *tideOrigin    `json:"origin"`
	Datums     map[string]any `json:"datums"`
	Extremes   []tideEvent    `json:"extremes"`
	Heights    []struct {
		Height *float64 `json:"height"`
		State  string   `json:"state"`
	} `json:"heights"`
}

type tideOrigin struct {
	Distance *float64 `json:"distance"`
	Unit     string   `json:"unit"`
}

// Tides reads WorldTides style responses.
type Tides struct{}

func (Tides) Name() string { return "tides" }

func (t Tides) Normalize(body []byte) (domain.AddressResult, error) {
	var resp tideResponse
	if err := payload.Decode(t.Name(), body, &resp); err != nil {
		return domain.AddressResult{}, err
	}
	res := newTideResult(body, resp)
	if resp.Disclaimer != "" {
		res.Attributes["disclaimer"] = resp.Disclaimer
	}
	return res, nil
}

// MareaTides reads Marea API responses, which add reference datums and
// attribution fields to the WorldTides layout.
type MareaTides struct{}

func (MareaTides) Name() string { return "marea_tides" }

func (m MareaTides) Normalize(body []byte) (domain.AddressResult, error) {
	var resp tideResponse
	if err := payload.Decode(m.Name(), body, &resp); err != nil {
		return domain.AddressResult{}, err
	}
	res := newTideResult(body, resp)
	if resp.Copyright != "" {
		res.Attributes["copyright"] = resp.Copyright
	}
	if resp.Source != "" {
		res.Attributes["source"] = resp.Source
	}
	for k, v := range resp.Datums {
		if f, ok := payload.Float(v); ok {
			res.Attributes["datum_"+k] = payload.FormatFloat(f)
		}
	}
	return res, nil
}

func newTideResult(body []byte, resp tideResponse) domain.AddressResult {
	res := payload.NewResult(body)
	res.AddressEnglish = tideTitle
	res.AddressLocal = noDataSummary

	unit := resp.Unit
	if unit == "" {
		unit = "m"
	}
	res.Attributes["unit"] = unit

	if o := resp.Origin; o != nil && o.Distance != nil && o.Unit != "" {
		res.Attributes["station_distance"] = strconv.FormatFloat(*o.Distance, 'f', 2, 64) + " " + o.Unit
	}

	for i, ev := range resp.Extremes {
		if i == maxTideEvents {
			break
		}
		prefix := fmt.Sprintf("event_%d_", i)
		res.Attributes[prefix+"state"] = ev.State
		res.Attributes[prefix+"time"] = ev.Datetime
		res.Attributes[prefix+"height"] = payload.FormatFloat(ev.Height)
		if i == 0 {
			res.AddressLocal = fmt.Sprintf("%s (%.2f%s) at %s", ev.State, ev.Height, unit, ev.Datetime)
		}
	}

	if len(resp.Heights) > 0 {
		cur := resp.Heights[0]
		if cur.Height != nil {
			res.Attributes["current_height"] = payload.FormatFloat(*cur.Height)
		}
		if cur.State != "" {
			res.Attributes["current_state"] = cur.State
		}
	}
	return res
}
