package domain

import "strconv"

// Coordinates is a WGS-84 latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LatString formats the latitude without trailing zeros, as used in provider URLs.
func (c Coordinates) LatString() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64)
}

// LonString formats the longitude without trailing zeros, as used in provider URLs.
func (c Coordinates) LonString() string {
	return strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// AddressResult is the normalized answer of a single provider request.
type AddressResult struct {
	AddressEnglish string
	AddressLocal   string
	RawResponse    string
	CountryCode    string
	Attributes     map[string]string
}
