package geo

import (
	"context"
	"encoding/json"

	"github.com/i474232898/weather-dashboard/internal/common"
)

// SampleLocations is served by SampleGeocoder when no upstream credential is configured.
var SampleLocations = []Location{
	{
		Name:       "London",
		LocalNames: map[string]string{"en": "London"},
		Lat:        51.5073219,
		Lon:        -0.1276474,
		Country:    "GB",
		State:      "England",
	},
	{
		Name:       "Paris",
		LocalNames: map[string]string{"en": "Paris", "fr": "Paris"},
		Lat:        48.856614,
		Lon:        2.3522219,
		Country:    "FR",
		State:      "Ile-de-France",
	},
	{
		Name:       "New York",
		LocalNames: map[string]string{"en": "New York"},
		Lat:        40.7127753,
		Lon:        -74.0059728,
		Country:    "US",
		State:      "New York",
	},
	{
		Name:       "Tokyo",
		LocalNames: map[string]string{"en": "Tokyo", "ja": "東京都"},
		Lat:        35.6895,
		Lon:        139.6917,
		Country:    "JP",
	},
	{
		Name:       "Sydney",
		LocalNames: map[string]string{"en": "Sydney"},
		Lat:        -33.8688,
		Lon:        151.2093,
		Country:    "AU",
		State:      "New South Wales",
	},
}

// SampleReverse is the placeholder reverse-geocoding match. Its coordinates
// are always replaced by the caller's.
var SampleReverse = Location{
	Name:       "Mock City",
	LocalNames: map[string]string{"en": "Mock City"},
	Country:    "US",
	State:      "Mock State",
}

// SampleGeocoder answers from the fixed sample data set.
type SampleGeocoder struct{}

// Search returns every sample location whose name contains query, ignoring case.
// The limit is not applied; the sample set is already smaller than any limit in use.
func (SampleGeocoder) Search(_ context.Context, query string, _ int) (json.RawMessage, error) {
	matches := make([]Location, 0, len(SampleLocations))
	for _, l := range SampleLocations {
		if common.ContainsFold(l.Name, query) {
			matches = append(matches, l)
		}
	}
	return json.Marshal(matches)
}

// Reverse returns SampleReverse positioned at c.
func (SampleGeocoder) Reverse(_ context.Context, c Coordinate) (json.RawMessage, error) {
	loc := SampleReverse
	loc.Lat = c.Latitude
	loc.Lon = c.Longitude
	return json.Marshal(loc)
}
