package providers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kelvins/geocoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/geo"
)

func newFakeGoogle(geocode func(geocoder.Address) (geocoder.Location, error), reverse func(geocoder.Location) ([]geocoder.Address, error)) *GoogleGeocoder {
	g := NewGoogleGeocoder("key")
	g.geocode = geocode
	g.reverse = reverse
	return g
}

func TestGoogleSearchShapesLocation(t *testing.T) {
	g := newFakeGoogle(
		func(a geocoder.Address) (geocoder.Location, error) {
			assert.Equal(t, "Lyon", a.City)
			return geocoder.Location{Latitude: 45.76, Longitude: 4.83}, nil
		},
		func(l geocoder.Location) ([]geocoder.Address, error) {
			return []geocoder.Address{
				{Street: "Rue"},
				{City: "Lyon", State: "Auvergne-Rhône-Alpes", Country: "France"},
			}, nil
		},
	)

	raw, err := g.Search(context.Background(), " Lyon ", 5)
	require.NoError(t, err)

	var locs []geo.Location
	require.NoError(t, json.Unmarshal(raw, &locs))
	require.Len(t, locs, 1)
	assert.Equal(t, "Lyon", locs[0].Name)
	assert.Equal(t, "France", locs[0].Country)
	assert.Equal(t, 45.76, locs[0].Lat)
}

func TestGoogleZeroResults(t *testing.T) {
	g := newFakeGoogle(
		func(geocoder.Address) (geocoder.Location, error) {
			return geocoder.Location{}, errors.New("ZERO_RESULTS")
		},
		func(geocoder.Location) ([]geocoder.Address, error) {
			return nil, errors.New("No results found.")
		},
	)

	raw, err := g.Search(context.Background(), "nowhere", 5)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	raw, err = g.Reverse(context.Background(), geo.Coordinate{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}

func TestGoogleUpstreamFailure(t *testing.T) {
	g := newFakeGoogle(
		func(geocoder.Address) (geocoder.Location, error) {
			return geocoder.Location{}, errors.New("REQUEST_DENIED")
		},
		nil,
	)

	_, err := g.Search(context.Background(), "x", 5)
	assert.EqualError(t, err, "REQUEST_DENIED")
}
