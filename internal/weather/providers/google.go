package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/geo"
)

// geocoder keeps its credential in a package variable.
var googleKeyMu sync.Mutex

// GoogleGeocoder answers location lookups through the Google Geocoding API
// and shapes the answers like OpenWeatherMap geocoding results.
type GoogleGeocoder struct {
	name    string
	apiKey  string
	circuit *gobreaker.CircuitBreaker

	geocode func(geocoder.Address) (geocoder.Location, error)
	reverse func(geocoder.Location) ([]geocoder.Address, error)
}

// NewGoogleGeocoder creates a geocoder using the given API key.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		name:    "google",
		apiKey:  apiKey,
		circuit: newCircuit("google-geocoder"),
		geocode: geocoder.Geocoding,
		reverse: geocoder.GeocodingReverse,
	}
}

// Search geocodes query as a city and returns at most one candidate.
func (g *GoogleGeocoder) Search(ctx context.Context, query string, _ int) (json.RawMessage, error) {
	name := strings.TrimSpace(query)
	var loc geocoder.Location
	err := g.call(ctx, func() error {
		var err error
		loc, err = g.geocode(geocoder.Address{City: name})
		return err
	})
	if err != nil {
		if noResults(err) {
			return json.RawMessage("[]"), nil
		}
		return nil, err
	}

	match := geo.Location{Name: name, Lat: loc.Latitude, Lon: loc.Longitude}
	if named, ok, err := g.lookup(ctx, match.Coordinate()); err == nil && ok {
		match.State = named.State
		match.Country = named.Country
		if named.Name != "" {
			match.Name = named.Name
		}
	}
	return json.Marshal([]geo.Location{match})
}

// Reverse returns the closest addressable place, or null.
func (g *GoogleGeocoder) Reverse(ctx context.Context, at geo.Coordinate) (json.RawMessage, error) {
	match, ok, err := g.lookup(ctx, at)
	if err != nil {
		return nil, err
	}
	if !ok {
		return geo.Null, nil
	}
	return json.Marshal(match)
}

func (g *GoogleGeocoder) lookup(ctx context.Context, at geo.Coordinate) (geo.Location, bool, error) {
	var addresses []geocoder.Address
	err := g.call(ctx, func() error {
		var err error
		addresses, err = g.reverse(geocoder.Location{Latitude: at.Latitude, Longitude: at.Longitude})
		return err
	})
	if err != nil {
		if noResults(err) {
			return geo.Location{}, false, nil
		}
		return geo.Location{}, false, err
	}

	for _, a := range addresses {
		if a.City == "" {
			continue
		}
		return geo.Location{
			Name:       a.City,
			LocalNames: map[string]string{"en": a.City},
			Lat:        at.Latitude,
			Lon:        at.Longitude,
			Country:    a.Country,
			State:      a.State,
		}, true, nil
	}
	return geo.Location{}, false, nil
}

func (g *GoogleGeocoder) call(ctx context.Context, fn func() error) error {
	if g.apiKey == "" {
		return errors.New("google geocoder api key is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var empty bool
	_, err := g.circuit.Execute(func() (interface{}, error) {
		googleKeyMu.Lock()
		defer googleKeyMu.Unlock()
		geocoder.ApiKey = g.apiKey
		if err := fn(); err != nil {
			if common.HasAny(err.Error(), "ZERO_RESULTS", "no results found") {
				empty = true
				return nil, nil
			}
			return nil, err
		}
		return nil, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w: %v", g.name, ErrCircuitOpen, err)
	}
	if err == nil && empty {
		return errNoResults
	}
	return err
}

var errNoResults = errors.New("geocoder returned no results")

func noResults(err error) bool {
	return errors.Is(err, errNoResults)
}
