package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Coordinate is a position in decimal degrees.
// It is captured once and replaced wholesale on a new selection.
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// String renders the coordinate as "lat,lon" with four decimals.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

// Location is a named place as returned by direct/reverse geocoding.
type Location struct {
	Name       string            `json:"name"`
	LocalNames map[string]string `json:"local_names,omitempty"`
	Lat        float64           `json:"lat"`
	Lon        float64           `json:"lon"`
	Country    string            `json:"country"`
	State      string            `json:"state,omitempty"`
}

// Coordinate returns the location's position.
func (l Location) Coordinate() Coordinate {
	return Coordinate{Latitude: l.Lat, Longitude: l.Lon}
}

// Label joins name, state and country the way the search list displays them.
func (l Location) Label() string {
	parts := []string{l.Name}
	if l.State != "" {
		parts = append(parts, l.State)
	}
	if l.Country != "" {
		parts = append(parts, l.Country)
	}
	return strings.Join(parts, ", ")
}

// Geocoder resolves free text to candidate places and coordinates to a place.
//
// Search returns a JSON array of locations. Reverse returns a single JSON
// location object, or the JSON literal null when nothing matched. Payloads
// are handed back exactly as the backend produced them.
type Geocoder interface {
	Search(ctx context.Context, query string, limit int) (json.RawMessage, error)
	Reverse(ctx context.Context, c Coordinate) (json.RawMessage, error)
}

// Cache stores upstream geocoding payloads.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Null is the JSON literal returned when a reverse lookup has no match.
var Null = json.RawMessage("null")
