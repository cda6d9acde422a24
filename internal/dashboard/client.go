package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/prefs"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Backend is what the dashboard needs from the weather server.
type Backend interface {
	Locations(ctx context.Context, query string) ([]geo.Location, error)
	ReverseGeocode(ctx context.Context, at geo.Coordinate) (*geo.Location, error)
	Weather(ctx context.Context, at geo.Coordinate, units weather.Units) (weather.Bundle, error)
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server answered %d: %s", e.Status, e.Message)
}

type ClientOption func(*APIClient)

// APIClient calls the weather dashboard server.
type APIClient struct {
	baseURL string
	client  *http.Client
}

func BaseURLOption(baseURL string) ClientOption {
	return func(c *APIClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func HTTPClientOption(client *http.Client) ClientOption {
	return func(c *APIClient) {
		c.client = client
	}
}

// NewAPIClient creates a client for the server at http://localhost:8080
// unless BaseURLOption says otherwise.
func NewAPIClient(opts ...ClientOption) *APIClient {
	c := &APIClient{
		baseURL: "http://localhost:8080",
		client:  &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *APIClient) Locations(ctx context.Context, query string) ([]geo.Location, error) {
	var out []geo.Location
	err := c.do(ctx, http.MethodGet, "/api/locations", url.Values{"q": {query}}, nil, &out)
	return out, err
}

// ReverseGeocode returns nil when the server found no place.
func (c *APIClient) ReverseGeocode(ctx context.Context, at geo.Coordinate) (*geo.Location, error) {
	var out *geo.Location
	err := c.do(ctx, http.MethodGet, "/api/reverse-geocode", coordinateValues(at), nil, &out)
	return out, err
}

func (c *APIClient) Weather(ctx context.Context, at geo.Coordinate, units weather.Units) (weather.Bundle, error) {
	values := coordinateValues(at)
	values.Set("units", string(units))

	var raw weather.RawBundle
	if err := c.do(ctx, http.MethodGet, "/api/weather", values, nil, &raw); err != nil {
		return weather.Bundle{}, err
	}
	return raw.Decode()
}

func (c *APIClient) CreatePreferences(ctx context.Context, u prefs.Update) (prefs.Preferences, error) {
	var out prefs.Preferences
	err := c.do(ctx, http.MethodPost, "/api/preferences", nil, u, &out)
	return out, err
}

func (c *APIClient) LoadPreferences(ctx context.Context, id string) (prefs.Preferences, error) {
	var out prefs.Preferences
	err := c.do(ctx, http.MethodGet, "/api/preferences/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

func (c *APIClient) SavePreferences(ctx context.Context, id string, u prefs.Update) (prefs.Preferences, error) {
	var out prefs.Preferences
	err := c.do(ctx, http.MethodPut, "/api/preferences/"+url.PathEscape(id), nil, u, &out)
	return out, err
}

func (c *APIClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func coordinateValues(at geo.Coordinate) url.Values {
	return url.Values{
		"lat": {strconv.FormatFloat(at.Latitude, 'f', -1, 64)},
		"lon": {strconv.FormatFloat(at.Longitude, 'f', -1, 64)},
	}
}
