package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// DefaultOpenWeatherURL is the OpenWeatherMap API root.
const DefaultOpenWeatherURL = "https://api.openweathermap.org"

const (
	pathCurrent  = "/data/2.5/weather"
	pathForecast = "/data/2.5/forecast"
	pathDirect   = "/geo/1.0/direct"
	pathReverse  = "/geo/1.0/reverse"
)

var errMissingAPIKey = errors.New("openweather api key is not configured")

// OpenWeatherClient talks to the OpenWeatherMap weather and geocoding APIs.
// It satisfies both weather.Provider and geo.Geocoder and hands upstream
// payloads back untouched.
type OpenWeatherClient struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig

	// one breaker per endpoint, keyed by path
	circuits map[string]*gobreaker.CircuitBreaker
}

// OpenWeatherOption customises an OpenWeatherClient.
type OpenWeatherOption func(*OpenWeatherClient)

// BaseURLOption points the client at a different API root.
func BaseURLOption(baseURL string) OpenWeatherOption {
	return func(c *OpenWeatherClient) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// RetryOption enables retries with exponential backoff for 429/5xx answers.
func RetryOption(maxRetries int) OpenWeatherOption {
	return func(c *OpenWeatherClient) {
		c.httpCfg.Backoff.MaxRetries = maxRetries
	}
}

// NewOpenWeatherClient creates a client using the given HTTP client and credential.
func NewOpenWeatherClient(client *http.Client, apiKey string, opts ...OpenWeatherOption) *OpenWeatherClient {
	c := &OpenWeatherClient{
		name:     "openweathermap",
		apiKey:   apiKey,
		baseURL:  DefaultOpenWeatherURL,
		httpCfg:  defaultHTTPConfig(client),
		circuits: map[string]*gobreaker.CircuitBreaker{
			pathCurrent:  newCircuit("openweather-current"),
			pathForecast: newCircuit("openweather-forecast"),
			pathDirect:   newCircuit("openweather-direct"),
			pathReverse:  newCircuit("openweather-reverse"),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *OpenWeatherClient) Name() string {
	return c.name
}

// Current fetches /data/2.5/weather for the coordinate.
func (c *OpenWeatherClient) Current(ctx context.Context, at geo.Coordinate, units weather.Units) (json.RawMessage, error) {
	return c.get(ctx, pathCurrent, weatherQuery(at, units))
}

// Forecast fetches /data/2.5/forecast (5 days in 3-hour steps) for the coordinate.
func (c *OpenWeatherClient) Forecast(ctx context.Context, at geo.Coordinate, units weather.Units) (json.RawMessage, error) {
	return c.get(ctx, pathForecast, weatherQuery(at, units))
}

// Search runs direct geocoding and returns the upstream array as is.
func (c *OpenWeatherClient) Search(ctx context.Context, query string, limit int) (json.RawMessage, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", strconv.Itoa(limit))
	return c.get(ctx, pathDirect, values)
}

// Reverse runs reverse geocoding and returns the first match, or null.
func (c *OpenWeatherClient) Reverse(ctx context.Context, at geo.Coordinate) (json.RawMessage, error) {
	values := coordinateQuery(at)
	values.Set("limit", "1")

	raw, err := c.get(ctx, pathReverse, values)
	if err != nil {
		return nil, err
	}

	var matches []json.RawMessage
	if err := json.Unmarshal(raw, &matches); err != nil {
		return nil, fmt.Errorf("%s reverse: %w", c.name, ErrInvalidPayload)
	}
	if len(matches) == 0 {
		return geo.Null, nil
	}
	return matches[0], nil
}

func (c *OpenWeatherClient) get(ctx context.Context, path string, values url.Values) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, errMissingAPIKey
	}
	values.Set("appid", c.apiKey)
	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, values.Encode())

	return fetchJSON(ctx, c.name, c.httpCfg, c.circuits[path], func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	})
}

func coordinateQuery(at geo.Coordinate) url.Values {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(at.Latitude, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(at.Longitude, 'f', -1, 64))
	return values
}

func weatherQuery(at geo.Coordinate, units weather.Units) url.Values {
	values := coordinateQuery(at)
	values.Set("units", string(units))
	return values
}
