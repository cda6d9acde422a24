package geo

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

type countingGeocoder struct {
	searches int
	reverses int
	err      error
}

func (g *countingGeocoder) Search(_ context.Context, query string, limit int) (json.RawMessage, error) {
	g.searches++
	if g.err != nil {
		return nil, g.err
	}
	return json.RawMessage(`[{"name":"` + query + `"}]`), nil
}

func (g *countingGeocoder) Reverse(_ context.Context, c Coordinate) (json.RawMessage, error) {
	g.reverses++
	if g.err != nil {
		return nil, g.err
	}
	return json.RawMessage(`{"name":"Upstream"}`), nil
}

func decodeLocations(t *testing.T, raw json.RawMessage) []Location {
	t.Helper()
	var out []Location
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestSampleSearchIsCaseInsensitiveSubstring(t *testing.T) {
	svc := NewService(nil)
	assert.True(t, svc.UsingSample())

	raw, err := svc.Search(context.Background(), "lon")
	require.NoError(t, err)
	locs := decodeLocations(t, raw)
	require.Len(t, locs, 1)
	assert.Equal(t, "London", locs[0].Name)
	assert.Equal(t, "GB", locs[0].Country)

	raw, err = svc.Search(context.Background(), "YO")
	require.NoError(t, err)
	locs = decodeLocations(t, raw)
	require.Len(t, locs, 2)
	assert.Equal(t, "New York", locs[0].Name)
	assert.Equal(t, "Tokyo", locs[1].Name)
}

func TestSampleSearchNoMatchIsEmptyArray(t *testing.T) {
	raw, err := NewService(nil).Search(context.Background(), "zzz")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestSampleReverseUsesCallerCoordinates(t *testing.T) {
	raw, err := NewService(nil).Reverse(context.Background(), Coordinate{Latitude: 12.5, Longitude: -3.25})
	require.NoError(t, err)

	var loc Location
	require.NoError(t, json.Unmarshal(raw, &loc))
	assert.Equal(t, "Mock City", loc.Name)
	assert.Equal(t, "Mock State", loc.State)
	assert.Equal(t, 12.5, loc.Lat)
	assert.Equal(t, -3.25, loc.Lon)
	assert.Zero(t, SampleReverse.Lat, "sample template must stay untouched")
}

func TestPrimaryResultsAreCached(t *testing.T) {
	primary := &countingGeocoder{}
	cache := newFakeCache()
	svc := NewService(primary, WithCache(cache))

	for i := 0; i < 3; i++ {
		raw, err := svc.Search(context.Background(), " Paris ")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"name":" Paris "}]`, string(raw))
	}
	assert.Equal(t, 1, primary.searches)

	_, err := svc.Search(context.Background(), "paris")
	require.NoError(t, err)
	assert.Equal(t, 1, primary.searches, "keys are normalised")

	c := Coordinate{Latitude: 1, Longitude: 2}
	_, err = svc.Reverse(context.Background(), c)
	require.NoError(t, err)
	_, err = svc.Reverse(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, 1, primary.reverses)
}

func TestPrimaryErrorsAreNotCached(t *testing.T) {
	upstreamErr := errors.New("boom")
	primary := &countingGeocoder{err: upstreamErr}
	cache := newFakeCache()
	svc := NewService(primary, WithCache(cache))

	_, err := svc.Search(context.Background(), "Paris")
	require.Error(t, err)
	assert.ErrorIs(t, err, upstreamErr)
	assert.Empty(t, cache.data)
}

func TestLocationLabel(t *testing.T) {
	assert.Equal(t, "London, England, GB", SampleLocations[0].Label())
	assert.Equal(t, "Tokyo, JP", SampleLocations[3].Label())
	assert.Equal(t, Coordinate{Latitude: 35.6895, Longitude: 139.6917}, SampleLocations[3].Coordinate())
}
