package weather

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/geo"
)

type stubProvider struct {
	mu          sync.Mutex
	current     json.RawMessage
	forecast    json.RawMessage
	currentErr  error
	forecastErr error
	units       []Units
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Current(_ context.Context, _ geo.Coordinate, units Units) (json.RawMessage, error) {
	p.mu.Lock()
	p.units = append(p.units, units)
	p.mu.Unlock()
	return p.current, p.currentErr
}

func (p *stubProvider) Forecast(_ context.Context, _ geo.Coordinate, _ Units) (json.RawMessage, error) {
	return p.forecast, p.forecastErr
}

func TestBundleJoinsBothPayloads(t *testing.T) {
	p := &stubProvider{
		current:  json.RawMessage(`{"name":"X","main":{"temp":1.5}}`),
		forecast: json.RawMessage(`{"cnt":0,"list":[]}`),
	}
	svc := NewService(p, nil)

	raw, err := svc.Bundle(context.Background(), geo.Coordinate{Latitude: 1, Longitude: 2}, UnitsImperial)
	require.NoError(t, err)
	assert.JSONEq(t, string(p.current), string(raw.Current))
	assert.JSONEq(t, string(p.forecast), string(raw.Forecast))
	assert.Equal(t, []Units{UnitsImperial}, p.units)
}

func TestBundleIsAllOrNothing(t *testing.T) {
	boom := errors.New("boom")
	cases := map[string]*stubProvider{
		"current fails": {
			currentErr: boom,
			forecast:   json.RawMessage(`{}`),
		},
		"forecast fails": {
			current:     json.RawMessage(`{}`),
			forecastErr: boom,
		},
	}

	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			raw, err := NewService(p, nil).Bundle(context.Background(), geo.Coordinate{}, UnitsMetric)
			require.ErrorIs(t, err, boom)
			assert.Nil(t, raw.Current)
			assert.Nil(t, raw.Forecast)
		})
	}
}

func TestBundleWithoutProvider(t *testing.T) {
	svc := NewService(nil, nil)
	assert.False(t, svc.Configured())

	_, err := svc.Bundle(context.Background(), geo.Coordinate{}, UnitsMetric)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestParseUnits(t *testing.T) {
	u, err := ParseUnits("")
	require.NoError(t, err)
	assert.Equal(t, UnitsMetric, u)

	u, err = ParseUnits("Imperial")
	require.NoError(t, err)
	assert.Equal(t, UnitsImperial, u)

	_, err = ParseUnits("kelvin")
	assert.Error(t, err)

	assert.Equal(t, UnitsImperial, UnitsMetric.Toggle())
	assert.Equal(t, UnitsMetric, UnitsImperial.Toggle())
	assert.Equal(t, "°F", UnitsImperial.TemperatureSymbol())
	assert.Equal(t, "K", UnitsStandard.TemperatureSymbol())
	assert.Equal(t, "mph", UnitsImperial.SpeedSymbol())
	assert.Equal(t, "m/s", UnitsMetric.SpeedSymbol())
}

func TestSampleProviderDecodes(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(SampleProvider{Now: func() time.Time { return now }}, nil)

	raw, err := svc.Bundle(context.Background(), geo.Coordinate{}, UnitsMetric)
	require.NoError(t, err)

	b, err := raw.Decode()
	require.NoError(t, err)
	assert.Equal(t, "London", b.Current.Name)
	assert.Equal(t, 20.5, b.Current.Main.Temp)
	assert.Equal(t, "01d", b.Current.Primary().Icon)
	require.NotNil(t, b.Current.Visibility)
	assert.Equal(t, 10000.0, *b.Current.Visibility)
	assert.Equal(t, now.Unix(), b.Current.Dt)

	require.Len(t, b.Forecast.List, 40)
	assert.Equal(t, "Rain", b.Forecast.List[0].Primary().Main)
	assert.Equal(t, 0.6, b.Forecast.List[0].Pop)
	assert.Equal(t, "Clear", b.Forecast.List[1].Primary().Main)
	assert.Equal(t, now.Unix()+10800, b.Forecast.List[1].Dt)
	assert.Equal(t, "2024-05-01 15:00:00", b.Forecast.List[1].DtTxt)
	assert.Equal(t, 1000000, b.Forecast.City.Population)
}

func TestSampleProviderHonoursUnits(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(SampleProvider{Now: func() time.Time { return now }}, nil)

	raw, err := svc.Bundle(context.Background(), geo.Coordinate{}, UnitsImperial)
	require.NoError(t, err)
	b, err := raw.Decode()
	require.NoError(t, err)
	assert.InDelta(t, 68.9, b.Current.Main.Temp, 0.001)
	assert.InDelta(t, 8.053, b.Current.Wind.Speed, 0.001)
	assert.InDelta(t, 64.4, b.Forecast.List[0].Main.Temp, 0.001)
	assert.Equal(t, 1012.0, b.Current.Main.Pressure)

	raw, err = svc.Bundle(context.Background(), geo.Coordinate{}, UnitsStandard)
	require.NoError(t, err)
	b, err = raw.Decode()
	require.NoError(t, err)
	assert.InDelta(t, 293.65, b.Current.Main.Temp, 0.001)
	assert.InDelta(t, 3.6, b.Current.Wind.Speed, 0.001)
}

func TestRawBundleDecodeRejectsGarbage(t *testing.T) {
	_, err := RawBundle{Current: json.RawMessage(`nope`), Forecast: json.RawMessage(`{}`)}.Decode()
	assert.Error(t, err)
}
