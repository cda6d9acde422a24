package display

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func TestCompassPoint(t *testing.T) {
	want := []string{
		"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
		"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
	}
	for i, w := range want {
		assert.Equal(t, w, CompassPoint(float64(i)*22.5), "bearing %v", float64(i)*22.5)
	}

	assert.Equal(t, "S", CompassPoint(190))
	assert.Equal(t, "N", CompassPoint(359))
	assert.Equal(t, "N", CompassPoint(360))
	assert.Equal(t, "NNW", CompassPoint(-22.5))
	assert.Equal(t, "E", CompassPoint(450))
}

func TestVisibility(t *testing.T) {
	assert.Equal(t, "10.0km", Visibility(10000))
	assert.Equal(t, "1.0km", Visibility(1000))
	assert.Equal(t, "500m", Visibility(500))
	assert.Equal(t, "Not available", Visibility(math.NaN()))
	assert.Equal(t, "Not available", Visibility(Value(nil)))

	assert.Equal(t, 100.0, VisibilityPercent(10000))
	assert.Equal(t, 100.0, VisibilityPercent(25000))
	assert.Equal(t, 5.0, VisibilityPercent(500))
	assert.Equal(t, 0.0, VisibilityPercent(math.NaN()))
}

func TestUVIndex(t *testing.T) {
	assert.Equal(t, "Low", UVIndex(2.0).Level)
	assert.Equal(t, "Moderate", UVIndex(2.1).Level)
	assert.Equal(t, "Moderate", UVIndex(5).Level)
	assert.Equal(t, "High", UVIndex(6.4).Level)
	assert.Equal(t, "High", UVIndex(7.0).Level)
	assert.Equal(t, "Very High", UVIndex(7.1).Level)
	assert.Equal(t, "#ef4444", UVIndex(11).Color)
}

func TestUnitAwareFormatting(t *testing.T) {
	assert.Equal(t, "21°C", Temperature(20.5, weather.UnitsMetric))
	assert.Equal(t, "69°F", Temperature(68.7, weather.UnitsImperial))
	assert.Equal(t, "-2°C", Temperature(-2.5, weather.UnitsMetric))
	assert.Equal(t, "0°C", Temperature(-0.2, weather.UnitsMetric))
	assert.Equal(t, "294K", Temperature(293.65, weather.UnitsStandard))
	assert.Equal(t, "4 m/s", WindSpeed(3.6, weather.UnitsMetric))
	assert.Equal(t, "8 mph", WindSpeed(8.05, weather.UnitsImperial))
}

func TestGaugeClamps(t *testing.T) {
	c := 2 * math.Pi * 32

	g := NewGauge("Humidity", 53, 100, "%")
	assert.InDelta(t, 53, g.Percent, 1e-9)
	assert.InDelta(t, c-0.53*c, g.DashOffset, 1e-9)

	over := NewGauge("Cloud Cover", 130, 100, "%")
	assert.Equal(t, 100.0, over.Percent)
	assert.InDelta(t, 0, over.DashOffset, 1e-9)

	under := NewGauge("Cloud Cover", -5, 100, "%")
	assert.Equal(t, 0.0, under.Percent)
	assert.InDelta(t, c, under.DashOffset, 1e-9)

	zeroMax := NewGauge("x", 5, 0, "%")
	assert.Equal(t, 0.0, zeroMax.Percent)
}

func TestForecastStripLabels(t *testing.T) {
	loc := time.FixedZone("BST", 3600)
	now := time.Date(2024, 5, 1, 18, 0, 0, 0, loc) // Wednesday

	list := make([]weather.ForecastEntry, 12)
	for i := range list {
		list[i] = weather.ForecastEntry{
			Dt:      now.Add(time.Duration(i*3) * time.Hour).Unix(),
			Main:    weather.Readings{Temp: 10.4},
			Weather: []weather.Condition{{Description: "clear sky", Icon: "01n"}},
		}
	}

	slots := ForecastStrip(list, weather.UnitsMetric, now, loc)
	require.Len(t, slots, 8)
	assert.Equal(t, "Today 06 PM", slots[0].Label)
	assert.Equal(t, "Today 09 PM", slots[1].Label)
	assert.Equal(t, "Thu 12 AM", slots[2].Label)
	assert.Equal(t, "10°C", slots[0].Temperature)
	assert.Equal(t, "https://openweathermap.org/img/wn/01n.png", slots[0].IconURL)
}

func TestForecastStripShortList(t *testing.T) {
	assert.Empty(t, ForecastStrip(nil, weather.UnitsMetric, time.Now(), time.UTC))
}

func TestClock(t *testing.T) {
	assert.Equal(t, "05:35", Clock(1695620123, time.UTC))
	assert.Equal(t, "06:35", Clock(1695620123, time.FixedZone("BST", 3600)))
}

func TestBuildView(t *testing.T) {
	vis := 500.0
	uvi := 6.4
	gust := 7.2
	rain := 0.8
	b := weather.Bundle{
		Current: weather.CurrentConditions{
			Name:       "London",
			Weather:    []weather.Condition{{Description: "light rain", Icon: "10d"}},
			Main:       weather.Readings{Temp: 20.5, FeelsLike: 19.8, TempMin: 18.9, TempMax: 22.1, Pressure: 1012, Humidity: 53},
			Visibility: &vis,
			Wind:       weather.Wind{Speed: 3.6, Deg: 190, Gust: &gust},
			Clouds:     weather.Clouds{All: 120},
			Rain:       &weather.Precipitation{OneHour: &rain},
			UVI:        &uvi,
		},
	}

	v := BuildView(b, weather.UnitsMetric, time.Unix(0, 0), time.UTC)
	assert.Equal(t, "London", v.Place)
	assert.Equal(t, "21°C", v.Temperature)
	assert.Equal(t, "20°C", v.FeelsLike)
	assert.Equal(t, "https://openweathermap.org/img/wn/10d@2x.png", v.IconURL)
	assert.Equal(t, "500m", v.Visibility)
	assert.Equal(t, "S", v.Wind.Direction)
	assert.Equal(t, "7 m/s", v.Wind.Gust)
	assert.Equal(t, "0.8 mm/h", v.Precipitation)
	assert.Equal(t, "1012 hPa", v.Pressure)
	assert.Equal(t, "19°C", v.Low)
	assert.Equal(t, "22°C", v.High)
	require.NotNil(t, v.UV)
	assert.Equal(t, "6.4", v.UV.Value)
	assert.Equal(t, "High", v.UV.Level)
	assert.Empty(t, v.DewPoint)

	require.Len(t, v.Gauges, 3)
	assert.Equal(t, 100.0, v.Gauges[1].Percent)
	assert.Equal(t, 5.0, v.Gauges[2].Percent)
}

func TestBuildViewWithoutVisibility(t *testing.T) {
	v := BuildView(weather.Bundle{}, weather.UnitsImperial, time.Now(), time.UTC)
	assert.Equal(t, "Not available", v.Visibility)
	assert.Nil(t, v.UV)
	assert.Equal(t, 0.0, v.Gauges[2].Percent)
	assert.Equal(t, "", v.IconURL)
}
