package weather

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/i474232898/weather-dashboard/internal/geo"
)

// Units selects the measurement system requested from the upstream.
type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
	UnitsStandard Units = "standard"
)

// ParseUnits validates a units flag. The empty string means metric.
func ParseUnits(s string) (Units, error) {
	switch u := Units(strings.ToLower(strings.TrimSpace(s))); u {
	case "":
		return UnitsMetric, nil
	case UnitsMetric, UnitsImperial, UnitsStandard:
		return u, nil
	default:
		return "", fmt.Errorf("unknown units %q", s)
	}
}

// Toggle flips between metric and imperial.
func (u Units) Toggle() Units {
	if u == UnitsImperial {
		return UnitsMetric
	}
	return UnitsImperial
}

// TemperatureSymbol is the suffix shown after a rounded temperature.
func (u Units) TemperatureSymbol() string {
	switch u {
	case UnitsImperial:
		return "°F"
	case UnitsStandard:
		return "K"
	default:
		return "°C"
	}
}

// SpeedSymbol is the suffix shown after a rounded wind speed.
func (u Units) SpeedSymbol() string {
	if u == UnitsImperial {
		return "mph"
	}
	return "m/s"
}

// Condition is one entry of the upstream "weather" array.
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Readings is the upstream "main" block.
type Readings struct {
	Temp      float64  `json:"temp"`
	FeelsLike float64  `json:"feels_like"`
	TempMin   float64  `json:"temp_min"`
	TempMax   float64  `json:"temp_max"`
	Pressure  float64  `json:"pressure"`
	Humidity  float64  `json:"humidity"`
	SeaLevel  *float64 `json:"sea_level,omitempty"`
	GrndLevel *float64 `json:"grnd_level,omitempty"`
}

type Wind struct {
	Speed float64  `json:"speed"`
	Deg   float64  `json:"deg"`
	Gust  *float64 `json:"gust,omitempty"`
}

type Clouds struct {
	All float64 `json:"all"`
}

// Precipitation volumes in millimetres for the last hour / three hours.
type Precipitation struct {
	OneHour    *float64 `json:"1h,omitempty"`
	ThreeHours *float64 `json:"3h,omitempty"`
}

type Sun struct {
	Country string `json:"country"`
	Sunrise int64  `json:"sunrise"`
	Sunset  int64  `json:"sunset"`
}

// CurrentConditions is the decoded current-conditions payload.
type CurrentConditions struct {
	Coord      geo.Coordinate `json:"coord"`
	Weather    []Condition    `json:"weather"`
	Main       Readings       `json:"main"`
	Visibility *float64       `json:"visibility,omitempty"`
	Wind       Wind           `json:"wind"`
	Clouds     Clouds         `json:"clouds"`
	Rain       *Precipitation `json:"rain,omitempty"`
	Snow       *Precipitation `json:"snow,omitempty"`
	Dt         int64          `json:"dt"`
	Sys        Sun            `json:"sys"`
	Timezone   int            `json:"timezone"`
	ID         int            `json:"id"`
	Name       string         `json:"name"`
	UVI        *float64       `json:"uvi,omitempty"`
	DewPoint   *float64       `json:"dew_point,omitempty"`
}

// Primary returns the first condition, or a zero Condition when absent.
func (c CurrentConditions) Primary() Condition {
	if len(c.Weather) == 0 {
		return Condition{}
	}
	return c.Weather[0]
}

// ForecastEntry is one 3-hour step of the forecast series.
type ForecastEntry struct {
	Dt         int64          `json:"dt"`
	Main       Readings       `json:"main"`
	Weather    []Condition    `json:"weather"`
	Clouds     Clouds         `json:"clouds"`
	Wind       Wind           `json:"wind"`
	Visibility *float64       `json:"visibility,omitempty"`
	Pop        float64        `json:"pop"`
	Rain       *Precipitation `json:"rain,omitempty"`
	DtTxt      string         `json:"dt_txt"`
}

// Primary returns the first condition, or a zero Condition when absent.
func (e ForecastEntry) Primary() Condition {
	if len(e.Weather) == 0 {
		return Condition{}
	}
	return e.Weather[0]
}

type City struct {
	ID         int            `json:"id"`
	Name       string         `json:"name"`
	Coord      geo.Coordinate `json:"coord"`
	Country    string         `json:"country"`
	Population int            `json:"population"`
	Timezone   int            `json:"timezone"`
	Sunrise    int64          `json:"sunrise"`
	Sunset     int64          `json:"sunset"`
}

// ForecastSeries is the decoded forecast payload, entries in time order.
type ForecastSeries struct {
	Cnt  int             `json:"cnt"`
	List []ForecastEntry `json:"list"`
	City City            `json:"city"`
}

// Bundle pairs current conditions with the forecast fetched for the same
// coordinate and units.
type Bundle struct {
	Current  CurrentConditions `json:"current"`
	Forecast ForecastSeries    `json:"forecast"`
}

// RawBundle is the combined payload exactly as received from upstream.
type RawBundle struct {
	Current  json.RawMessage `json:"current"`
	Forecast json.RawMessage `json:"forecast"`
}

// Decode parses both halves into a Bundle.
func (r RawBundle) Decode() (Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(r.Current, &b.Current); err != nil {
		return Bundle{}, fmt.Errorf("decode current conditions: %w", err)
	}
	if err := json.Unmarshal(r.Forecast, &b.Forecast); err != nil {
		return Bundle{}, fmt.Errorf("decode forecast: %w", err)
	}
	return b, nil
}
