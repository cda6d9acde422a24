// Package display turns a weather bundle into display-ready values.
// Every function here is pure: the same bundle and units always give the
// same output.
package display

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// NotAvailable is shown in place of a missing reading.
const NotAvailable = "Not available"

// MaxVisibility is the visibility treated as 100% on the gauge, in metres.
const MaxVisibility = 10000.0

// round matches half-up rounding as used by the dashboard (-2.5 becomes -2).
func round(v float64) float64 {
	r := math.Floor(v + 0.5)
	if r == 0 {
		return 0 // no "-0"
	}
	return r
}

// Value dereferences an optional reading, giving NaN when absent.
func Value(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

// Temperature renders a whole-degree temperature with its unit symbol.
func Temperature(v float64, units weather.Units) string {
	return fmt.Sprintf("%.0f%s", round(v), units.TemperatureSymbol())
}

// WindSpeed renders a whole-number wind speed with its unit.
func WindSpeed(v float64, units weather.Units) string {
	return fmt.Sprintf("%.0f %s", round(v), units.SpeedSymbol())
}

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassPoint maps a bearing in degrees to one of 16 compass points.
func CompassPoint(deg float64) string {
	if math.IsNaN(deg) {
		return ""
	}
	i := int(round(deg/22.5)) % len(compassPoints)
	if i < 0 {
		i += len(compassPoints)
	}
	return compassPoints[i]
}

// Visibility renders metres as kilometres with one decimal from 1000m up,
// raw metres below that.
func Visibility(m float64) string {
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return NotAvailable
	}
	if m >= 1000 {
		return fmt.Sprintf("%.1fkm", m/1000)
	}
	return strconv.FormatFloat(m, 'f', -1, 64) + "m"
}

// VisibilityPercent expresses visibility as a share of MaxVisibility, capped at 100.
func VisibilityPercent(m float64) float64 {
	if math.IsNaN(m) {
		return 0
	}
	return math.Min(round(m/MaxVisibility*100), 100)
}

// UVBand is a named UV index range and its display color.
type UVBand struct {
	Level string `json:"level"`
	Color string `json:"color"`
}

var (
	UVLow      = UVBand{Level: "Low", Color: "#22c55e"}
	UVModerate = UVBand{Level: "Moderate", Color: "#eab308"}
	UVHigh     = UVBand{Level: "High", Color: "#f97316"}
	UVVeryHigh = UVBand{Level: "Very High", Color: "#ef4444"}
)

// UVIndex bands a UV index. Bounds are inclusive on the upper side.
func UVIndex(v float64) UVBand {
	switch {
	case v <= 2:
		return UVLow
	case v <= 5:
		return UVModerate
	case v <= 7:
		return UVHigh
	default:
		return UVVeryHigh
	}
}

// Clock renders a unix timestamp as local wall-clock time.
func Clock(unix int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(unix, 0).In(loc).Format("15:04")
}

// IconURL returns the condition icon, large for the current card and small
// for forecast slots.
func IconURL(icon string, large bool) string {
	if icon == "" {
		return ""
	}
	if large {
		return fmt.Sprintf("https://openweathermap.org/img/wn/%s@2x.png", icon)
	}
	return fmt.Sprintf("https://openweathermap.org/img/wn/%s.png", icon)
}
