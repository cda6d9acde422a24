package display

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// WindView is the wind card.
type WindView struct {
	Speed     string  `json:"speed"`
	Bearing   float64 `json:"bearing"`
	Direction string  `json:"direction"`
	Gust      string  `json:"gust,omitempty"`
}

// UVView is the UV index card.
type UVView struct {
	Value string `json:"value"`
	UVBand
}

// WeatherView is everything the dashboard shows for one bundle.
type WeatherView struct {
	Place         string   `json:"place"`
	Units         string   `json:"units"`
	Temperature   string   `json:"temperature"`
	FeelsLike     string   `json:"feelsLike"`
	Description   string   `json:"description"`
	IconURL       string   `json:"iconUrl"`
	Gauges        []Gauge  `json:"gauges"`
	Visibility    string   `json:"visibility"`
	Wind          WindView `json:"wind"`
	Precipitation string   `json:"precipitation,omitempty"`
	Pressure      string   `json:"pressure"`
	Sunrise       string   `json:"sunrise"`
	Sunset        string   `json:"sunset"`
	Low           string   `json:"low"`
	High          string   `json:"high"`
	UV            *UVView  `json:"uv,omitempty"`
	DewPoint      string   `json:"dewPoint,omitempty"`
	Forecast      []Slot   `json:"forecast"`
}

// BuildView assembles the full display for b, which must have been fetched
// in units.
func BuildView(b weather.Bundle, units weather.Units, now time.Time, loc *time.Location) WeatherView {
	cur := b.Current
	cond := cur.Primary()
	visibility := Value(cur.Visibility)

	v := WeatherView{
		Place:       cur.Name,
		Units:       string(units),
		Temperature: Temperature(cur.Main.Temp, units),
		FeelsLike:   Temperature(cur.Main.FeelsLike, units),
		Description: cond.Description,
		IconURL:     IconURL(cond.Icon, true),
		Gauges: []Gauge{
			NewGauge("Humidity", cur.Main.Humidity, 100, "%"),
			NewGauge("Cloud Cover", cur.Clouds.All, 100, "%"),
			NewGauge("Visibility", VisibilityPercent(visibility), 100, "%"),
		},
		Visibility: Visibility(visibility),
		Wind: WindView{
			Speed:     WindSpeed(cur.Wind.Speed, units),
			Bearing:   cur.Wind.Deg,
			Direction: CompassPoint(cur.Wind.Deg),
		},
		Pressure: strconv.FormatFloat(cur.Main.Pressure, 'f', -1, 64) + " hPa",
		Sunrise:  Clock(cur.Sys.Sunrise, loc),
		Sunset:   Clock(cur.Sys.Sunset, loc),
		Low:      Temperature(cur.Main.TempMin, units),
		High:     Temperature(cur.Main.TempMax, units),
		Forecast: ForecastStrip(b.Forecast.List, units, now, loc),
	}

	if g := Value(cur.Wind.Gust); !math.IsNaN(g) && g > 0 {
		v.Wind.Gust = WindSpeed(g, units)
	}
	if cur.Rain != nil {
		if mm := Value(cur.Rain.OneHour); !math.IsNaN(mm) && mm > 0 {
			v.Precipitation = strconv.FormatFloat(mm, 'f', -1, 64) + " mm/h"
		}
	}
	if uvi := Value(cur.UVI); !math.IsNaN(uvi) {
		v.UV = &UVView{Value: fmt.Sprintf("%.1f", uvi), UVBand: UVIndex(uvi)}
	}
	if dp := Value(cur.DewPoint); !math.IsNaN(dp) {
		v.DewPoint = Temperature(dp, units)
	}
	return v
}
