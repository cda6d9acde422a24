package weather

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/i474232898/weather-dashboard/internal/geo"
)

const (
	sampleSteps    = 40
	sampleStepSecs = 10800
)

// SampleProvider serves a fixed London payload regardless of coordinate,
// converted to the requested units. It is only wired when the operator opts in.
type SampleProvider struct {
	Now func() time.Time
}

func (p SampleProvider) Name() string {
	return "sample"
}

func (p SampleProvider) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p SampleProvider) Current(_ context.Context, _ geo.Coordinate, units Units) (json.RawMessage, error) {
	return json.Marshal(sampleCurrent(p.now(), units))
}

func (p SampleProvider) Forecast(_ context.Context, _ geo.Coordinate, units Units) (json.RawMessage, error) {
	return json.Marshal(sampleForecast(p.now(), units))
}

// fromCelsius converts a sample temperature to units.
func fromCelsius(c float64, units Units) float64 {
	switch units {
	case UnitsImperial:
		return c*9/5 + 32
	case UnitsStandard:
		return c + 273.15
	default:
		return c
	}
}

// fromMetresPerSecond converts a sample wind speed to units.
func fromMetresPerSecond(v float64, units Units) float64 {
	if units == UnitsImperial {
		return v * 2.236936
	}
	return v
}

func sampleReadings(temp, feelsLike, tempMin, tempMax float64, units Units) Readings {
	return Readings{
		Temp:      fromCelsius(temp, units),
		FeelsLike: fromCelsius(feelsLike, units),
		TempMin:   fromCelsius(tempMin, units),
		TempMax:   fromCelsius(tempMax, units),
		Pressure:  1012,
	}
}

func ptr(v float64) *float64 {
	return &v
}

func sampleCurrent(now time.Time, units Units) map[string]any {
	readings := sampleReadings(20.5, 19.8, 18.9, 22.1, units)
	readings.Humidity = 53
	readings.SeaLevel = ptr(1012)
	readings.GrndLevel = ptr(1009)

	return map[string]any{
		"coord":      geo.Coordinate{Latitude: 51.5085, Longitude: -0.1257},
		"weather":    []Condition{{ID: 800, Main: "Clear", Description: "clear sky", Icon: "01d"}},
		"base":       "stations",
		"main":       readings,
		"visibility": 10000,
		"wind":       Wind{Speed: fromMetresPerSecond(3.6, units), Deg: 180},
		"clouds":     Clouds{All: 0},
		"dt":         now.Unix(),
		"sys": map[string]any{
			"type":    1,
			"id":      1414,
			"country": "GB",
			"sunrise": 1695620123,
			"sunset":  1695664123,
		},
		"timezone": 3600,
		"id":       2643743,
		"name":     "London",
		"cod":      200,
	}
}

func sampleForecast(now time.Time, units Units) map[string]any {
	list := make([]ForecastEntry, 0, sampleSteps)
	for i := 0; i < sampleSteps; i++ {
		at := now.Add(time.Duration(i*sampleStepSecs) * time.Second)
		wave := math.Sin(float64(i)) * 5

		cond := Condition{ID: 800, Main: "Clear", Description: "clear sky", Icon: "01d"}
		pop := 0.0
		if i%3 == 0 {
			cond = Condition{ID: 500, Main: "Rain", Description: "light rain", Icon: "10d"}
			pop = 0.6
		}
		clouds := 0.0
		if i%2 == 0 {
			clouds = 20
		}

		readings := sampleReadings(18+wave, 17+wave, 16+wave, 20+wave, units)
		readings.Humidity = float64(50 + i%20)

		list = append(list, ForecastEntry{
			Dt:         at.Unix(),
			Main:       readings,
			Weather:    []Condition{cond},
			Clouds:     Clouds{All: clouds},
			Wind:       Wind{Speed: fromMetresPerSecond(3+float64((i*7)%10)/5, units), Deg: 180},
			Visibility: ptr(10000),
			Pop:        pop,
			DtTxt:      at.UTC().Format(time.DateTime),
		})
	}

	return map[string]any{
		"cod":     "200",
		"message": 0,
		"cnt":     sampleSteps,
		"list":    list,
		"city": City{
			ID:         2643743,
			Name:       "London",
			Coord:      geo.Coordinate{Latitude: 51.5085, Longitude: -0.1257},
			Country:    "GB",
			Population: 1000000,
			Timezone:   3600,
			Sunrise:    1695620123,
			Sunset:     1695664123,
		},
	}
}
