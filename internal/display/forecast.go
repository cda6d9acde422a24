package display

import (
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// StripLength is the number of 3-hour forecast slots shown (24 hours).
const StripLength = 8

// Slot is one entry of the forecast strip.
type Slot struct {
	Label       string `json:"label"`
	Temperature string `json:"temperature"`
	Description string `json:"description"`
	IconURL     string `json:"iconUrl"`
}

// ForecastStrip renders the first StripLength entries. Each slot is labelled
// "Today" when its local calendar date matches now's, otherwise with the
// weekday abbreviation, followed by the hour.
func ForecastStrip(list []weather.ForecastEntry, units weather.Units, now time.Time, loc *time.Location) []Slot {
	if loc == nil {
		loc = time.Local
	}
	if len(list) > StripLength {
		list = list[:StripLength]
	}

	today := now.In(loc)
	slots := make([]Slot, 0, len(list))
	for _, e := range list {
		at := time.Unix(e.Dt, 0).In(loc)
		cond := e.Primary()
		slots = append(slots, Slot{
			Label:       dayLabel(at, today) + " " + at.Format("03 PM"),
			Temperature: Temperature(e.Main.Temp, units),
			Description: cond.Description,
			IconURL:     IconURL(cond.Icon, false),
		})
	}
	return slots
}

func dayLabel(at, today time.Time) string {
	y1, m1, d1 := at.Date()
	y2, m2, d2 := today.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	return at.Format("Mon")
}
