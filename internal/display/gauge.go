package display

import "math"

// GaugeRadius is the radius of the circular gauge stroke.
const GaugeRadius = 32

// Gauge describes a circular progress ring.
type Gauge struct {
	Label         string  `json:"label"`
	Value         float64 `json:"value"`
	Unit          string  `json:"unit"`
	Percent       float64 `json:"percent"`
	Circumference float64 `json:"circumference"`
	DashOffset    float64 `json:"dashOffset"`
}

// NewGauge builds a gauge for value out of max. The percentage is clamped to
// [0, 100] so the arc never goes negative or past a full turn.
func NewGauge(label string, value, max float64, unit string) Gauge {
	pct := 0.0
	if max > 0 && !math.IsNaN(value) {
		pct = value / max * 100
	}
	pct = math.Max(0, math.Min(100, pct))

	c := 2 * math.Pi * GaugeRadius
	return Gauge{
		Label:         label,
		Value:         value,
		Unit:          unit,
		Percent:       pct,
		Circumference: c,
		DashOffset:    c - pct/100*c,
	}
}
