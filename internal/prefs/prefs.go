package prefs

import (
	"context"
	"errors"
	"time"

	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	// ErrNotFound is returned when no preferences exist for an id.
	ErrNotFound = errors.New("preferences not found")
	// ErrInvalid wraps validation failures of an Update.
	ErrInvalid = errors.New("invalid preferences")
)

// Theme is the dashboard color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Preferences is the explicit per-session dashboard state.
type Preferences struct {
	ID           string        `json:"id"`
	Units        weather.Units `json:"units"`
	Theme        Theme         `json:"theme"`
	LastLocation *geo.Location `json:"lastLocation,omitempty"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// Default returns the preferences a new session starts with.
func Default() Preferences {
	return Preferences{Units: weather.UnitsMetric, Theme: ThemeLight}
}

// Update is a partial change. Nil fields are left untouched.
type Update struct {
	Units        *string       `json:"units,omitempty" validate:"omitempty,oneof=metric imperial standard"`
	Theme        *string       `json:"theme,omitempty" validate:"omitempty,oneof=light dark"`
	LastLocation *geo.Location `json:"lastLocation,omitempty"`
}

// Apply merges u into p.
func (u Update) Apply(p Preferences) Preferences {
	if u.Units != nil {
		p.Units = weather.Units(*u.Units)
	}
	if u.Theme != nil {
		p.Theme = Theme(*u.Theme)
	}
	if u.LastLocation != nil {
		loc := *u.LastLocation
		p.LastLocation = &loc
	}
	return p
}

// Store persists preferences.
type Store interface {
	Save(ctx context.Context, p Preferences) error
	Get(ctx context.Context, id string) (Preferences, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
