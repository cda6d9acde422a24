package dashboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/weather-dashboard/internal/display"
	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/prefs"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// State is the page lifecycle state.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	IdleWithError
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case IdleWithError:
		return "idle-with-error"
	default:
		return "idle"
	}
}

// Snapshot is a consistent copy of the page state.
type Snapshot struct {
	State      State
	Place      string
	Coordinate *geo.Coordinate
	// Location is the geocoding result being shown, nil when only a device
	// position is known.
	Location *geo.Location
	// Units is the selected units; BundleUnits are those Bundle was fetched in.
	Units       weather.Units
	BundleUnits weather.Units
	Bundle      *weather.Bundle
	Theme       prefs.Theme
	// Error is the geolocation failure message. Weather fetch failures are
	// never surfaced.
	Error string
}

// Page drives the weather dashboard: locate, pick a place, fetch, toggle units.
type Page struct {
	backend Backend
	locator Locator
	logger  *zap.SugaredLogger

	// OnChange is called after every state transition.
	OnChange func(Snapshot)

	mu          sync.Mutex
	seq         uint64
	state       State
	manual      bool
	place       string
	coordinate  *geo.Coordinate
	location    *geo.Location
	units       weather.Units
	bundleUnits weather.Units
	bundle      *weather.Bundle
	theme       prefs.Theme
	errMsg      string
}

// NewPage creates a page in the Idle state using the units and theme from p.
func NewPage(backend Backend, locator Locator, p prefs.Preferences, logger *zap.SugaredLogger) *Page {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	units := p.Units
	if units == "" {
		units = weather.UnitsMetric
	}
	pg := &Page{
		backend: backend,
		locator: locator,
		logger:  logger,
		units:   units,
		theme:   p.Theme,
	}
	if p.LastLocation != nil {
		at := p.LastLocation.Coordinate()
		loc := *p.LastLocation
		pg.coordinate = &at
		pg.location = &loc
		pg.place = loc.Label()
	}
	return pg
}

// Snapshot returns the current state.
func (p *Page) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

// Start acquires the device position and loads weather for it. When a
// location was already chosen, it is loaded directly instead.
func (p *Page) Start(ctx context.Context) {
	p.mu.Lock()
	restored := p.coordinate != nil
	p.mu.Unlock()
	if restored {
		p.fetch(ctx)
		return
	}

	at, err := AcquirePosition(ctx, p.locator)

	p.mu.Lock()
	if p.manual {
		// a location was picked while we waited
		p.mu.Unlock()
		return
	}
	if err != nil {
		p.state = IdleWithError
		p.errMsg = err.Error()
		snap := p.snapshot()
		p.mu.Unlock()
		p.logger.Warnw("geolocation failed", "error", err)
		p.notify(snap)
		return
	}
	p.coordinate = &at
	p.mu.Unlock()

	if loc, err := p.backend.ReverseGeocode(ctx, at); err != nil {
		p.logger.Warnw("reverse geocoding failed", "coordinate", at.String(), "error", err)
	} else if loc != nil {
		p.mu.Lock()
		if !p.manual {
			named := *loc
			p.place = named.Label()
			p.location = &named
		}
		p.mu.Unlock()
	}

	p.fetch(ctx)
}

// SelectLocation switches to loc and loads its weather.
func (p *Page) SelectLocation(ctx context.Context, loc geo.Location) {
	at := loc.Coordinate()
	p.mu.Lock()
	p.manual = true
	p.coordinate = &at
	p.location = &loc
	p.place = loc.Label()
	p.errMsg = ""
	p.mu.Unlock()

	p.fetch(ctx)
}

// ToggleUnits flips metric/imperial and re-fetches. The stored bundle is
// never converted.
func (p *Page) ToggleUnits(ctx context.Context) {
	p.mu.Lock()
	p.units = p.units.Toggle()
	hasCoordinate := p.coordinate != nil
	snap := p.snapshot()
	p.mu.Unlock()

	if !hasCoordinate {
		p.notify(snap)
		return
	}
	p.fetch(ctx)
}

// View renders the loaded bundle in the units it was fetched with.
func (p *Page) View(now time.Time, loc *time.Location) (display.WeatherView, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bundle == nil {
		return display.WeatherView{}, false
	}
	v := display.BuildView(*p.bundle, p.bundleUnits, now, loc)
	if p.place != "" {
		v.Place = p.place
	}
	return v, true
}

// PreferencesUpdate returns the selected units and place for saving. The
// place is the geocoding result as received; a bare device position is
// saved with coordinates only.
func (p *Page) PreferencesUpdate() prefs.Update {
	p.mu.Lock()
	defer p.mu.Unlock()

	units := string(p.units)
	u := prefs.Update{Units: &units}
	switch {
	case p.location != nil:
		loc := *p.location
		u.LastLocation = &loc
	case p.coordinate != nil:
		u.LastLocation = &geo.Location{Lat: p.coordinate.Latitude, Lon: p.coordinate.Longitude}
	}
	return u
}

func (p *Page) fetch(ctx context.Context) {
	p.mu.Lock()
	p.seq++
	token := p.seq
	at := *p.coordinate
	units := p.units
	p.state = Loading
	snap := p.snapshot()
	p.mu.Unlock()
	p.notify(snap)

	bundle, err := p.backend.Weather(ctx, at, units)

	p.mu.Lock()
	if token != p.seq {
		// superseded by a newer selection or toggle
		p.mu.Unlock()
		return
	}
	if err != nil {
		p.logger.Warnw("weather fetch failed", "coordinate", at.String(), "units", units, "error", err)
		switch {
		case p.bundle != nil:
			p.state = Loaded
		case p.errMsg != "":
			p.state = IdleWithError
		default:
			p.state = Idle
		}
	} else {
		p.bundle = &bundle
		p.bundleUnits = units
		p.state = Loaded
	}
	snap = p.snapshot()
	p.mu.Unlock()
	p.notify(snap)
}

func (p *Page) snapshot() Snapshot {
	s := Snapshot{
		State:       p.state,
		Place:       p.place,
		Units:       p.units,
		BundleUnits: p.bundleUnits,
		Bundle:      p.bundle,
		Theme:       p.theme,
		Error:       p.errMsg,
	}
	if p.coordinate != nil {
		at := *p.coordinate
		s.Coordinate = &at
	}
	if p.location != nil {
		loc := *p.location
		s.Location = &loc
	}
	return s
}

func (p *Page) notify(s Snapshot) {
	if p.OnChange != nil {
		p.OnChange(s)
	}
}
