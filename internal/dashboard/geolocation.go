package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/i474232898/weather-dashboard/internal/geo"
)

// PositionOptions mirrors the options of a host location API.
type PositionOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration
}

// DefaultPositionOptions asks for a fresh, precise fix within five seconds.
var DefaultPositionOptions = PositionOptions{
	HighAccuracy: true,
	Timeout:      5 * time.Second,
	MaximumAge:   0,
}

// Locator provides the device position.
type Locator interface {
	CurrentPosition(ctx context.Context, opts PositionOptions) (geo.Coordinate, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context, opts PositionOptions) (geo.Coordinate, error)

func (f LocatorFunc) CurrentPosition(ctx context.Context, opts PositionOptions) (geo.Coordinate, error) {
	return f(ctx, opts)
}

// StaticLocator always reports the same position.
type StaticLocator geo.Coordinate

func (l StaticLocator) CurrentPosition(context.Context, PositionOptions) (geo.Coordinate, error) {
	return geo.Coordinate(l), nil
}

// Errors a Locator returns to report why no position is available.
var (
	ErrPermissionDenied    = errors.New("permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrPositionTimeout     = errors.New("position timeout")
)

type GeolocationErrorKind int

const (
	Unknown GeolocationErrorKind = iota
	PermissionDenied
	PositionUnavailable
	Timeout
)

const msgUnsupported = "Geolocation is not supported by your browser"

var geolocationMessages = map[GeolocationErrorKind]string{
	PermissionDenied:    "Location access was denied. Please enable location services for accurate weather data.",
	PositionUnavailable: "Location information is unavailable.",
	Timeout:             "The request to get user location timed out.",
	Unknown:             "An unknown error occurred when trying to get your location.",
}

// GeolocationError is a classified position failure. Error returns the
// message shown to the user.
type GeolocationError struct {
	Kind    GeolocationErrorKind
	Message string
	Err     error
}

func (e *GeolocationError) Error() string {
	return e.Message
}

func (e *GeolocationError) Unwrap() error {
	return e.Err
}

func classify(err error) *GeolocationError {
	kind := Unknown
	switch {
	case errors.Is(err, ErrPermissionDenied):
		kind = PermissionDenied
	case errors.Is(err, ErrPositionUnavailable):
		kind = PositionUnavailable
	case errors.Is(err, ErrPositionTimeout), errors.Is(err, context.DeadlineExceeded):
		kind = Timeout
	}
	return &GeolocationError{Kind: kind, Message: geolocationMessages[kind], Err: err}
}

// AcquirePosition asks l for the position once, with DefaultPositionOptions.
func AcquirePosition(ctx context.Context, l Locator) (geo.Coordinate, error) {
	return AcquirePositionWith(ctx, l, DefaultPositionOptions)
}

// AcquirePositionWith asks l for the position once. There is no retry. A
// locator that has not answered when opts.Timeout elapses is reported as
// Timeout.
func AcquirePositionWith(ctx context.Context, l Locator, opts PositionOptions) (geo.Coordinate, error) {
	if l == nil {
		return geo.Coordinate{}, &GeolocationError{Kind: Unknown, Message: msgUnsupported}
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	type result struct {
		at  geo.Coordinate
		err error
	}
	done := make(chan result, 1)
	go func() {
		at, err := l.CurrentPosition(ctx, opts)
		done <- result{at, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return geo.Coordinate{}, classify(r.err)
		}
		return r.at, nil
	case <-ctx.Done():
		return geo.Coordinate{}, classify(ctx.Err())
	}
}
