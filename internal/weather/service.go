package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/weather-dashboard/internal/geo"
)

// ErrNotConfigured is returned when no upstream provider is available.
var ErrNotConfigured = errors.New("weather provider not configured")

// Service fetches current conditions and forecast together.
type Service struct {
	provider Provider
	logger   *zap.SugaredLogger
}

// NewService creates a new Service. A nil provider makes every fetch fail
// with ErrNotConfigured.
func NewService(provider Provider, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		provider: provider,
		logger:   logger,
	}
}

// Configured reports whether a provider is set.
func (s *Service) Configured() bool {
	return s.provider != nil
}

// Bundle requests current conditions and forecast concurrently and returns
// both, or an error if either failed. A partial result is never returned.
func (s *Service) Bundle(ctx context.Context, at geo.Coordinate, units Units) (RawBundle, error) {
	if s.provider == nil {
		return RawBundle{}, ErrNotConfigured
	}

	var current, forecast json.RawMessage
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		raw, err := s.provider.Current(gctx, at, units)
		if err != nil {
			return fmt.Errorf("current conditions: %w", err)
		}
		current = raw
		return nil
	})
	g.Go(func() error {
		raw, err := s.provider.Forecast(gctx, at, units)
		if err != nil {
			return fmt.Errorf("forecast: %w", err)
		}
		forecast = raw
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Errorw("weather fetch failed",
			"provider", s.provider.Name(),
			"coordinate", at.String(),
			"units", units,
			"error", err,
		)
		return RawBundle{}, err
	}

	return RawBundle{Current: current, Forecast: forecast}, nil
}
