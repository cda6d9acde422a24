package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// SearchLimit is the number of candidates requested from direct geocoding.
const SearchLimit = 5

// Service answers location lookups from the configured geocoder, or from the
// sample data set when no geocoder is configured.
type Service struct {
	primary  Geocoder
	fallback Geocoder
	cache    Cache
	logger   *zap.SugaredLogger
}

// Option customises a Service.
type Option func(*Service)

// WithCache stores successful upstream answers in c.
func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithLogger sets the service logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a Service. A nil primary makes every lookup answer from
// SampleGeocoder.
func NewService(primary Geocoder, opts ...Option) *Service {
	s := &Service{
		primary:  primary,
		fallback: SampleGeocoder{},
		logger:   zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UsingSample reports whether lookups are served from the sample data set.
func (s *Service) UsingSample() bool {
	return s.primary == nil
}

// Search returns the JSON array of candidates matching query.
func (s *Service) Search(ctx context.Context, query string) (json.RawMessage, error) {
	if s.primary == nil {
		return s.fallback.Search(ctx, query, SearchLimit)
	}
	key := "search:" + strings.ToLower(strings.TrimSpace(query))
	return s.cached(ctx, key, func() (json.RawMessage, error) {
		return s.primary.Search(ctx, query, SearchLimit)
	})
}

// Reverse returns the JSON location nearest to c, or null.
func (s *Service) Reverse(ctx context.Context, c Coordinate) (json.RawMessage, error) {
	if s.primary == nil {
		return s.fallback.Reverse(ctx, c)
	}
	return s.cached(ctx, "reverse:"+c.String(), func() (json.RawMessage, error) {
		return s.primary.Reverse(ctx, c)
	})
}

func (s *Service) cached(ctx context.Context, key string, fetch func() (json.RawMessage, error)) (json.RawMessage, error) {
	if s.cache != nil {
		raw, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warnw("lookup cache read failed", "key", key, "error", err)
		} else if ok {
			return raw, nil
		}
	}

	raw, err := fetch()
	if err != nil {
		return nil, fmt.Errorf("geocode %s: %w", key, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, raw); err != nil {
			s.logger.Warnw("lookup cache write failed", "key", key, "error", err)
		}
	}
	return raw, nil
}
