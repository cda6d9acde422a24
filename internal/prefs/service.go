package prefs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var validate = validator.New()

// Service manages preference sessions on top of a Store.
type Service struct {
	store  Store
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewService creates a new Service.
func NewService(store Store, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Create starts a new session from the defaults with u applied.
func (s *Service) Create(ctx context.Context, u Update) (Preferences, error) {
	if err := validate.Struct(u); err != nil {
		return Preferences{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	p := u.Apply(Default())
	p.ID = uuid.NewString()
	p.UpdatedAt = s.now().UTC()

	if err := s.store.Save(ctx, p); err != nil {
		return Preferences{}, fmt.Errorf("save preferences: %w", err)
	}
	s.logger.Debugw("preferences created", "id", p.ID)
	return p, nil
}

// Get returns the stored preferences for id.
func (s *Service) Get(ctx context.Context, id string) (Preferences, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Preferences{}, ErrNotFound
	}
	return s.store.Get(ctx, id)
}

// Update merges u into the stored preferences for id.
func (s *Service) Update(ctx context.Context, id string, u Update) (Preferences, error) {
	if err := validate.Struct(u); err != nil {
		return Preferences{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return Preferences{}, err
	}

	p := u.Apply(current)
	p.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, p); err != nil {
		return Preferences{}, fmt.Errorf("save preferences: %w", err)
	}
	return p, nil
}

// Prune removes sessions not updated within maxAge and returns how many.
func (s *Service) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	n, err := s.store.DeleteOlderThan(ctx, s.now().Add(-maxAge).UTC())
	if err != nil {
		return 0, fmt.Errorf("prune preferences: %w", err)
	}
	if n > 0 {
		s.logger.Infow("pruned stale preferences", "count", n, "maxAge", maxAge.String())
	}
	return n, nil
}
