package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Sweeper drops expired cache entries.
type Sweeper interface {
	Sweep(now time.Time) int
}

// Pruner removes preference sessions older than maxAge.
type Pruner interface {
	Prune(ctx context.Context, maxAge time.Duration) (int64, error)
}

// Scheduler runs housekeeping jobs: lookup cache sweeping and stale
// preference pruning. Either job is skipped when its target is nil.
type Scheduler struct {
	scheduler *gocron.Scheduler
	logger    *zap.SugaredLogger

	sweeper       Sweeper
	sweepInterval time.Duration

	pruner        Pruner
	pruneInterval time.Duration
	maxAge        time.Duration
}

// Config holds job targets and intervals.
type Config struct {
	Sweeper       Sweeper
	SweepInterval time.Duration

	Pruner        Pruner
	PruneInterval time.Duration
	MaxAge        time.Duration
}

// New creates a new Scheduler.
func New(cfg Config, logger *zap.SugaredLogger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler:     s,
		logger:        logger,
		sweeper:       cfg.Sweeper,
		sweepInterval: cfg.SweepInterval,
		pruner:        cfg.Pruner,
		pruneInterval: cfg.PruneInterval,
		maxAge:        cfg.MaxAge,
	}
}

// Start schedules the jobs and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	jobs := 0

	if s.sweeper != nil && s.sweepInterval > 0 {
		if _, err := s.scheduler.Every(s.sweepInterval).Do(s.sweepCache); err != nil {
			return err
		}
		jobs++
	}

	if s.pruner != nil && s.pruneInterval > 0 && s.maxAge > 0 {
		if _, err := s.scheduler.Every(s.pruneInterval).Do(s.prunePreferences); err != nil {
			return err
		}
		jobs++
	}

	if jobs == 0 {
		s.logger.Info("no housekeeping jobs configured; nothing to schedule")
		return nil
	}

	s.scheduler.StartAsync()
	s.logger.Infow("scheduler started", "jobs", jobs)
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) sweepCache() {
	removed := s.sweeper.Sweep(time.Now())
	if removed > 0 {
		s.logger.Debugw("swept lookup cache", "removed", removed)
	}
}

func (s *Scheduler) prunePreferences() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.pruner.Prune(ctx, s.maxAge); err != nil {
		s.logger.Errorw("preference pruning failed", "error", err)
	}
}
