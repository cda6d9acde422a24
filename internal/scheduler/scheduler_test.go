package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct{ calls atomic.Int32 }

func (c *countingSweeper) Sweep(time.Time) int {
	c.calls.Add(1)
	return 1
}

type recordingPruner struct {
	calls  atomic.Int32
	maxAge atomic.Int64
	err    error
}

func (p *recordingPruner) Prune(_ context.Context, maxAge time.Duration) (int64, error) {
	p.calls.Add(1)
	p.maxAge.Store(int64(maxAge))
	return 0, p.err
}

func TestJobsCallTargets(t *testing.T) {
	sw := &countingSweeper{}
	pr := &recordingPruner{err: errors.New("locked")}
	s := New(Config{Sweeper: sw, Pruner: pr, MaxAge: time.Hour}, nil)

	s.sweepCache()
	s.prunePreferences()

	assert.Equal(t, int32(1), sw.calls.Load())
	assert.Equal(t, int32(1), pr.calls.Load())
	assert.Equal(t, int64(time.Hour), pr.maxAge.Load())
}

func TestStartWithoutJobs(t *testing.T) {
	s := New(Config{}, nil)
	require.NoError(t, s.Start())
	s.Stop()
}

func TestStartRunsSweep(t *testing.T) {
	sw := &countingSweeper{}
	s := New(Config{Sweeper: sw, SweepInterval: time.Hour}, nil)
	require.NoError(t, s.Start())
	defer s.Stop()

	// gocron runs an interval job once immediately on start.
	assert.Eventually(t, func() bool { return sw.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}
