package jobs

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// RecomputeRunner is the pipeline surface the scheduler drives
type RecomputeRunner interface {
	RunFullRecompute(ctx context.Context) (int64, error)
}

// TrendingScheduler fires the full-catalog recompute on a fixed
// interval, guaranteeing at most one run in flight: a tick that arrives
// while a run is still going is dropped, not queued. A failed run is
// logged and the timer keeps firing.
type TrendingScheduler struct {
	scheduler gocron.Scheduler
	recompute RecomputeRunner
	interval  time.Duration
	running   atomic.Bool
	ctx       context.Context
}

// NewTrendingScheduler creates a new trending scheduler
func NewTrendingScheduler(recompute RecomputeRunner, interval time.Duration) (*TrendingScheduler, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &TrendingScheduler{
		scheduler: scheduler,
		recompute: recompute,
		interval:  interval,
	}, nil
}

// Start registers the interval job and starts the scheduler
func (s *TrendingScheduler) Start(ctx context.Context) error {
	s.ctx = ctx

	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.runOnce),
		gocron.WithName("trending-recompute"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to register recompute job: %w", err)
	}

	s.scheduler.Start()
	log.Printf("⏰ [SCHEDULER] Trending recompute scheduled every %v", s.interval)
	return nil
}

// Stop shuts the scheduler down, waiting for an in-flight run
func (s *TrendingScheduler) Stop() error {
	log.Println("⏹️ [SCHEDULER] Stopping trending scheduler...")
	return s.scheduler.Shutdown()
}

// runOnce executes a single scheduled recompute. The atomic guard keeps
// the Idle -> Running -> Idle transitions explicit even if the ticker
// and a manual trigger race.
func (s *TrendingScheduler) runOnce() {
	if !s.running.CompareAndSwap(false, true) {
		log.Println("⚠️ [SCHEDULER] Recompute still running, dropping tick")
		return
	}
	defer s.running.Store(false)

	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := s.recompute.RunFullRecompute(ctx); err != nil {
		log.Printf("❌ [SCHEDULER] Scheduled recompute failed: %v", err)
	}
}
