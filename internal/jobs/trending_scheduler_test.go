package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// blockingRunner blocks inside RunFullRecompute until released, so
// tests can hold a run in flight
type blockingRunner struct {
	mu      sync.Mutex
	runs    int
	release chan struct{}
	err     error
}

func (r *blockingRunner) RunFullRecompute(ctx context.Context) (int64, error) {
	r.mu.Lock()
	r.runs++
	r.mu.Unlock()
	if r.release != nil {
		<-r.release
	}
	return 0, r.err
}

func (r *blockingRunner) runCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

// TestOverlappingTickDropped verifies a tick arriving while a run is in
// flight is dropped, not queued
func TestOverlappingTickDropped(t *testing.T) {
	runner := &blockingRunner{release: make(chan struct{})}
	scheduler, err := NewTrendingScheduler(runner, time.Hour)
	if err != nil {
		t.Fatalf("Failed to create scheduler: %v", err)
	}

	started := make(chan struct{})
	go func() {
		close(started)
		scheduler.runOnce()
	}()
	<-started

	// Wait until the first run is actually inside the pipeline
	deadline := time.After(time.Second)
	for runner.runCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("First run never started")
		case <-time.After(time.Millisecond):
		}
	}

	// A second tick while running must be dropped
	scheduler.runOnce()
	if runner.runCount() != 1 {
		t.Errorf("Expected overlapping tick to be dropped, got %d runs", runner.runCount())
	}

	close(runner.release)
}

// TestSchedulerSurvivesFailedRun verifies a failed run returns the
// scheduler to idle and the next tick runs normally
func TestSchedulerSurvivesFailedRun(t *testing.T) {
	runner := &blockingRunner{err: errors.New("store unavailable")}
	scheduler, err := NewTrendingScheduler(runner, time.Hour)
	if err != nil {
		t.Fatalf("Failed to create scheduler: %v", err)
	}

	scheduler.runOnce()
	scheduler.runOnce()

	if runner.runCount() != 2 {
		t.Errorf("Expected both ticks to run after a failure, got %d", runner.runCount())
	}
	if scheduler.running.Load() {
		t.Error("Expected scheduler to return to idle after a failed run")
	}
}

// TestStartAndStop verifies the interval job registers and shuts down cleanly
func TestStartAndStop(t *testing.T) {
	runner := &blockingRunner{}
	scheduler, err := NewTrendingScheduler(runner, time.Hour)
	if err != nil {
		t.Fatalf("Failed to create scheduler: %v", err)
	}

	if err := scheduler.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start scheduler: %v", err)
	}
	if err := scheduler.Stop(); err != nil {
		t.Fatalf("Failed to stop scheduler: %v", err)
	}
}
