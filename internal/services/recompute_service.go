package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tunestream/internal/logging"
	"tunestream/internal/models"
)

// scoreStore is the record-store surface the recompute pipeline needs
type scoreStore interface {
	StreamSignals(ctx context.Context, fn func(models.SongSignals) error) error
	BulkUpdateScores(ctx context.Context, updates []models.ScoreUpdate) (int64, error)
}

// refreshEnqueuer hands a warm-refresh unit of work to the background
// worker without blocking the recompute caller
type refreshEnqueuer interface {
	Enqueue()
}

// RecomputeService recalculates trending scores for the entire catalog.
// It streams the catalog through a projected cursor, scores each song
// with the reference time fixed at run start, and flushes score updates
// in bounded batches so peak memory and write amplification stay
// constant regardless of catalog size.
type RecomputeService struct {
	store     scoreStore
	engine    *ScoreEngine
	refresher refreshEnqueuer
	batchSize int
	metrics   *Metrics
}

// NewRecomputeService creates a new recompute service. refresher may be
// nil when no warm refresh should follow (e.g. in tests).
func NewRecomputeService(store scoreStore, engine *ScoreEngine, refresher refreshEnqueuer, batchSize int, metrics *Metrics) *RecomputeService {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &RecomputeService{
		store:     store,
		engine:    engine,
		refresher: refresher,
		batchSize: batchSize,
		metrics:   metrics,
	}
}

// RunFullRecompute recalculates every song's trending score and returns
// the number of songs updated. A bulk-write failure aborts the rest of
// the run; each update is independently idempotent, so an aborted run
// leaves no song in an inconsistent state. On success a warm-refresh
// unit of work is enqueued for the background worker.
func (s *RecomputeService) RunFullRecompute(ctx context.Context) (int64, error) {
	start := time.Now()
	refTime := start.UTC()
	logger := logging.WithRecompute(uuid.NewString())
	logger.Info("starting full catalog recompute")

	var (
		batch   = make([]models.ScoreUpdate, 0, s.batchSize)
		updated int64
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		matched, err := s.store.BulkUpdateScores(ctx, batch)
		if err != nil {
			return err
		}
		updated += matched
		batch = batch[:0]
		if s.metrics != nil {
			s.metrics.RecomputeBatches.Inc()
		}
		return nil
	}

	err := s.store.StreamSignals(ctx, func(signals models.SongSignals) error {
		batch = append(batch, models.ScoreUpdate{
			SongID: signals.SongID,
			Score:  s.engine.Score(signals, refTime),
		})
		if len(batch) >= s.batchSize {
			return flush()
		}
		return nil
	})
	if err == nil {
		err = flush()
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecomputeFailures.Inc()
		}
		logger.Error("recompute aborted", "error", err, "updated", updated)
		return updated, fmt.Errorf("recompute aborted: %w", err)
	}

	duration := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecomputeDuration.Observe(duration.Seconds())
		s.metrics.SongsRescored.Add(float64(updated))
	}
	logger.Info("recompute complete", "updated", updated, "duration", duration.String())

	if s.refresher != nil {
		s.refresher.Enqueue()
	}

	return updated, nil
}
