package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"tunestream/internal/models"
)

// hotPathLister is the record-store surface the warm refresher needs
type hotPathLister interface {
	TopTrending(ctx context.Context, limit, offset int, genre models.Genre) ([]models.Song, error)
}

// Hot query shapes: the first page at the common page size is the bulk
// of read traffic, for the unfiltered list and for each genre.
var (
	hotLimits  = []int{100}
	hotOffsets = []int{0}
)

// WarmRefresher re-populates the trending cache for the fixed set of
// hot query shapes after each successful recompute. It runs as a
// dedicated background worker consuming an explicit queue, so the
// recompute pipeline returns control immediately after its own writes
// and the two failure domains stay decoupled.
type WarmRefresher struct {
	store   hotPathLister
	cache   *TrendingCache
	genres  []models.Genre
	pause   time.Duration
	queue   chan struct{}
	done    chan struct{}
	metrics *Metrics
}

// NewWarmRefresher creates a new warm refresher for the given genres
func NewWarmRefresher(store hotPathLister, cache *TrendingCache, genres []models.Genre, pause time.Duration, metrics *Metrics) *WarmRefresher {
	return &WarmRefresher{
		store:   store,
		cache:   cache,
		genres:  genres,
		pause:   pause,
		queue:   make(chan struct{}, 1),
		done:    make(chan struct{}),
		metrics: metrics,
	}
}

// Enqueue hands a refresh unit of work to the worker. Non-blocking: if
// a refresh is already pending, the request is coalesced into it.
func (w *WarmRefresher) Enqueue() {
	select {
	case w.queue <- struct{}{}:
	default:
	}
}

// Start launches the background worker. It exits when ctx is cancelled.
func (w *WarmRefresher) Start(ctx context.Context) {
	go func() {
		defer close(w.done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.queue:
				w.RefreshHotPaths(ctx)
			}
		}
	}()
	log.Println("✅ [WARM-REFRESH] Background worker started")
}

// Wait blocks until the worker has exited
func (w *WarmRefresher) Wait() {
	<-w.done
}

// RefreshHotPaths queries the store for every hot query shape and
// writes the results through to the cache. Combinations run
// sequentially with a small pause in between to bound load on the
// store; a failure on one combination never aborts the rest.
func (w *WarmRefresher) RefreshHotPaths(ctx context.Context) {
	log.Println("🔥 [WARM-REFRESH] Refreshing hot cache entries")

	// "" is the unfiltered shape
	genres := append([]models.Genre{""}, w.genres...)

	refreshed := 0
	for i, genre := range genres {
		for _, limit := range hotLimits {
			for _, offset := range hotOffsets {
				if i > 0 && w.pause > 0 {
					select {
					case <-ctx.Done():
						return
					case <-time.After(w.pause):
					}
				}
				if w.refreshOne(ctx, genre, limit, offset) {
					refreshed++
				}
			}
		}
	}

	log.Printf("✅ [WARM-REFRESH] Refreshed %d hot cache entries", refreshed)
}

// refreshOne refreshes a single query shape, reporting whether a cache
// write happened
func (w *WarmRefresher) refreshOne(ctx context.Context, genre models.Genre, limit, offset int) bool {
	key := BuildTrendingKey(genre, limit, offset)

	songs, err := w.store.TopTrending(ctx, limit, offset, genre)
	if err != nil {
		log.Printf("⚠️ [WARM-REFRESH] Failed to refresh %s: %v", key, err)
		return false
	}
	if len(songs) == 0 {
		return false
	}

	payload, err := json.Marshal(songs)
	if err != nil {
		log.Printf("⚠️ [WARM-REFRESH] Failed to serialize %s: %v", key, err)
		return false
	}

	w.cache.Set(ctx, key, payload, w.cache.DefaultTTL())
	if w.metrics != nil {
		w.metrics.WarmRefreshWrites.Inc()
	}
	return true
}
