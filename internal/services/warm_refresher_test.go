package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tunestream/internal/models"
)

// fakeHotStore serves canned results per genre and records the shapes queried
type fakeHotStore struct {
	songsByGenre map[models.Genre][]models.Song
	failGenres   map[models.Genre]bool
	queries      []string
}

func (f *fakeHotStore) TopTrending(ctx context.Context, limit, offset int, genre models.Genre) ([]models.Song, error) {
	f.queries = append(f.queries, BuildTrendingKey(genre, limit, offset))
	if f.failGenres[genre] {
		return nil, errors.New("store unavailable")
	}
	return f.songsByGenre[genre], nil
}

func sampleSongs(genre models.Genre, n int) []models.Song {
	songs := make([]models.Song, 0, n)
	for i := 0; i < n; i++ {
		songs = append(songs, models.Song{
			SongID:   string(genre) + "-song",
			Genre:    genre,
			IsActive: true,
		})
	}
	return songs
}

// TestRefreshHotPathsWriteCount verifies {Pop, Rock} plus the
// unfiltered shape produce exactly 3 cache writes
func TestRefreshHotPathsWriteCount(t *testing.T) {
	store := &fakeHotStore{
		songsByGenre: map[models.Genre][]models.Song{
			"":               sampleSongs("", 3),
			models.GenrePop:  sampleSongs(models.GenrePop, 2),
			models.GenreRock: sampleSongs(models.GenreRock, 2),
		},
	}
	backend := newFakeBackend()
	cache := NewTrendingCache(backend, 5*time.Minute, time.Second, nil)

	refresher := NewWarmRefresher(store, cache, []models.Genre{models.GenrePop, models.GenreRock}, 0, nil)
	refresher.RefreshHotPaths(context.Background())

	if backend.sets != 3 {
		t.Errorf("Expected exactly 3 cache writes, got %d", backend.sets)
	}

	for _, key := range []string{
		"trending_songs:all:100:0",
		"trending_songs:Pop:100:0",
		"trending_songs:Rock:100:0",
	} {
		if _, ok := cache.Get(context.Background(), key); !ok {
			t.Errorf("Expected warm entry for %s", key)
		}
	}
}

// TestRefreshErrorIsolation verifies one failing combination never
// aborts the remaining ones
func TestRefreshErrorIsolation(t *testing.T) {
	store := &fakeHotStore{
		songsByGenre: map[models.Genre][]models.Song{
			"":               sampleSongs("", 1),
			models.GenreRock: sampleSongs(models.GenreRock, 1),
		},
		failGenres: map[models.Genre]bool{models.GenrePop: true},
	}
	backend := newFakeBackend()
	cache := NewTrendingCache(backend, 5*time.Minute, time.Second, nil)

	refresher := NewWarmRefresher(store, cache, []models.Genre{models.GenrePop, models.GenreRock}, 0, nil)
	refresher.RefreshHotPaths(context.Background())

	if len(store.queries) != 3 {
		t.Errorf("Expected all 3 combinations queried, got %d", len(store.queries))
	}
	if backend.sets != 2 {
		t.Errorf("Expected 2 cache writes despite one failure, got %d", backend.sets)
	}
}

// TestRefreshSkipsEmptyResults verifies empty query results are not cached
func TestRefreshSkipsEmptyResults(t *testing.T) {
	store := &fakeHotStore{songsByGenre: map[models.Genre][]models.Song{}}
	backend := newFakeBackend()
	cache := NewTrendingCache(backend, 5*time.Minute, time.Second, nil)

	refresher := NewWarmRefresher(store, cache, []models.Genre{models.GenrePop}, 0, nil)
	refresher.RefreshHotPaths(context.Background())

	if backend.sets != 0 {
		t.Errorf("Expected no cache writes for empty results, got %d", backend.sets)
	}
}

// TestEnqueueCoalesces verifies pending refreshes coalesce instead of queueing
func TestEnqueueCoalesces(t *testing.T) {
	refresher := NewWarmRefresher(&fakeHotStore{}, nil, nil, 0, nil)

	// Without a running worker, repeated enqueues must not block
	done := make(chan struct{})
	go func() {
		refresher.Enqueue()
		refresher.Enqueue()
		refresher.Enqueue()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked instead of coalescing")
	}
}

// TestWorkerConsumesQueue verifies the background worker picks up an
// enqueued refresh and performs the cache writes
func TestWorkerConsumesQueue(t *testing.T) {
	store := &fakeHotStore{
		songsByGenre: map[models.Genre][]models.Song{
			"": sampleSongs("", 1),
		},
	}
	backend := newFakeBackend()
	cache := NewTrendingCache(backend, 5*time.Minute, time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	refresher := NewWarmRefresher(store, cache, nil, 0, nil)
	refresher.Start(ctx)

	refresher.Enqueue()

	deadline := time.After(time.Second)
	for backend.setCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("Worker never performed the refresh")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	refresher.Wait()
}
