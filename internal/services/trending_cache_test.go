package services

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"tunestream/internal/models"
)

// fakeBackend is an in-memory CacheBackend with real expirations
type fakeBackend struct {
	mu      sync.Mutex
	entries map[string]fakeEntry
	sets    int
	fail    bool
}

type fakeEntry struct {
	value     []byte
	expiresAt time.Time
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{entries: make(map[string]fakeEntry)}
}

func (f *fakeBackend) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("backend down")
	}
	entry, ok := f.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, redis.Nil
	}
	return entry.value, nil
}

func (f *fakeBackend) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("backend down")
	}
	f.entries[key] = fakeEntry{value: value, expiresAt: time.Now().Add(expiration)}
	f.sets++
	return nil
}

func (f *fakeBackend) Delete(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("backend down")
	}
	for _, key := range keys {
		delete(f.entries, key)
	}
	return nil
}

func (f *fakeBackend) FlushDB(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("backend down")
	}
	f.entries = make(map[string]fakeEntry)
	return nil
}

func (f *fakeBackend) setCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets
}

// TestBuildTrendingKey verifies the stable key format
func TestBuildTrendingKey(t *testing.T) {
	tests := []struct {
		name     string
		genre    models.Genre
		limit    int
		offset   int
		expected string
	}{
		{name: "unfiltered", genre: "", limit: 100, offset: 0, expected: "trending_songs:all:100:0"},
		{name: "genre filter", genre: models.GenrePop, limit: 50, offset: 10, expected: "trending_songs:Pop:50:10"},
		{name: "multi-word genre", genre: models.GenreHipHop, limit: 100, offset: 0, expected: "trending_songs:Hip Hop:100:0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := BuildTrendingKey(tt.genre, tt.limit, tt.offset)
			if key != tt.expected {
				t.Errorf("Expected key %q, got %q", tt.expected, key)
			}
		})
	}
}

// TestCacheRoundTrip verifies set-then-get returns the stored payload
func TestCacheRoundTrip(t *testing.T) {
	backend := newFakeBackend()
	cache := NewTrendingCache(backend, 5*time.Minute, time.Second, nil)
	ctx := context.Background()

	payload := []byte(`[{"song_id":"a"}]`)
	cache.Set(ctx, "trending_songs:all:100:0", payload, 0)

	got, ok := cache.Get(ctx, "trending_songs:all:100:0")
	if !ok {
		t.Fatal("Expected cache hit after set")
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Expected payload %q, got %q", payload, got)
	}
}

// TestCacheTTLExpiry verifies an entry is absent after its TTL elapses
func TestCacheTTLExpiry(t *testing.T) {
	backend := newFakeBackend()
	cache := NewTrendingCache(backend, 5*time.Minute, time.Second, nil)
	ctx := context.Background()

	cache.Set(ctx, "key", []byte("value"), 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	if _, ok := cache.Get(ctx, "key"); ok {
		t.Error("Expected cache miss after TTL expiry")
	}
}

// TestCacheDefaultTTL verifies ttl <= 0 falls back to the default
func TestCacheDefaultTTL(t *testing.T) {
	backend := newFakeBackend()
	cache := NewTrendingCache(backend, 50*time.Millisecond, time.Second, nil)
	ctx := context.Background()

	cache.Set(ctx, "key", []byte("value"), 0)
	if _, ok := cache.Get(ctx, "key"); !ok {
		t.Fatal("Expected hit within default TTL")
	}

	time.Sleep(75 * time.Millisecond)
	if _, ok := cache.Get(ctx, "key"); ok {
		t.Error("Expected miss after default TTL expiry")
	}
}

// TestCacheFailuresSwallowed verifies backend failures never propagate:
// gets report a miss and sets return silently
func TestCacheFailuresSwallowed(t *testing.T) {
	backend := newFakeBackend()
	backend.fail = true
	cache := NewTrendingCache(backend, 5*time.Minute, time.Second, nil)
	ctx := context.Background()

	cache.Set(ctx, "key", []byte("value"), 0)
	if _, ok := cache.Get(ctx, "key"); ok {
		t.Error("Expected miss when backend is failing")
	}
	cache.Delete(ctx, "key")
}

// TestCacheDelete verifies deleted entries are gone
func TestCacheDelete(t *testing.T) {
	backend := newFakeBackend()
	cache := NewTrendingCache(backend, 5*time.Minute, time.Second, nil)
	ctx := context.Background()

	cache.Set(ctx, "key", []byte("value"), 0)
	cache.Delete(ctx, "key")

	if _, ok := cache.Get(ctx, "key"); ok {
		t.Error("Expected miss after delete")
	}
}

// TestCacheClear verifies the administrative wipe removes everything
func TestCacheClear(t *testing.T) {
	backend := newFakeBackend()
	cache := NewTrendingCache(backend, 5*time.Minute, time.Second, nil)
	ctx := context.Background()

	cache.Set(ctx, "a", []byte("1"), 0)
	cache.Set(ctx, "b", []byte("2"), 0)

	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := cache.Get(ctx, "a"); ok {
		t.Error("Expected miss after clear")
	}
	if _, ok := cache.Get(ctx, "b"); ok {
		t.Error("Expected miss after clear")
	}
}
