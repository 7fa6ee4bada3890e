package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"tunestream/internal/models"
)

// CacheBackend is the minimal key/value surface the trending cache
// needs. *RedisService satisfies it; tests use an in-memory fake.
type CacheBackend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	FlushDB(ctx context.Context) error
}

// TrendingCache is the cache-aside layer for trending query results.
// Values are opaque byte payloads; the cache never interprets contents.
// Every operation failure is logged and swallowed: a cache outage must
// never surface as a request failure, callers fall through to the store.
type TrendingCache struct {
	backend    CacheBackend
	defaultTTL time.Duration
	opTimeout  time.Duration
	metrics    *Metrics
}

// NewTrendingCache creates a new trending cache layer
func NewTrendingCache(backend CacheBackend, defaultTTL, opTimeout time.Duration, metrics *Metrics) *TrendingCache {
	return &TrendingCache{
		backend:    backend,
		defaultTTL: defaultTTL,
		opTimeout:  opTimeout,
		metrics:    metrics,
	}
}

// BuildTrendingKey builds the deterministic cache key for a query shape.
// The format must stay stable for interoperability with pre-warmed entries.
func BuildTrendingKey(genre models.Genre, limit, offset int) string {
	g := string(genre)
	if g == "" {
		g = "all"
	}
	return fmt.Sprintf("trending_songs:%s:%d:%d", g, limit, offset)
}

// DefaultTTL returns the configured default expiration
func (c *TrendingCache) DefaultTTL() time.Duration {
	return c.defaultTTL
}

// Get retrieves a cached payload. The second return value is false on a
// miss or on any backend failure; failures are logged and swallowed.
func (c *TrendingCache) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	value, err := c.backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.countMiss()
			return nil, false
		}
		log.Printf("⚠️ [CACHE] Get failed for %s: %v", key, err)
		c.countError("get")
		return nil, false
	}

	c.countHit()
	return value, true
}

// Set stores a payload with the given TTL, or the default TTL when
// ttl <= 0. Best-effort: a failed write is logged and swallowed.
func (c *TrendingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.backend.Set(ctx, key, value, ttl); err != nil {
		log.Printf("⚠️ [CACHE] Set failed for %s: %v", key, err)
		c.countError("set")
	}
}

// Delete removes a cache entry
func (c *TrendingCache) Delete(ctx context.Context, key string) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.backend.Delete(ctx, key); err != nil {
		log.Printf("⚠️ [CACHE] Delete failed for %s: %v", key, err)
		c.countError("delete")
	}
}

// Clear wipes the entire cache. Administrative and test use only,
// never called from request-serving paths.
func (c *TrendingCache) Clear(ctx context.Context) error {
	return c.backend.FlushDB(ctx)
}

func (c *TrendingCache) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.opTimeout)
}

func (c *TrendingCache) countHit() {
	if c.metrics != nil {
		c.metrics.CacheHits.Inc()
	}
}

func (c *TrendingCache) countMiss() {
	if c.metrics != nil {
		c.metrics.CacheMisses.Inc()
	}
}

func (c *TrendingCache) countError(op string) {
	if c.metrics != nil {
		c.metrics.CacheErrors.WithLabelValues(op).Inc()
	}
}
