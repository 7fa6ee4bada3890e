package handlers

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"

	"tunestream/internal/models"
	"tunestream/internal/services"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

// trendingStore is the record-store surface the read path needs
type trendingStore interface {
	TopTrending(ctx context.Context, limit, offset int, genre models.Genre) ([]models.Song, error)
}

// recomputeRunner triggers a full catalog recompute
type recomputeRunner interface {
	RunFullRecompute(ctx context.Context) (int64, error)
}

// TrendingHandler handles trending song requests
type TrendingHandler struct {
	store     trendingStore
	cache     *services.TrendingCache
	recompute recomputeRunner
}

// NewTrendingHandler creates a new trending handler
func NewTrendingHandler(store trendingStore, cache *services.TrendingCache, recompute recomputeRunner) *TrendingHandler {
	return &TrendingHandler{
		store:     store,
		cache:     cache,
		recompute: recompute,
	}
}

// GetTrendingSongs serves the ranked list cache-aside: check the cache,
// fall through to the store on miss or cache failure, and repopulate
// the cache best-effort. Cache problems never fail the request.
func (h *TrendingHandler) GetTrendingSongs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultLimit)
	if limit < 1 || limit > maxLimit {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must be between 1 and 500",
		})
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "offset must not be negative",
		})
	}

	var genre models.Genre
	if g := c.Query("genre"); g != "" {
		if !models.IsValidGenre(g) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "unknown genre: " + g,
			})
		}
		genre = models.Genre(g)
	}

	ctx := c.Context()
	key := services.BuildTrendingKey(genre, limit, offset)

	if payload, ok := h.cache.Get(ctx, key); ok {
		return c.Type("json").Send(payload)
	}

	songs, err := h.store.TopTrending(ctx, limit, offset, genre)
	if err != nil {
		log.Printf("❌ [TRENDING] Store query failed for %s: %v", key, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to retrieve trending songs",
		})
	}
	if songs == nil {
		songs = []models.Song{}
	}

	// Only cache non-empty results
	if len(songs) > 0 {
		if payload, err := json.Marshal(songs); err == nil {
			h.cache.Set(ctx, key, payload, 0)
		}
	}

	return c.JSON(songs)
}

// TriggerRecompute runs a full recompute and reports an explicit
// result either way, including the number of songs updated.
func (h *TrendingHandler) TriggerRecompute(c *fiber.Ctx) error {
	updated, err := h.recompute.RunFullRecompute(c.Context())
	if err != nil {
		log.Printf("❌ [TRENDING] Manual recompute failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "trending recompute failed",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "trending scores updated, cache refresh queued",
		"updated": updated,
	})
}

// ClearCache wipes the trending cache. Administrative use only.
func (h *TrendingHandler) ClearCache(c *fiber.Ctx) error {
	if err := h.cache.Clear(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "failed to clear cache",
		})
	}
	return c.JSON(fiber.Map{"status": "success"})
}
