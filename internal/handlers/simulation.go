package handlers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"tunestream/internal/models"
	"tunestream/internal/services"
)

// simulationStore is the record-store surface the simulation paths need
type simulationStore interface {
	InsertMany(ctx context.Context, songs []models.Song) error
	TopTrending(ctx context.Context, limit, offset int, genre models.Genre) ([]models.Song, error)
	BulkUpdatePlayback(ctx context.Context, songs []models.Song) error
}

// SimulationHandler handles seed-data generation and streaming simulation
type SimulationHandler struct {
	store     simulationStore
	recompute recomputeRunner
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(store simulationStore, recompute recomputeRunner) *SimulationHandler {
	return &SimulationHandler{
		store:     store,
		recompute: recompute,
	}
}

// GenerateSongs seeds the catalog with synthetic songs and recomputes
// scores so the new entries rank immediately
func (h *SimulationHandler) GenerateSongs(c *fiber.Ctx) error {
	count := c.QueryInt("count", 100)
	if count < 1 || count > 100000 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "count must be between 1 and 100000",
		})
	}

	ctx := c.Context()
	songs := services.GenerateSongs(count)

	if err := h.store.InsertMany(ctx, songs); err != nil {
		log.Printf("❌ [SIMULATION] Failed to insert seed songs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to insert songs",
		})
	}

	updated, err := h.recompute.RunFullRecompute(ctx)
	if err != nil {
		log.Printf("❌ [SIMULATION] Recompute after seeding failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "songs inserted but recompute failed",
		})
	}

	return c.JSON(fiber.Map{
		"status":   "success",
		"inserted": len(songs),
		"updated":  updated,
	})
}

// SimulateStreaming bumps the signals of the current top songs, writes
// them back and recomputes, so score movement is observable
func (h *SimulationHandler) SimulateStreaming(c *fiber.Ctx) error {
	ctx := c.Context()

	songs, err := h.store.TopTrending(ctx, 100, 0, "")
	if err != nil {
		log.Printf("❌ [SIMULATION] Failed to load top songs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load top songs",
		})
	}
	if len(songs) > 5 {
		songs = songs[:5]
	}

	songs = services.SimulateStreaming(songs)

	if err := h.store.BulkUpdatePlayback(ctx, songs); err != nil {
		log.Printf("❌ [SIMULATION] Failed to write playback updates: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update playback data",
		})
	}

	updated, err := h.recompute.RunFullRecompute(ctx)
	if err != nil {
		log.Printf("❌ [SIMULATION] Recompute after simulation failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "playback updated but recompute failed",
		})
	}

	return c.JSON(fiber.Map{
		"status":    "success",
		"simulated": len(songs),
		"updated":   updated,
	})
}
