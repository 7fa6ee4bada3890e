package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"tunestream/internal/services"
)

// StatsHandler serves catalog statistics
type StatsHandler struct {
	stats *services.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(stats *services.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// GetStats returns catalog-wide counts
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.stats.Stats(c.Context())
	if err != nil {
		log.Printf("❌ [STATS] Failed to load catalog stats: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load catalog stats",
		})
	}
	return c.JSON(stats)
}
