package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// pinger checks a dependency's liveness
type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	mongo pinger
	redis pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(mongo, redis pinger) *HealthHandler {
	return &HealthHandler{mongo: mongo, redis: redis}
}

// Handle responds with server health status. A Redis outage degrades
// the service (reads fall through to the store) but does not make it
// unhealthy; a store outage does.
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	code := fiber.StatusOK

	mongoStatus := "up"
	if err := h.mongo.Ping(ctx); err != nil {
		mongoStatus = "down"
		status = "unhealthy"
		code = fiber.StatusServiceUnavailable
	}

	redisStatus := "up"
	if err := h.redis.Ping(ctx); err != nil {
		redisStatus = "down"
		if status == "healthy" {
			status = "degraded"
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    status,
		"mongodb":   mongoStatus,
		"redis":     redisStatus,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
