package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	// Read endpoint limits (per IP) - cacheable, cheap
	ReadMax        int
	ReadExpiration time.Duration

	// Heavy operation limits (per IP) - recompute and simulation
	HeavyMax        int
	HeavyExpiration time.Duration
}

// DefaultRateLimitConfig returns production-safe defaults
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		// Reads: 120/min = 2 req/sec per IP
		ReadMax:        120,
		ReadExpiration: 1 * time.Minute,

		// Recompute/simulation walk the whole catalog; keep them rare
		HeavyMax:        5,
		HeavyExpiration: 1 * time.Minute,
	}
}

// ReadLimiter returns rate limiting middleware for read endpoints
func ReadLimiter(config *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.ReadMax,
		Expiration: config.ReadExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded, slow down",
			})
		},
	})
}

// HeavyLimiter returns rate limiting middleware for catalog-walking endpoints
func HeavyLimiter(config *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.HeavyMax,
		Expiration: config.HeavyExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded for heavy operations",
			})
		},
	})
}
