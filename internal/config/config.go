package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port     string
	MongoURI string
	RedisURL string

	// Cache settings
	CacheTTL     time.Duration // default expiration for trending cache entries
	CacheTimeout time.Duration // per-operation budget before falling through to the store

	// Recompute pipeline settings
	RecomputeInterval time.Duration
	RecomputeBatch    int

	// Warm refresh settings
	WarmRefreshPause time.Duration
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8000"),
		MongoURI: getEnv("MONGODB_URI", "mongodb://localhost:27017/tunestream"),
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		CacheTTL:     time.Duration(getIntEnv("CACHE_TTL_SECONDS", 300)) * time.Second,
		CacheTimeout: time.Duration(getIntEnv("CACHE_TIMEOUT_MS", 250)) * time.Millisecond,

		RecomputeInterval: time.Duration(getIntEnv("RECOMPUTE_INTERVAL_MINUTES", 60)) * time.Minute,
		RecomputeBatch:    getIntEnv("RECOMPUTE_BATCH_SIZE", 1000),

		WarmRefreshPause: time.Duration(getIntEnv("WARM_REFRESH_PAUSE_MS", 100)) * time.Millisecond,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
