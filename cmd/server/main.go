package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"tunestream/internal/config"
	"tunestream/internal/database"
	"tunestream/internal/handlers"
	"tunestream/internal/jobs"
	"tunestream/internal/logging"
	"tunestream/internal/middleware"
	"tunestream/internal/models"
	"tunestream/internal/services"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting TuneStream server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ No .env file found or error loading it: %v", err)
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, recompute every %v, cache TTL %v)",
		cfg.Port, cfg.RecomputeInterval, cfg.CacheTTL)

	// Connect to MongoDB
	mongoDB, err := database.NewMongoDB(cfg.MongoURI)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Close(context.Background())

	if err := mongoDB.Initialize(context.Background()); err != nil {
		log.Fatalf("❌ Failed to initialize MongoDB indexes: %v", err)
	}

	// Connect to Redis
	redisService, err := services.NewRedisService(cfg.RedisURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	defer redisService.Close()

	// Metrics
	metrics := services.InitMetrics()

	// Core services
	songStore := services.NewSongStore(mongoDB)
	scoreEngine := services.NewScoreEngine()
	trendingCache := services.NewTrendingCache(redisService, cfg.CacheTTL, cfg.CacheTimeout, metrics)
	statsService := services.NewStatsService(songStore)

	// Warm refresher: background worker fed by the recompute pipeline
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	warmRefresher := services.NewWarmRefresher(songStore, trendingCache, models.AllGenres, cfg.WarmRefreshPause, metrics)
	warmRefresher.Start(workerCtx)

	recomputeService := services.NewRecomputeService(songStore, scoreEngine, warmRefresher, cfg.RecomputeBatch, metrics)

	// Scheduled recompute
	trendingScheduler, err := jobs.NewTrendingScheduler(recomputeService, cfg.RecomputeInterval)
	if err != nil {
		log.Fatalf("❌ Failed to create trending scheduler: %v", err)
	}
	if err := trendingScheduler.Start(workerCtx); err != nil {
		log.Fatalf("❌ Failed to start trending scheduler: %v", err)
	}

	// Handlers
	trendingHandler := handlers.NewTrendingHandler(songStore, trendingCache, recomputeService)
	simulationHandler := handlers.NewSimulationHandler(songStore, recomputeService)
	statsHandler := handlers.NewStatsHandler(statsService)
	healthHandler := handlers.NewHealthHandler(mongoDB, redisService)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "TuneStream v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("tunestream")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	rateLimitConfig := middleware.DefaultRateLimitConfig()
	readLimiter := middleware.ReadLimiter(rateLimitConfig)
	heavyLimiter := middleware.HeavyLimiter(rateLimitConfig)

	// Routes
	app.Get("/health", healthHandler.Handle)

	api := app.Group("/api/v1")

	trending := api.Group("/trending")
	trending.Get("/songs", readLimiter, trendingHandler.GetTrendingSongs)
	trending.Get("/stats", readLimiter, statsHandler.GetStats)
	trending.Post("/update", heavyLimiter, trendingHandler.TriggerRecompute)
	trending.Delete("/cache", heavyLimiter, trendingHandler.ClearCache)

	simulation := api.Group("/simulation")
	simulation.Post("/songs", heavyLimiter, simulationHandler.GenerateSongs)
	simulation.Post("/stream", heavyLimiter, simulationHandler.SimulateStreaming)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		if err := trendingScheduler.Stop(); err != nil {
			log.Printf("⚠️ Error stopping scheduler: %v", err)
		}

		stopWorker()
		warmRefresher.Wait()

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
