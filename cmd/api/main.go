package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Subasree2717/agropredictor/config"
	"github.com/Subasree2717/agropredictor/internal/api"
	"github.com/Subasree2717/agropredictor/internal/artifacts"
	"github.com/Subasree2717/agropredictor/internal/database"
	"github.com/Subasree2717/agropredictor/internal/inference"
	"github.com/Subasree2717/agropredictor/internal/middleware"
	"github.com/Subasree2717/agropredictor/internal/repository"
	"github.com/Subasree2717/agropredictor/internal/router"
	"github.com/Subasree2717/agropredictor/internal/server"
	"github.com/Subasree2717/agropredictor/internal/service"
	"github.com/Subasree2717/agropredictor/internal/weather"
)

func main() {
	// Load configuration
	if err := config.LoadDotEnv(); err != nil {
		log.Printf("Warning: could not read .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Models are required; refuse to start without them
	reg, err := artifacts.LoadRegistry(cfg.ModelDir)
	if err != nil {
		log.Fatalf("Failed to load models: %v", err)
	}

	// Initialize database
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	history := repository.NewHistoryRepository(db)

	var recorder repository.ForecastRecorder
	if cfg.RecordForecasts {
		sqlxDB, err := database.NewSQLX(cfg)
		if err != nil {
			log.Fatalf("Failed to open forecast recorder: %v", err)
		}
		defer sqlxDB.Close()
		recorder = repository.NewPostgresForecastRecorder(sqlxDB)
	}

	// Redis backs the weather cache and rate limiting; both are optional
	var cache redis.Cmdable
	var limiter *middleware.RateLimiter
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Redis unavailable, running without cache and rate limiting: %v", err)
	} else {
		defer redisClient.Close()
		cache = redisClient
		if cfg.RateLimitPerMinute > 0 {
			limiter = middleware.NewClientRateLimiter(redisClient, cfg.RateLimitPerMinute)
		}
	}

	defaults := inference.ObservationDefaults{
		Pressure:   cfg.ForecastPressure,
		WindSpeed:  cfg.ForecastWindSpeed,
		Visibility: cfg.ForecastVisibility,
		CloudCover: cfg.ForecastCloudCover,
	}

	deps := api.Dependencies{
		Predictions: service.NewPredictionService(inference.NewRecommender(reg), history),
		Forecasts:   service.NewForecastService(inference.NewForecaster(reg), defaults, recorder),
		Chat:        service.NewChatService(service.NewGeminiClient(cfg), history),
		Weather:     weather.NewClient(cfg, cache),
		DB:          db,
	}

	srv := server.New(cfg, router.SetupRouter(cfg, deps, limiter))

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	// Gracefully shutdown the server
	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
