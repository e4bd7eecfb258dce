package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/gridlytics/gridlytics-go/internal/analysis"
	"github.com/gridlytics/gridlytics-go/internal/api"
	"github.com/gridlytics/gridlytics-go/internal/api/handlers"
	"github.com/gridlytics/gridlytics-go/internal/cache"
	"github.com/gridlytics/gridlytics-go/internal/config"
	"github.com/gridlytics/gridlytics-go/internal/database"
	"github.com/gridlytics/gridlytics-go/internal/eia"
	"github.com/gridlytics/gridlytics-go/internal/logging"
	"github.com/gridlytics/gridlytics-go/internal/telemetry"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg)

	provider, err := telemetry.Init(cfg.Environment, 0.2)
	if err != nil {
		logger.WithError(err).Warn("Telemetry disabled")
	}

	// Redis is a cache, not a dependency: run uncached when it is down
	var redis *database.RedisClient
	if cfg.Redis.Enabled {
		redis, err = database.NewRedisConnection(cfg.Redis)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, running without series cache")
			redis = nil
		} else {
			defer redis.Close()
		}
	}

	seriesCache := cache.NewSeriesCache(redis, time.Duration(cfg.Cache.SeriesTTLMinutes)*time.Minute, logger)
	client := eia.NewClient(&cfg.EIA, logger)
	fetcher := eia.NewRegionFetcher(client, seriesCache, logger)
	policy := buildPolicy(cfg.Analysis)

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	api.SetupRoutes(router,
		handlers.NewAnalysisHandler(fetcher, policy, logger),
		handlers.NewHealthHandler(redis, seriesCache))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	if provider != nil {
		if err := provider.Shutdown(ctx); err != nil {
			logger.WithError(err).Warn("Telemetry shutdown failed")
		}
	}

	logger.Info("Server exited")
}

// buildPolicy overlays configured knobs on the default scoring policy.
// Zero config values keep the defaults.
func buildPolicy(cfg config.AnalysisConfig) analysis.Policy {
	policy := analysis.DefaultPolicy()
	if cfg.StorageHours > 0 {
		policy.StorageHours = cfg.StorageHours
	}
	if cfg.CyclesPerYear > 0 {
		policy.CyclesPerYear = cfg.CyclesPerYear
	}
	if cfg.RoundTripEfficiency > 0 {
		policy.RoundTripEfficiency = cfg.RoundTripEfficiency
	}
	if cfg.RenewableCapacityFactor > 0 {
		policy.RenewableCapacityFactor = cfg.RenewableCapacityFactor
	}
	if cfg.CurtailmentRate > 0 {
		policy.CurtailmentRate = cfg.CurtailmentRate
	}
	return policy
}
