package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/studentrisk-backend/internal/clients/model"
	"github.com/yungbote/studentrisk-backend/internal/clients/redis"
	"github.com/yungbote/studentrisk-backend/internal/db"
	"github.com/yungbote/studentrisk-backend/internal/handlers"
	"github.com/yungbote/studentrisk-backend/internal/logger"
	"github.com/yungbote/studentrisk-backend/internal/middleware"
	"github.com/yungbote/studentrisk-backend/internal/observability"
	"github.com/yungbote/studentrisk-backend/internal/repos"
	"github.com/yungbote/studentrisk-backend/internal/server"
	"github.com/yungbote/studentrisk-backend/internal/services"
	"github.com/yungbote/studentrisk-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing (no-op unless OTEL_ENABLED is set)
	shutdownTracing := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "studentrisk-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     "1.0.0",
	})
	if shutdownTracing != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracing(ctx)
		}()
	}

	// Database
	databaseService, err := db.NewDatabaseService(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err = databaseService.AutoMigrateAll(); err != nil {
		log.Warn("Auto migration failed", "error", err)
	}
	theDB := databaseService.DB()

	// Model service client
	log.Info("Setting up model client from main...")
	modelClient, err := model.NewFromEnv()
	if err != nil {
		log.Error("Could not init model client", "error", err)
		os.Exit(1)
	}

	// Redis cache (optional)
	var cache redis.Cache
	if os.Getenv("REDIS_ADDR") != "" {
		cache, err = redis.NewCache(log)
		if err != nil {
			log.Warn("Redis cache unavailable, dashboard aggregates uncached", "error", err)
			cache = nil
		}
	}

	// Repos
	log.Info("Setting up Repos from main...")
	predictionRepo := repos.NewPredictionRepo(theDB, log)

	// Services
	log.Info("Setting up Services from main...")
	predictionService := services.NewPredictionService(theDB, log, predictionRepo, modelClient)
	dashboardService := services.NewDashboardService(theDB, log, predictionRepo, cache)

	// Handlers
	log.Info("Setting up handlers from main...")
	healthHandler := handlers.NewHealthHandler(predictionService)
	predictionHandler := handlers.NewPredictionHandler(predictionService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, log)

	// Middleware
	requestLogger := middleware.NewRequestLogger(log)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		HealthHandler:     healthHandler,
		PredictionHandler: predictionHandler,
		DashboardHandler:  dashboardHandler,
		RequestLogger:     requestLogger,
		TracingEnabled:    shutdownTracing != nil,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
