package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/studentrisk-backend/internal/handlers"
	"github.com/yungbote/studentrisk-backend/internal/middleware"
)

type RouterConfig struct {
	HealthHandler     *handlers.HealthHandler
	PredictionHandler *handlers.PredictionHandler
	DashboardHandler  *handlers.DashboardHandler
	RequestLogger     *middleware.RequestLogger
	TracingEnabled    bool
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.RequestLogger != nil {
		router.Use(cfg.RequestLogger.Handler())
	}
	if cfg.TracingEnabled {
		router.Use(otelgin.Middleware("studentrisk-backend"))
	}

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/", cfg.HealthHandler.Root)
	router.GET("/healthcheck", handlers.HealthCheck)
	router.GET("/health", cfg.HealthHandler.Health)

	api := router.Group("/api/v1")
	{
		predict := api.Group("/predict")
		{
			predict.POST("/simplified", cfg.PredictionHandler.PredictSimplified)
			predict.POST("/raw", cfg.PredictionHandler.PredictRaw)
		}

		admin := api.Group("/admin")
		{
			admin.GET("/dashboard/stats", cfg.DashboardHandler.Stats)
			admin.GET("/dashboard/trends", cfg.DashboardHandler.Trends)
			admin.GET("/risk-factors", cfg.DashboardHandler.TopRiskFactors)
			admin.GET("/recent-assessments", cfg.DashboardHandler.RecentAssessments)
			admin.GET("/risk-distribution", cfg.DashboardHandler.RiskDistribution)
		}
	}

	return router
}
