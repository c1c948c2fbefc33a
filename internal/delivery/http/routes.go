package http

import (
	"github.com/gin-gonic/gin"

	"github.com/orderlens/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))
	{
		v1.POST("/classify", handler.ClassifyPage)
		v1.POST("/extract", handler.ExtractRecord)
		v1.POST("/fill", handler.FillForm)

		records := v1.Group("/records")
		{
			records.GET("/:key", handler.GetRecord)
			records.DELETE("/:key", handler.DeleteRecord)
		}
	}

	return router
}
