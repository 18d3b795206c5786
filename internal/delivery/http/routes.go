package http

import (
	"github.com/gin-gonic/gin"

	"github.com/danlewismuriuki/deals-spotter-backend/config"
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
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(handler.logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		basket := v1.Group("/basket")
		{
			basket.POST("/compare", handler.CompareBasket)
		}

		v1.POST("/corrections", handler.RecordCorrection)

		catalog := v1.Group("/catalog")
		{
			catalog.POST("/entries", handler.SaveEntries)
			catalog.GET("/entries/:id", handler.GetEntry)
		}

		cache := v1.Group("/cache")
		{
			cache.GET("/stats", handler.CacheStats)
			cache.POST("/clear", handler.ClearCache)
		}
	}

	return router
}
