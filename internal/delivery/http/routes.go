package http

import (
	"github.com/consumewise/backend/config"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger zerolog.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	api := router.Group("/api")
	api.Use(TimeoutMiddleware(cfg.Server.RequestTimeout))
	{
		api.POST("/extract-data", handler.ExtractData)
		api.GET("/find-product", handler.FindProduct)
		api.GET("/get-product", handler.GetProduct)
		api.POST("/products", handler.SaveProduct)
	}

	return router
}
