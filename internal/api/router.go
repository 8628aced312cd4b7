package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/draganv/speedwatch-backend-go/internal/config"
	"github.com/draganv/speedwatch-backend-go/internal/handler"
	"github.com/draganv/speedwatch-backend-go/internal/middleware"
	"github.com/draganv/speedwatch-backend-go/internal/service"
	"github.com/draganv/speedwatch-backend-go/internal/speedlimit"
)

// SetupRouter wires middleware, handlers, and routes.
func SetupRouter(cfg *config.Config, index speedlimit.SpatialIndex) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Speedwatch API is running",
		})
	})

	violationService := service.NewViolationService(index, cfg.ViolationThreshold)
	violationHandler := handler.NewViolationHandler(violationService)
	limitHandler := handler.NewLimitHandler(violationService)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(100, time.Minute))
	api.Use(middleware.Auth(cfg.JWTSecret))
	{
		api.POST("/trips/:id/violations", violationHandler.CheckTrip)
		api.GET("/limits", limitHandler.GetLimit)
	}

	return r
}
