package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/set-night/mindlens/internal/handler"
	"github.com/set-night/mindlens/internal/middleware"
)

// SetupRoutes configures middleware and the API route table.
func SetupRoutes(router *gin.Engine, h *handler.Handler, rateLimit int, rateWindow time.Duration) {
	router.Use(middleware.Recover())
	router.Use(middleware.Logging())
	router.Use(middleware.CORS())

	api := router.Group("/api")
	api.Use(middleware.RateLimit(rateLimit, rateWindow))

	api.GET("/health", h.Health)
	api.POST("/analyze", h.Analyze)
	api.GET("/conversations/:id", h.GetMessages)
	api.POST("/conversations/:id/messages", h.ContinueConversation)
	api.POST("/share", h.Share)
	api.POST("/webhooks", h.RegisterWebhook)
}
