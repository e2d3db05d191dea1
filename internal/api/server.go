package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/set-night/mindlens/internal/config"
	"github.com/set-night/mindlens/internal/handler"
)

// NewServer builds the HTTP server with routing and timeouts. The write
// timeout is generous because analyze/continue wait on an upstream model.
func NewServer(cfg *config.Config, h *handler.Handler) *http.Server {
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	SetupRoutes(router, h, cfg.RateLimitPerMinute, config.RateLimitWindow)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
}
