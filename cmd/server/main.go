package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	mindlensroot "github.com/set-night/mindlens"
	"github.com/set-night/mindlens/internal/api"
	"github.com/set-night/mindlens/internal/config"
	"github.com/set-night/mindlens/internal/handler"
	"github.com/set-night/mindlens/internal/repository"
	"github.com/set-night/mindlens/internal/service"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(mindlensroot.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// LLM call log, outside prod only
	var callLog *service.CallLog
	if cfg.LLMStoreEnabled() {
		callLog, err = service.NewCallLog(cfg.LLMStoreDir)
		if err != nil {
			slog.Error("failed to open llm call log", "error", err)
			os.Exit(1)
		}
		defer callLog.Close()
	}

	// Initialize services
	conversations := repository.NewConversationRepo(pool)
	messages := repository.NewMessageRepo(pool)
	webhooks := repository.NewWebhookRepo(pool)

	mediaService := service.NewMediaService(cfg.ReaderURL)
	openRouter := service.NewOpenRouterService(cfg.OpenRouterKey, cfg.Model, callLog)
	analysisService := service.NewAnalysisService(conversations, messages, mediaService, openRouter)
	webhookService := service.NewWebhookService(webhooks)

	// Initialize handler and server
	h := handler.New(handler.Deps{
		Analysis: analysisService,
		Webhooks: webhookService,
	})

	srv := api.NewServer(cfg, h)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown", "error", err)
	}

	slog.Info("server stopped gracefully")
}
