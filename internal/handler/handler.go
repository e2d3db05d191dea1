package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/set-night/mindlens/internal/domain"
)

// Analyzer is the conversation surface the API exposes.
type Analyzer interface {
	Analyze(ctx context.Context, rawURL, initialThought string) (uuid.UUID, error)
	Continue(ctx context.Context, id uuid.UUID, message, newURL string) ([]domain.Message, error)
	Messages(ctx context.Context, id uuid.UUID) ([]domain.Message, error)
	Share(ctx context.Context, id uuid.UUID) (string, error)
}

// WebhookRegistrar registers event subscribers.
type WebhookRegistrar interface {
	Register(ctx context.Context, url string, events []string, secret string) (uuid.UUID, error)
}

// Handler holds the dependencies of all HTTP handlers.
type Handler struct {
	analysis Analyzer
	webhooks WebhookRegistrar
}

// Deps contains everything needed to construct a Handler.
type Deps struct {
	Analysis Analyzer
	Webhooks WebhookRegistrar
}

// New creates a Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		analysis: deps.Analysis,
		webhooks: deps.Webhooks,
	}
}

// writeError maps domain errors to status codes. Everything that is not a
// missing conversation collapses into a generic 500.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrConversationNotFound) {
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"detail": err.Error()})
}
