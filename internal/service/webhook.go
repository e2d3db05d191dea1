package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/set-night/mindlens/internal/domain"
)

type webhookStore interface {
	Create(ctx context.Context, hook *domain.Webhook) error
}

// WebhookService registers event subscribers. Delivery is not implemented;
// Dispatch says so explicitly instead of silently dropping events.
type WebhookService struct {
	store webhookStore
}

func NewWebhookService(store webhookStore) *WebhookService {
	return &WebhookService{store: store}
}

func (s *WebhookService) Register(ctx context.Context, url string, events []string, secret string) (uuid.UUID, error) {
	if url == "" {
		return uuid.Nil, errors.New("webhook url is required")
	}
	if len(events) == 0 {
		return uuid.Nil, errors.New("at least one event is required")
	}

	hook := &domain.Webhook{URL: url, Secret: secret, Events: events}
	if err := s.store.Create(ctx, hook); err != nil {
		return uuid.Nil, err
	}

	slog.Info("webhook registered", "id", hook.ID, "events", events)
	return hook.ID, nil
}

// Dispatch would deliver an event to matching subscribers.
// TODO: implement delivery with signing and retry before any caller relies on this.
func (s *WebhookService) Dispatch(ctx context.Context, event string, payload any) error {
	return domain.ErrWebhookDispatchNotSupported
}
