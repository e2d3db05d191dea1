package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/mindlens/internal/domain"
)

type WebhookRepo struct {
	db *pgxpool.Pool
}

func NewWebhookRepo(db *pgxpool.Pool) *WebhookRepo {
	return &WebhookRepo{db: db}
}

func (r *WebhookRepo) Create(ctx context.Context, hook *domain.Webhook) error {
	hook.ID = uuid.New()

	err := r.db.QueryRow(ctx, `
		INSERT INTO webhooks (id, url, secret, events)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, hook.ID, hook.URL, hook.Secret, hook.Events).Scan(&hook.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert webhook: %w", err)
	}
	return nil
}
