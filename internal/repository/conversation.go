package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/mindlens/internal/domain"
)

type ConversationRepo struct {
	db *pgxpool.Pool
}

func NewConversationRepo(db *pgxpool.Pool) *ConversationRepo {
	return &ConversationRepo{db: db}
}

func (r *ConversationRepo) Create(ctx context.Context, conv *domain.Conversation) error {
	wm, err := json.Marshal(conv.WorldModel)
	if err != nil {
		return fmt.Errorf("marshal world model: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO conversations (id, url, media_type, user_insight, ai_analysis, world_model)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, conv.ID, conv.URL, string(conv.MediaType), conv.UserInsight, conv.AIAnalysis, wm).Scan(&conv.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}
	return nil
}

func (r *ConversationRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	var (
		conv      domain.Conversation
		mediaType string
		wm        []byte
	)

	err := r.db.QueryRow(ctx, `
		SELECT id, url, media_type, COALESCE(user_insight, ''), COALESCE(ai_analysis, ''), world_model, created_at
		FROM conversations
		WHERE id = $1
	`, id).Scan(&conv.ID, &conv.URL, &mediaType, &conv.UserInsight, &conv.AIAnalysis, &wm, &conv.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrConversationNotFound
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	conv.MediaType = domain.MediaType(mediaType)
	if len(wm) > 0 {
		if err := json.Unmarshal(wm, &conv.WorldModel); err != nil {
			return nil, fmt.Errorf("unmarshal world model: %w", err)
		}
	}
	return &conv, nil
}

// Exists reports whether a conversation row exists without loading it.
func (r *ConversationRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var found uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT id FROM conversations WHERE id = $1`, id).Scan(&found)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check conversation: %w", err)
	}
	return true, nil
}

// UpdateWorldModel replaces the stored world model wholesale.
func (r *ConversationRepo) UpdateWorldModel(ctx context.Context, id uuid.UUID, wm domain.WorldModel) error {
	raw, err := json.Marshal(wm)
	if err != nil {
		return fmt.Errorf("marshal world model: %w", err)
	}

	tag, err := r.db.Exec(ctx, `UPDATE conversations SET world_model = $1 WHERE id = $2`, raw, id)
	if err != nil {
		return fmt.Errorf("update world model: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConversationNotFound
	}
	return nil
}
