package domain

import (
	"time"

	"github.com/google/uuid"
)

// MediaType classifies the source URL of a conversation.
type MediaType string

const (
	MediaWebpage MediaType = "webpage"
	MediaVideo   MediaType = "video"
	MediaPodcast MediaType = "podcast"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation links a source URL, its extracted analysis, and the evolving
// world model. The world model is stored as raw JSON and replaced wholesale
// on every continuation.
type Conversation struct {
	ID          uuid.UUID
	URL         string
	MediaType   MediaType
	UserInsight string
	AIAnalysis  string
	WorldModel  WorldModel
	CreatedAt   time.Time
}

// Message is a single chat message. Messages are immutable and created in
// user/assistant pairs.
type Message struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
}
