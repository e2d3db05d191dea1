package domain

import (
	"time"

	"github.com/google/uuid"
)

// Webhook is a registered event subscriber. Delivery is not implemented yet.
type Webhook struct {
	ID        uuid.UUID
	URL       string
	Secret    string
	Events    []string
	CreatedAt time.Time
}
