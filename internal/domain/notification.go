package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an append-only per-user message; only the read flag is
// ever mutated after creation.
type Notification struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Text      string    `json:"text" db:"text"`
	Read      bool      `json:"read" db:"read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
