package model

import (
	"errors"
	"time"
)

// MaxMessageLength caps warble text, matching the classic 140-character limit.
const MaxMessageLength = 140

// Message represents a single warble.
type Message struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`

	// Author is joined in by list queries, not a column of messages.
	Author *User `db:"-"`
}

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrNotMessageOwner = errors.New("not the owner of this message")
	ErrTextRequired    = errors.New("message text is required")
	ErrTextTooLong     = errors.New("message text too long")
)
