package model

import (
	"errors"
	"time"
)

// Like records that UserID has liked MessageID. The pair is unique.
type Like struct {
	UserID    int64     `db:"user_id"`
	MessageID int64     `db:"message_id"`
	CreatedAt time.Time `db:"created_at"`
}

var (
	ErrNotLiked       = errors.New("message is not liked")
	ErrOwnMessageLike = errors.New("cannot like your own message")
)
