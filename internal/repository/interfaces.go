package repository

import (
	"context"

	"warbler/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// Search returns users whose username contains q as a substring,
	// or all users when q is empty.
	Search(ctx context.Context, q string, limit int) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int64) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	GetByID(ctx context.Context, id int64) (*model.Message, error)
	// GetByIDs returns messages with authors, newest first. Missing IDs are
	// silently dropped; used for hydrating cached timelines.
	GetByIDs(ctx context.Context, ids []int64) ([]model.Message, error)
	ByUser(ctx context.Context, userID int64, limit int) ([]model.Message, error)
	// Timeline returns messages authored by userID or anyone they follow,
	// newest first.
	Timeline(ctx context.Context, userID int64, limit int) ([]model.Message, error)
	Delete(ctx context.Context, id int64) error
	CountByUser(ctx context.Context, userID int64) (int, error)
}

type FollowRepository interface {
	// Create inserts the edge if absent and reports whether a row was
	// actually inserted. A duplicate edge is not an error here.
	Create(ctx context.Context, followerID, followedID int64) (bool, error)
	// Delete removes the edge, returning model.ErrNotFollowing when absent.
	Delete(ctx context.Context, followerID, followedID int64) error
	Exists(ctx context.Context, followerID, followedID int64) (bool, error)
	Following(ctx context.Context, userID int64) ([]model.User, error)
	Followers(ctx context.Context, userID int64) ([]model.User, error)
	FollowerIDs(ctx context.Context, userID int64) ([]int64, error)
	CountFollowing(ctx context.Context, userID int64) (int, error)
	CountFollowers(ctx context.Context, userID int64) (int, error)
}

type LikeRepository interface {
	// Create inserts the (user, message) edge if absent and reports whether
	// a row was actually inserted. A lost duplicate-insert race surfaces as
	// inserted=false, never as an error.
	Create(ctx context.Context, userID, messageID int64) (bool, error)
	// Delete removes the edge, returning model.ErrNotLiked when absent.
	Delete(ctx context.Context, userID, messageID int64) error
	Exists(ctx context.Context, userID, messageID int64) (bool, error)
	MessagesLikedBy(ctx context.Context, userID int64) ([]model.Message, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	CountForMessage(ctx context.Context, messageID int64) (int, error)
}
