package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"warbler/internal/model"
)

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Create inserts the like edge. A toggle that loses a duplicate-insert race
// sees inserted=false and proceeds as if the edge already existed; the unique
// pair constraint guarantees at most one row either way.
func (r *likeRepository) Create(ctx context.Context, userID, messageID int64) (bool, error) {
	query := `
		INSERT INTO likes (user_id, message_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, message_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, userID, messageID)
	if err != nil {
		return false, fmt.Errorf("failed to create like: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *likeRepository) Delete(ctx context.Context, userID, messageID int64) error {
	query := `DELETE FROM likes WHERE user_id = $1 AND message_id = $2`
	result, err := r.db.ExecContext(ctx, query, userID, messageID)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotLiked
	}

	return nil
}

func (r *likeRepository) Exists(ctx context.Context, userID, messageID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM likes WHERE user_id = $1 AND message_id = $2)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID, messageID)
	if err != nil {
		return false, fmt.Errorf("failed to check like existence: %w", err)
	}
	return exists, nil
}

func (r *likeRepository) MessagesLikedBy(ctx context.Context, userID int64) ([]model.Message, error) {
	query := `
		SELECT m.id, m.user_id, m.text, m.created_at,
		       u.id AS "author.id", u.username AS "author.username", u.image_url AS "author.image_url"
		FROM likes l
		JOIN messages m ON m.id = l.message_id
		JOIN users u ON u.id = m.user_id
		WHERE l.user_id = $1
		ORDER BY l.created_at DESC
	`

	var rows []messageRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get liked messages: %w", err)
	}

	messages := make([]model.Message, len(rows))
	for i, row := range rows {
		msg := row.Message
		msg.Author = &model.User{
			ID:       row.AuthorID,
			Username: row.AuthorUsername,
			ImageURL: row.AuthorImageURL,
		}
		messages[i] = msg
	}

	return messages, nil
}

func (r *likeRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM likes WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

func (r *likeRepository) CountForMessage(ctx context.Context, messageID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM likes WHERE message_id = $1`, messageID)
	if err != nil {
		return 0, fmt.Errorf("failed to count message likes: %w", err)
	}
	return count, nil
}
