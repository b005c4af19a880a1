package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"warbler/internal/model"
)

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, m *model.Message) error {
	query := `
		INSERT INTO messages (user_id, text, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`

	row := r.db.QueryRowxContext(ctx, query, m.UserID, m.Text)
	if err := row.Scan(&m.ID, &m.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	query := `
		SELECT id, user_id, text, created_at
		FROM messages
		WHERE id = $1
	`

	var m model.Message
	err := r.db.GetContext(ctx, &m, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message by id: %w", err)
	}

	author, err := r.author(ctx, m.UserID)
	if err == nil {
		m.Author = author
	}

	return &m, nil
}

func (r *messageRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Message, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT m.id, m.user_id, m.text, m.created_at,
		       u.id AS "author.id", u.username AS "author.username", u.image_url AS "author.image_url"
		FROM messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.id = ANY($1)
		ORDER BY m.created_at DESC, m.id DESC
	`

	return r.selectWithAuthors(ctx, query, pq.Array(ids))
}

func (r *messageRepository) ByUser(ctx context.Context, userID int64, limit int) ([]model.Message, error) {
	query := `
		SELECT m.id, m.user_id, m.text, m.created_at,
		       u.id AS "author.id", u.username AS "author.username", u.image_url AS "author.image_url"
		FROM messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.user_id = $1
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $2
	`

	return r.selectWithAuthors(ctx, query, userID, limit)
}

// Timeline selects the newest messages authored by userID or any user they
// follow. Computed on read; the timeline cache in front of this sits in the
// cache package.
func (r *messageRepository) Timeline(ctx context.Context, userID int64, limit int) ([]model.Message, error) {
	query := `
		SELECT m.id, m.user_id, m.text, m.created_at,
		       u.id AS "author.id", u.username AS "author.username", u.image_url AS "author.image_url"
		FROM messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.user_id = $1
		   OR m.user_id IN (SELECT followed_id FROM follows WHERE follower_id = $1)
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $2
	`

	return r.selectWithAuthors(ctx, query, userID, limit)
}

// Delete removes a message; its likes go with it via ON DELETE CASCADE.
// Ownership is checked by the service layer.
func (r *messageRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrMessageNotFound
	}

	return nil
}

func (r *messageRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM messages WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

func (r *messageRepository) author(ctx context.Context, userID int64) (*model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u,
		`SELECT id, username, image_url FROM users WHERE id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	return &u, nil
}

// messageRow flattens the joined author columns for sqlx scanning.
type messageRow struct {
	model.Message
	AuthorID       int64  `db:"author.id"`
	AuthorUsername string `db:"author.username"`
	AuthorImageURL string `db:"author.image_url"`
}

func (r *messageRepository) selectWithAuthors(ctx context.Context, query string, args ...interface{}) ([]model.Message, error) {
	var rows []messageRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select messages: %w", err)
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
