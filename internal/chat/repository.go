package chat

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/pkg/apperr"
	"github.com/farmwise/backend/pkg/database"
)

// Repository persists chat messages.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a chat repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a message with its timestamp.
func (r *Repository) Create(ctx context.Context, m *models.ChatMessage) error {
	return r.pool.QueryRow(ctx, `INSERT INTO chat_messages (text, is_bot, user_id, timestamp)
		VALUES ($1, $2, $3, $4) RETURNING id`, m.Text, m.IsBot, m.UserID, m.Timestamp).Scan(&m.ID)
}

// Latest returns up to limit of the user's newest messages, newest first.
func (r *Repository) Latest(ctx context.Context, userID int64, limit int) ([]models.ChatMessage, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, text, is_bot, user_id, timestamp FROM chat_messages
		WHERE user_id = $1 ORDER BY timestamp DESC, id DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.Text, &m.IsBot, &m.UserID, &m.Timestamp); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// GetByID returns a message.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.ChatMessage, error) {
	var m models.ChatMessage
	err := r.pool.QueryRow(ctx, `SELECT id, text, is_bot, user_id, timestamp FROM chat_messages WHERE id = $1`, id).
		Scan(&m.ID, &m.Text, &m.IsBot, &m.UserID, &m.Timestamp)
	if database.IsNoRows(err) {
		return nil, apperr.NotFound("message not found")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Delete removes a message.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM chat_messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("message not found")
	}
	return nil
}

// DeleteByUser removes a user's whole history and returns how many rows went.
func (r *Repository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM chat_messages WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
