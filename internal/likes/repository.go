package likes

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/pkg/database"
)

// Repository persists likes.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a like repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert adds a like unless the user already liked the target. inserted is
// false when the unique (user, type, content) row already existed.
func (r *Repository) Insert(ctx context.Context, userID int64, t Target) (*models.Like, bool, error) {
	const q = `INSERT INTO likes (user_id, content_type, content_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, content_type, content_id) DO NOTHING
		RETURNING id, created_at`
	l := models.Like{UserID: userID, ContentType: t.Type, ContentID: t.ID}
	err := r.pool.QueryRow(ctx, q, userID, t.Type, t.ID).Scan(&l.ID, &l.CreatedAt)
	if database.IsNoRows(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("insert like: %w", err)
	}
	return &l, true, nil
}

// Delete removes the user's like and reports whether one existed.
func (r *Repository) Delete(ctx context.Context, userID int64, t Target) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM likes WHERE user_id = $1 AND content_type = $2 AND content_id = $3`,
		userID, t.Type, t.ID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Count returns the number of likes on a target.
func (r *Repository) Count(ctx context.Context, t Target) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM likes WHERE content_type = $1 AND content_id = $2`,
		t.Type, t.ID).Scan(&n)
	return n, err
}

// Exists reports whether the user liked the target.
func (r *Repository) Exists(ctx context.Context, userID int64, t Target) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (
		SELECT 1 FROM likes WHERE user_id = $1 AND content_type = $2 AND content_id = $3)`,
		userID, t.Type, t.ID).Scan(&ok)
	return ok, err
}

// ListWithUsers returns the likes on a target joined with their authors, newest first.
func (r *Repository) ListWithUsers(ctx context.Context, t Target) ([]models.LikeWithUser, error) {
	rows, err := r.pool.Query(ctx, `SELECT l.id, l.user_id, l.content_type, l.content_id, l.created_at,
			u.id, u.username, u.profile_picture
		FROM likes l JOIN users u ON u.id = l.user_id
		WHERE l.content_type = $1 AND l.content_id = $2
		ORDER BY l.created_at DESC, l.id DESC`, t.Type, t.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.LikeWithUser{}
	for rows.Next() {
		var l models.LikeWithUser
		if err := rows.Scan(&l.ID, &l.UserID, &l.ContentType, &l.ContentID, &l.CreatedAt,
			&l.User.ID, &l.User.Username, &l.User.ProfilePicture); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
