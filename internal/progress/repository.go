package progress

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/pkg/database"
)

// Repository persists user progress.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a progress repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const progressColumns = `id, user_id, quiz_id, score, completed, created_at, updated_at`

func scanProgress(row pgx.Row, p *models.UserProgress) error {
	return row.Scan(&p.ID, &p.UserID, &p.QuizID, &p.Score, &p.Completed, &p.CreatedAt, &p.UpdatedAt)
}

// Upsert inserts the first result for (user, quiz) or merges into the stored
// one under a row lock.
func (r *Repository) Upsert(ctx context.Context, userID, quizID int64, score int, completed *bool) (*models.UserProgress, error) {
	var out models.UserProgress
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		initial, _ := Merge(models.UserProgress{UserID: userID, QuizID: quizID}, score, completed)
		err := scanProgress(tx.QueryRow(ctx, `INSERT INTO user_progress (user_id, quiz_id, score, completed)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, quiz_id) DO NOTHING
			RETURNING `+progressColumns, userID, quizID, initial.Score, initial.Completed), &out)
		if err == nil {
			return nil
		}
		if !database.IsNoRows(err) {
			return fmt.Errorf("insert progress: %w", err)
		}

		var existing models.UserProgress
		if err := scanProgress(tx.QueryRow(ctx, `SELECT `+progressColumns+` FROM user_progress
			WHERE user_id = $1 AND quiz_id = $2 FOR UPDATE`, userID, quizID), &existing); err != nil {
			return fmt.Errorf("lock progress: %w", err)
		}
		next, changed := Merge(existing, score, completed)
		if !changed {
			out = existing
			return nil
		}
		return scanProgress(tx.QueryRow(ctx, `UPDATE user_progress SET score = $1, completed = $2, updated_at = NOW()
			WHERE id = $3 RETURNING `+progressColumns, next.Score, next.Completed, existing.ID), &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByUser returns a user's progress rows, most recently updated first.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]models.UserProgress, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+progressColumns+` FROM user_progress
		WHERE user_id = $1 ORDER BY updated_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.UserProgress{}
	for rows.Next() {
		var p models.UserProgress
		if err := scanProgress(rows, &p); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// CountCompleted returns how many quizzes a user has completed.
func (r *Repository) CountCompleted(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_progress WHERE user_id = $1 AND completed`, userID).Scan(&n)
	return n, err
}
