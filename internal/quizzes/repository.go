package quizzes

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/pkg/apperr"
	"github.com/farmwise/backend/pkg/database"
)

// Repository handles quiz and quiz question persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a quiz repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const quizColumns = `id, title, description, type, created_at, updated_at`

func scanQuiz(row pgx.Row) (*models.Quiz, error) {
	var q models.Quiz
	if err := row.Scan(&q.ID, &q.Title, &q.Description, &q.Type, &q.CreatedAt, &q.UpdatedAt); err != nil {
		if database.IsNoRows(err) {
			return nil, apperr.NotFound("quiz not found")
		}
		return nil, err
	}
	return &q, nil
}

// List returns all quizzes, optionally restricted to one kind.
func (r *Repository) List(ctx context.Context, kind models.Kind) ([]models.Quiz, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+quizColumns+` FROM quizzes
		WHERE $1 = '' OR type = $1 ORDER BY id`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.Quiz{}
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *q)
	}
	return list, rows.Err()
}

// GetByID returns a quiz by ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Quiz, error) {
	return scanQuiz(r.pool.QueryRow(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE id = $1`, id))
}

// Create inserts a new quiz.
func (r *Repository) Create(ctx context.Context, q *models.Quiz) error {
	const query = `INSERT INTO quizzes (title, description, type)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, q.Title, q.Description, q.Type).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

// Update writes title and description.
func (r *Repository) Update(ctx context.Context, q *models.Quiz) error {
	const query = `UPDATE quizzes SET title = $1, description = $2, updated_at = NOW()
		WHERE id = $3 RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query, q.Title, q.Description, q.ID).Scan(&q.UpdatedAt)
	if database.IsNoRows(err) {
		return apperr.NotFound("quiz not found")
	}
	return err
}

// Delete removes a quiz. Questions and progress cascade; animals and crops lose the link.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("quiz not found")
	}
	return nil
}

// ListQuestions returns the questions of a quiz in insertion order.
func (r *Repository) ListQuestions(ctx context.Context, quizID int64) ([]models.QuizQuestion, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, quiz_id, question, option_a, option_b, option_c, option_d, correct_option, created_at
		FROM quiz_questions WHERE quiz_id = $1 ORDER BY id`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.QuizQuestion{}
	for rows.Next() {
		var q models.QuizQuestion
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Question, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &q.CorrectOption, &q.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

// CreateQuestion inserts a question into a quiz.
func (r *Repository) CreateQuestion(ctx context.Context, q *models.QuizQuestion) error {
	const query = `INSERT INTO quiz_questions (quiz_id, question, option_a, option_b, option_c, option_d, correct_option)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, q.QuizID, q.Question, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.CorrectOption).
		Scan(&q.ID, &q.CreatedAt)
}

// DeleteQuestion removes one question of a quiz.
func (r *Repository) DeleteQuestion(ctx context.Context, quizID, questionID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM quiz_questions WHERE id = $1 AND quiz_id = $2`, questionID, quizID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("quiz question not found")
	}
	return nil
}
