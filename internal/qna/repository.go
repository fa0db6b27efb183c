package qna

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/pkg/apperr"
	"github.com/farmwise/backend/pkg/database"
)

// Repository handles question and reply persistence. Like counts are read from the likes table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a QnA repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const questionSelect = `SELECT q.id, q.text, q.author_name, q.author_image, q.timestamp, q.video_id, q.user_id,
	(SELECT COUNT(*) FROM likes l WHERE l.content_type = 'question' AND l.content_id = q.id)
	FROM question_and_answers q`

func scanQuestion(row pgx.Row) (*models.QuestionAndAnswer, error) {
	var q models.QuestionAndAnswer
	if err := row.Scan(&q.ID, &q.Text, &q.AuthorName, &q.AuthorImage, &q.Timestamp, &q.VideoID, &q.UserID, &q.Likes); err != nil {
		if database.IsNoRows(err) {
			return nil, apperr.NotFound("question not found")
		}
		return nil, err
	}
	return &q, nil
}

func (r *Repository) queryQuestions(ctx context.Context, sql string, args ...any) ([]models.QuestionAndAnswer, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.QuestionAndAnswer{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *q)
	}
	return list, rows.Err()
}

// ListQuestions returns every question, newest first.
func (r *Repository) ListQuestions(ctx context.Context) ([]models.QuestionAndAnswer, error) {
	return r.queryQuestions(ctx, questionSelect+` ORDER BY q.timestamp DESC, q.id DESC`)
}

// ListQuestionsByVideo returns the questions asked under a video, newest first.
func (r *Repository) ListQuestionsByVideo(ctx context.Context, videoID int64) ([]models.QuestionAndAnswer, error) {
	return r.queryQuestions(ctx, questionSelect+` WHERE q.video_id = $1 ORDER BY q.timestamp DESC, q.id DESC`, videoID)
}

// GetQuestion returns a question by ID.
func (r *Repository) GetQuestion(ctx context.Context, id int64) (*models.QuestionAndAnswer, error) {
	return scanQuestion(r.pool.QueryRow(ctx, questionSelect+` WHERE q.id = $1`, id))
}

// VideoIDForQuestion returns the video a question belongs to.
func (r *Repository) VideoIDForQuestion(ctx context.Context, id int64) (int64, error) {
	var videoID int64
	err := r.pool.QueryRow(ctx, `SELECT video_id FROM question_and_answers WHERE id = $1`, id).Scan(&videoID)
	if database.IsNoRows(err) {
		return 0, apperr.NotFound("question not found")
	}
	return videoID, err
}

// CreateQuestion inserts a question.
func (r *Repository) CreateQuestion(ctx context.Context, q *models.QuestionAndAnswer) error {
	const sql = `INSERT INTO question_and_answers (text, author_name, author_image, video_id, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, timestamp`
	return r.pool.QueryRow(ctx, sql, q.Text, q.AuthorName, q.AuthorImage, q.VideoID, q.UserID).Scan(&q.ID, &q.Timestamp)
}

// UpdateQuestion writes text and author fields.
func (r *Repository) UpdateQuestion(ctx context.Context, q *models.QuestionAndAnswer) error {
	tag, err := r.pool.Exec(ctx, `UPDATE question_and_answers SET text = $1, author_name = $2, author_image = $3
		WHERE id = $4`, q.Text, q.AuthorName, q.AuthorImage, q.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("question not found")
	}
	return nil
}

// DeleteQuestion removes a question, its replies and every like on them.
func (r *Repository) DeleteQuestion(ctx context.Context, id int64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM likes WHERE content_type = 'reply'
			AND content_id IN (SELECT id FROM replies WHERE question_and_answer_id = $1)`, id); err != nil {
			return fmt.Errorf("delete reply likes: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM likes WHERE content_type = 'question' AND content_id = $1`, id); err != nil {
			return fmt.Errorf("delete question likes: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM question_and_answers WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("question not found")
		}
		return nil
	})
}

// replySelect takes the viewing user as $1 to fill likesisClicked.
const replySelect = `SELECT r.id, r.text, r.author_name, r.author_image, r.timestamp, r.question_and_answer_id, r.user_id,
	(SELECT COUNT(*) FROM likes l WHERE l.content_type = 'reply' AND l.content_id = r.id),
	EXISTS (SELECT 1 FROM likes l WHERE l.content_type = 'reply' AND l.content_id = r.id AND l.user_id = $1)
	FROM replies r`

func scanReply(row pgx.Row) (*models.Reply, error) {
	var rp models.Reply
	if err := row.Scan(&rp.ID, &rp.Text, &rp.AuthorName, &rp.AuthorImage, &rp.Timestamp, &rp.QuestionAndAnswerID, &rp.UserID,
		&rp.Likes, &rp.LikesIsClicked); err != nil {
		if database.IsNoRows(err) {
			return nil, apperr.NotFound("reply not found")
		}
		return nil, err
	}
	return &rp, nil
}

func (r *Repository) queryReplies(ctx context.Context, sql string, args ...any) ([]models.Reply, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.Reply{}
	for rows.Next() {
		rp, err := scanReply(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *rp)
	}
	return list, rows.Err()
}

// ListReplies returns every reply in conversation order.
func (r *Repository) ListReplies(ctx context.Context, viewerID int64) ([]models.Reply, error) {
	return r.queryReplies(ctx, replySelect+` ORDER BY r.timestamp, r.id`, viewerID)
}

// ListRepliesByQuestion returns the replies to one question in conversation order.
func (r *Repository) ListRepliesByQuestion(ctx context.Context, qnaID, viewerID int64) ([]models.Reply, error) {
	return r.queryReplies(ctx, replySelect+` WHERE r.question_and_answer_id = $2 ORDER BY r.timestamp, r.id`, viewerID, qnaID)
}

// GetReply returns a reply by ID as seen by viewerID.
func (r *Repository) GetReply(ctx context.Context, id, viewerID int64) (*models.Reply, error) {
	return scanReply(r.pool.QueryRow(ctx, replySelect+` WHERE r.id = $2`, viewerID, id))
}

// VideoIDForReply returns the video whose question a reply answers.
func (r *Repository) VideoIDForReply(ctx context.Context, id int64) (int64, error) {
	var videoID int64
	err := r.pool.QueryRow(ctx, `SELECT q.video_id FROM replies r
		JOIN question_and_answers q ON q.id = r.question_and_answer_id
		WHERE r.id = $1`, id).Scan(&videoID)
	if database.IsNoRows(err) {
		return 0, apperr.NotFound("reply not found")
	}
	return videoID, err
}

// CreateReply inserts a reply.
func (r *Repository) CreateReply(ctx context.Context, rp *models.Reply) error {
	const sql = `INSERT INTO replies (text, author_name, author_image, question_and_answer_id, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, timestamp`
	return r.pool.QueryRow(ctx, sql, rp.Text, rp.AuthorName, rp.AuthorImage, rp.QuestionAndAnswerID, rp.UserID).
		Scan(&rp.ID, &rp.Timestamp)
}

// UpdateReply writes text and author fields.
func (r *Repository) UpdateReply(ctx context.Context, rp *models.Reply) error {
	tag, err := r.pool.Exec(ctx, `UPDATE replies SET text = $1, author_name = $2, author_image = $3 WHERE id = $4`,
		rp.Text, rp.AuthorName, rp.AuthorImage, rp.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("reply not found")
	}
	return nil
}

// DeleteReply removes a reply and its likes.
func (r *Repository) DeleteReply(ctx context.Context, id int64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM likes WHERE content_type = 'reply' AND content_id = $1`, id); err != nil {
			return fmt.Errorf("delete reply likes: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM replies WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("reply not found")
		}
		return nil
	})
}
