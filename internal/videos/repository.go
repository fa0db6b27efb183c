package videos

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/pkg/apperr"
	"github.com/farmwise/backend/pkg/database"
)

// Repository handles video and additional-video persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a video repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const videoColumns = `id, title, category, youtube_id, type, created_at, updated_at`

func scanVideo(row pgx.Row) (*models.Video, error) {
	var v models.Video
	if err := row.Scan(&v.ID, &v.Title, &v.Category, &v.YoutubeID, &v.Type, &v.CreatedAt, &v.UpdatedAt); err != nil {
		if database.IsNoRows(err) {
			return nil, apperr.NotFound("video not found")
		}
		return nil, err
	}
	return &v, nil
}

func (r *Repository) queryVideos(ctx context.Context, sql string, args ...any) ([]models.Video, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *v)
	}
	return list, rows.Err()
}

// List returns all videos, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Video, error) {
	return r.queryVideos(ctx, `SELECT `+videoColumns+` FROM videos ORDER BY created_at DESC, id DESC`)
}

// ListByCategory returns videos in a category.
func (r *Repository) ListByCategory(ctx context.Context, category string) ([]models.Video, error) {
	return r.queryVideos(ctx, `SELECT `+videoColumns+` FROM videos WHERE category = $1 ORDER BY created_at DESC, id DESC`, category)
}

// Search matches title or category case-insensitively.
func (r *Repository) Search(ctx context.Context, query string) ([]models.Video, error) {
	return r.queryVideos(ctx, `SELECT `+videoColumns+` FROM videos
		WHERE title ILIKE $1 OR category ILIKE $1
		ORDER BY created_at DESC, id DESC`, database.ContainsPattern(query))
}

// GetByID returns a video by ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Video, error) {
	return scanVideo(r.pool.QueryRow(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, id))
}

// Create inserts a video.
func (r *Repository) Create(ctx context.Context, v *models.Video) error {
	const q = `INSERT INTO videos (title, category, youtube_id, type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, v.Title, v.Category, v.YoutubeID, v.Type).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
}

// Update writes every mutable column of v.
func (r *Repository) Update(ctx context.Context, v *models.Video) error {
	const q = `UPDATE videos SET title = $1, category = $2, youtube_id = $3, updated_at = NOW()
		WHERE id = $4 RETURNING updated_at`
	err := r.pool.QueryRow(ctx, q, v.Title, v.Category, v.YoutubeID, v.ID).Scan(&v.UpdatedAt)
	if database.IsNoRows(err) {
		return apperr.NotFound("video not found")
	}
	return err
}

// Delete removes a video; additional videos and QnA cascade. Likes point at
// questions and replies without a foreign key, so they are removed first.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return deleteVideo(ctx, tx, id)
	})
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func deleteVideo(ctx context.Context, tx execer, id int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM likes WHERE content_type = 'reply' AND content_id IN (
		SELECT r.id FROM replies r JOIN question_and_answers q ON q.id = r.question_and_answer_id
		WHERE q.video_id = $1)`, id); err != nil {
		return fmt.Errorf("delete reply likes: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM likes WHERE content_type = 'question' AND content_id IN (
		SELECT id FROM question_and_answers WHERE video_id = $1)`, id); err != nil {
		return fmt.Errorf("delete question likes: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("video not found")
	}
	return nil
}

const additionalColumns = `id, title, youtube_id, video_id, created_at, updated_at`

func scanAdditional(row pgx.Row) (*models.AdditionalVideo, error) {
	var a models.AdditionalVideo
	if err := row.Scan(&a.ID, &a.Title, &a.YoutubeID, &a.VideoID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if database.IsNoRows(err) {
			return nil, apperr.NotFound("additional video not found")
		}
		return nil, err
	}
	return &a, nil
}

func (r *Repository) queryAdditional(ctx context.Context, sql string, args ...any) ([]models.AdditionalVideo, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.AdditionalVideo{}
	for rows.Next() {
		a, err := scanAdditional(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}

// ListAdditional returns all additional videos.
func (r *Repository) ListAdditional(ctx context.Context) ([]models.AdditionalVideo, error) {
	return r.queryAdditional(ctx, `SELECT `+additionalColumns+` FROM additional_videos ORDER BY id`)
}

// ListAdditionalByVideo returns the additional videos attached to videoID.
func (r *Repository) ListAdditionalByVideo(ctx context.Context, videoID int64) ([]models.AdditionalVideo, error) {
	return r.queryAdditional(ctx, `SELECT `+additionalColumns+` FROM additional_videos WHERE video_id = $1 ORDER BY id`, videoID)
}

// GetAdditional returns an additional video by ID.
func (r *Repository) GetAdditional(ctx context.Context, id int64) (*models.AdditionalVideo, error) {
	return scanAdditional(r.pool.QueryRow(ctx, `SELECT `+additionalColumns+` FROM additional_videos WHERE id = $1`, id))
}

// CreateAdditional inserts an additional video.
func (r *Repository) CreateAdditional(ctx context.Context, a *models.AdditionalVideo) error {
	const q = `INSERT INTO additional_videos (title, youtube_id, video_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, a.Title, a.YoutubeID, a.VideoID).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// UpdateAdditional writes every mutable column of a.
func (r *Repository) UpdateAdditional(ctx context.Context, a *models.AdditionalVideo) error {
	const q = `UPDATE additional_videos SET title = $1, youtube_id = $2, video_id = $3, updated_at = NOW()
		WHERE id = $4 RETURNING updated_at`
	err := r.pool.QueryRow(ctx, q, a.Title, a.YoutubeID, a.VideoID, a.ID).Scan(&a.UpdatedAt)
	if database.IsNoRows(err) {
		return apperr.NotFound("additional video not found")
	}
	return err
}

// DeleteAdditional removes an additional video.
func (r *Repository) DeleteAdditional(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM additional_videos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("additional video not found")
	}
	return nil
}
