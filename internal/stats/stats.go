// Package stats serves the admin dashboard totals.
package stats

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/farmwise/backend/pkg/response"
)

// Summary is the JSON shape of GET /stats.
type Summary struct {
	Videos           int64 `json:"videos"`
	AdditionalVideos int64 `json:"additionalVideos"`
	Animals          int64 `json:"animals"`
	Crops            int64 `json:"crops"`
	Quizzes          int64 `json:"quizzes"`
	Questions        int64 `json:"questions"`
	Replies          int64 `json:"replies"`
	Likes            int64 `json:"likes"`
	Users            int64 `json:"users"`
	CompletedQuizzes int64 `json:"completedQuizzes"`
}

// Source produces the dashboard summary.
type Source interface {
	Summary(ctx context.Context) (*Summary, error)
}

// Repository counts rows across the content tables.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a stats repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Summary returns every total in one round trip.
func (r *Repository) Summary(ctx context.Context) (*Summary, error) {
	var s Summary
	err := r.pool.QueryRow(ctx, `SELECT
		(SELECT COUNT(*) FROM videos),
		(SELECT COUNT(*) FROM additional_videos),
		(SELECT COUNT(*) FROM animals),
		(SELECT COUNT(*) FROM crops),
		(SELECT COUNT(*) FROM quizzes),
		(SELECT COUNT(*) FROM question_and_answers),
		(SELECT COUNT(*) FROM replies),
		(SELECT COUNT(*) FROM likes),
		(SELECT COUNT(*) FROM users),
		(SELECT COUNT(*) FROM user_progress WHERE completed)`).Scan(
		&s.Videos, &s.AdditionalVideos, &s.Animals, &s.Crops, &s.Quizzes,
		&s.Questions, &s.Replies, &s.Likes, &s.Users, &s.CompletedQuizzes,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Handler handles GET /stats (admin).
type Handler struct {
	source Source
	logger *zap.Logger
}

// NewHandler creates a stats handler.
func NewHandler(source Source, logger *zap.Logger) *Handler {
	return &Handler{source: source, logger: logger}
}

// Get handles GET /stats.
func (h *Handler) Get(c *gin.Context) {
	s, err := h.source.Summary(c.Request.Context())
	if err != nil {
		h.logger.Error("load dashboard stats", zap.Error(err))
		response.Internal(c, "failed to load stats", err)
		return
	}
	response.OK(c, s)
}
