package progress

import (
	"context"

	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/pkg/apperr"
)

// Store is the progress persistence the service needs.
type Store interface {
	Upsert(ctx context.Context, userID, quizID int64, score int, completed *bool) (*models.UserProgress, error)
	ListByUser(ctx context.Context, userID int64) ([]models.UserProgress, error)
	CountCompleted(ctx context.Context, userID int64) (int64, error)
}

// QuizLookup confirms a quiz exists.
type QuizLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Quiz, error)
}

// Service aggregates quiz results per user.
type Service struct {
	store   Store
	quizzes QuizLookup
}

// NewService creates a progress service.
func NewService(store Store, quizzes QuizLookup) *Service {
	return &Service{store: store, quizzes: quizzes}
}

// CreateOrUpdateUserProgress records a quiz submission. The stored score is
// the best ever submitted; completed defaults to false on first insert.
func (s *Service) CreateOrUpdateUserProgress(ctx context.Context, userID, quizID int64, score int, completed *bool) (*models.UserProgress, error) {
	if score < 0 {
		return nil, apperr.BadRequest("score must not be negative")
	}
	if _, err := s.quizzes.GetByID(ctx, quizID); err != nil {
		return nil, err
	}
	return s.store.Upsert(ctx, userID, quizID, score, completed)
}

// ListUserProgress returns every quiz result of a user.
func (s *Service) ListUserProgress(ctx context.Context, userID int64) ([]models.UserProgress, error) {
	return s.store.ListByUser(ctx, userID)
}

// GetCompletedQuizzesCount returns how many quizzes a user has completed.
func (s *Service) GetCompletedQuizzesCount(ctx context.Context, userID int64) (int64, error) {
	return s.store.CountCompleted(ctx, userID)
}
