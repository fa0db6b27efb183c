// Package likes implements liking of questions and replies.
package likes

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/pkg/apperr"
)

// EventLikeCount is broadcast to a video room whenever a like count changes.
const EventLikeCount = "like_count"

// Store is the like persistence the service needs.
type Store interface {
	Insert(ctx context.Context, userID int64, t Target) (*models.Like, bool, error)
	Delete(ctx context.Context, userID int64, t Target) (bool, error)
	Count(ctx context.Context, t Target) (int64, error)
	Exists(ctx context.Context, userID int64, t Target) (bool, error)
	ListWithUsers(ctx context.Context, t Target) ([]models.LikeWithUser, error)
}

// Publisher pushes realtime events to viewers of a video.
type Publisher interface {
	PublishToVideo(videoID int64, event string, payload interface{})
}

// CountEvent is the payload of EventLikeCount.
type CountEvent struct {
	ContentType models.ContentType `json:"content_type"`
	ContentID   int64              `json:"content_id"`
	Count       int64              `json:"count"`
}

// Service applies like operations to question and reply targets.
type Service struct {
	store     Store
	resolvers map[models.ContentType]Resolver
	publisher Publisher
	logger    *zap.Logger
}

// NewService creates a like service. Every content type needs a resolver.
// publisher may be nil.
func NewService(store Store, resolvers map[models.ContentType]Resolver, publisher Publisher, logger *zap.Logger) (*Service, error) {
	for _, ct := range models.ContentTypes() {
		if resolvers[ct] == nil {
			return nil, fmt.Errorf("likes: no resolver for content type %q", ct)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, resolvers: resolvers, publisher: publisher, logger: logger}, nil
}

func (s *Service) resolve(ctx context.Context, t Target) (int64, error) {
	r, ok := s.resolvers[t.Type]
	if !ok {
		return 0, apperr.BadRequest("contentType must be question or reply")
	}
	return r(ctx, t.ID)
}

// publish broadcasts the new count. Realtime delivery is best-effort.
func (s *Service) publish(videoID int64, t Target, count int64) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishToVideo(videoID, EventLikeCount, CountEvent{ContentType: t.Type, ContentID: t.ID, Count: count})
}

// AddLike records a like. A second like by the same user is a Conflict.
func (s *Service) AddLike(ctx context.Context, userID int64, t Target) (*models.Like, int64, error) {
	videoID, err := s.resolve(ctx, t)
	if err != nil {
		return nil, 0, err
	}
	like, inserted, err := s.store.Insert(ctx, userID, t)
	if err != nil {
		return nil, 0, err
	}
	if !inserted {
		return nil, 0, apperr.Conflict("content already liked")
	}
	count, err := s.store.Count(ctx, t)
	if err != nil {
		return nil, 0, err
	}
	s.publish(videoID, t, count)
	return like, count, nil
}

// RemoveLike deletes the user's like. NotFound if there was none.
func (s *Service) RemoveLike(ctx context.Context, userID int64, t Target) (int64, error) {
	videoID, err := s.resolve(ctx, t)
	if err != nil {
		return 0, err
	}
	removed, err := s.store.Delete(ctx, userID, t)
	if err != nil {
		return 0, err
	}
	if !removed {
		return 0, apperr.NotFound("like not found")
	}
	count, err := s.store.Count(ctx, t)
	if err != nil {
		return 0, err
	}
	s.publish(videoID, t, count)
	return count, nil
}

// ToggleLike removes the user's like if present and adds it otherwise.
func (s *Service) ToggleLike(ctx context.Context, userID int64, t Target) (models.LikeState, error) {
	videoID, err := s.resolve(ctx, t)
	if err != nil {
		return models.LikeState{}, err
	}
	removed, err := s.store.Delete(ctx, userID, t)
	if err != nil {
		return models.LikeState{}, err
	}
	state := models.LikeState{Liked: !removed}
	if !removed {
		// A concurrent toggle may have inserted first; either way the user now likes it.
		if _, _, err := s.store.Insert(ctx, userID, t); err != nil {
			return models.LikeState{}, err
		}
	}
	if state.Count, err = s.store.Count(ctx, t); err != nil {
		return models.LikeState{}, err
	}
	s.publish(videoID, t, state.Count)
	return state, nil
}

// GetLikesCount returns the number of likes on t.
func (s *Service) GetLikesCount(ctx context.Context, t Target) (int64, error) {
	return s.store.Count(ctx, t)
}

// CheckUserLike reports whether userID liked t.
func (s *Service) CheckUserLike(ctx context.Context, userID int64, t Target) (bool, error) {
	return s.store.Exists(ctx, userID, t)
}

// GetContentLikes lists who liked t.
func (s *Service) GetContentLikes(ctx context.Context, t Target) ([]models.LikeWithUser, error) {
	return s.store.ListWithUsers(ctx, t)
}
