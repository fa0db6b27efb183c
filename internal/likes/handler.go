package likes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmwise/backend/internal/middleware"
	"github.com/farmwise/backend/pkg/response"
)

// LikeRequest is the body of POST /likes, DELETE /likes and POST /likes/toggle-like.
// UserID defaults to the caller; only admins may act for someone else.
type LikeRequest struct {
	UserID      *int64 `json:"userId"`
	ContentType string `json:"contentType" binding:"required"`
	ContentID   int64  `json:"contentId" binding:"required"`
}

// Handler handles like HTTP endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a like handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) bind(c *gin.Context) (int64, Target, bool) {
	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return 0, Target{}, false
	}
	t, err := ParseTarget(req.ContentType, req.ContentID)
	if err != nil {
		response.Error(c, err, "")
		return 0, Target{}, false
	}
	actor := middleware.Actor(c)
	userID := actor.UserID
	if req.UserID != nil {
		if err := actor.CanActFor(*req.UserID); err != nil {
			response.Error(c, err, "")
			return 0, Target{}, false
		}
		userID = *req.UserID
	}
	return userID, t, true
}

func targetParams(c *gin.Context) (Target, bool) {
	t, err := ParseTargetParams(c.Param("contentType"), c.Param("contentId"))
	if err != nil {
		response.Error(c, err, "")
		return Target{}, false
	}
	return t, true
}

// Add handles POST /likes.
func (h *Handler) Add(c *gin.Context) {
	userID, t, ok := h.bind(c)
	if !ok {
		return
	}
	like, count, err := h.svc.AddLike(c.Request.Context(), userID, t)
	if err != nil {
		response.Error(c, err, "failed to like content")
		return
	}
	response.Created(c, gin.H{"message": "Content liked successfully", "like": like, "likesCount": count})
}

// Remove handles DELETE /likes.
func (h *Handler) Remove(c *gin.Context) {
	userID, t, ok := h.bind(c)
	if !ok {
		return
	}
	count, err := h.svc.RemoveLike(c.Request.Context(), userID, t)
	if err != nil {
		response.Error(c, err, "failed to remove like")
		return
	}
	response.OK(c, gin.H{"message": "Like removed successfully", "likesCount": count})
}

// Toggle handles POST /likes/toggle-like.
func (h *Handler) Toggle(c *gin.Context) {
	userID, t, ok := h.bind(c)
	if !ok {
		return
	}
	state, err := h.svc.ToggleLike(c.Request.Context(), userID, t)
	if err != nil {
		response.Error(c, err, "failed to toggle like")
		return
	}
	response.OK(c, state)
}

// Count handles GET /likes/count/:contentType/:contentId.
func (h *Handler) Count(c *gin.Context) {
	t, ok := targetParams(c)
	if !ok {
		return
	}
	n, err := h.svc.GetLikesCount(c.Request.Context(), t)
	if err != nil {
		response.Internal(c, "failed to count likes", err)
		return
	}
	response.OK(c, gin.H{"likesCount": n})
}

// Check handles GET /likes/check/:userId/:contentType/:contentId.
func (h *Handler) Check(c *gin.Context) {
	userID, ok := response.ParamID(c, "userId", "user")
	if !ok {
		return
	}
	if err := middleware.Actor(c).CanActFor(userID); err != nil {
		response.Error(c, err, "")
		return
	}
	t, ok := targetParams(c)
	if !ok {
		return
	}
	liked, err := h.svc.CheckUserLike(c.Request.Context(), userID, t)
	if err != nil {
		response.Internal(c, "failed to check like", err)
		return
	}
	response.OK(c, gin.H{"liked": liked})
}

// List handles GET /likes/:contentType/:contentId.
func (h *Handler) List(c *gin.Context) {
	t, ok := targetParams(c)
	if !ok {
		return
	}
	list, err := h.svc.GetContentLikes(c.Request.Context(), t)
	if err != nil {
		response.Internal(c, "failed to list likes", err)
		return
	}
	response.OK(c, list)
}

