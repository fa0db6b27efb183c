package progress

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmwise/backend/internal/middleware"
	"github.com/farmwise/backend/internal/validate"
	"github.com/farmwise/backend/pkg/response"
)

// SubmitRequest is the body of POST /progress. UserID defaults to the caller.
type SubmitRequest struct {
	UserID    *int64 `json:"userId"`
	QuizID    *int64 `json:"quizId"`
	Score     *int   `json:"score"`
	Completed *bool  `json:"completed"`
}

// Handler handles progress HTTP endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a progress handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Submit handles POST /progress. Responds 200 for both first and repeat submissions.
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := validate.Required(
		validate.Set("quizId", req.QuizID),
		validate.Set("score", req.Score),
	); err != nil {
		response.Error(c, err, "")
		return
	}
	actor := middleware.Actor(c)
	userID := actor.UserID
	if req.UserID != nil {
		if err := actor.CanActFor(*req.UserID); err != nil {
			response.Error(c, err, "")
			return
		}
		userID = *req.UserID
	}
	p, err := h.svc.CreateOrUpdateUserProgress(c.Request.Context(), userID, *req.QuizID, *req.Score, req.Completed)
	if err != nil {
		h.logger.Debug("submit progress", zap.Error(err), zap.Int64("user_id", userID))
		response.Error(c, err, "failed to save progress")
		return
	}
	response.OK(c, p)
}

func (h *Handler) pathUser(c *gin.Context) (int64, bool) {
	userID, ok := response.ParamID(c, "userId", "user")
	if !ok {
		return 0, false
	}
	if err := middleware.Actor(c).CanActFor(userID); err != nil {
		response.Error(c, err, "")
		return 0, false
	}
	return userID, true
}

// ListByUser handles GET /progress/user/:userId.
func (h *Handler) ListByUser(c *gin.Context) {
	userID, ok := h.pathUser(c)
	if !ok {
		return
	}
	list, err := h.svc.ListUserProgress(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to list progress", err)
		return
	}
	response.OK(c, list)
}

// CompletedCount handles GET /progress/user/:userId/completed-count.
func (h *Handler) CompletedCount(c *gin.Context) {
	userID, ok := h.pathUser(c)
	if !ok {
		return
	}
	n, err := h.svc.GetCompletedQuizzesCount(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to count completed quizzes", err)
		return
	}
	response.OK(c, gin.H{"completedCount": n})
}
