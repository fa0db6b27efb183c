package chat

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmwise/backend/internal/middleware"
	"github.com/farmwise/backend/internal/validate"
	"github.com/farmwise/backend/pkg/response"
)

// MessageRequest is the body of POST /chat. isBot must be present even when false.
type MessageRequest struct {
	Text   *string `json:"text"`
	IsBot  *bool   `json:"isBot"`
	UserID *int64  `json:"userId"`
}

// Handler handles chat HTTP endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a chat handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Create handles POST /chat.
func (h *Handler) Create(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := validate.Required(
		validate.NonBlank("text", req.Text),
		validate.Set("isBot", req.IsBot),
		validate.Set("userId", req.UserID),
	); err != nil {
		response.Error(c, err, "")
		return
	}
	if err := middleware.Actor(c).CanActFor(*req.UserID); err != nil {
		response.Error(c, err, "")
		return
	}
	m, err := h.svc.CreateChatMessage(c.Request.Context(), *req.Text, *req.IsBot, *req.UserID)
	if err != nil {
		h.logger.Error("create chat message", zap.Error(err), zap.Int64("user_id", *req.UserID))
		response.Internal(c, "failed to save message", err)
		return
	}
	response.Created(c, m)
}

func pathUser(c *gin.Context) (int64, bool) {
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

// Latest handles GET /chat/latest/:userId.
func (h *Handler) Latest(c *gin.Context) {
	userID, ok := pathUser(c)
	if !ok {
		return
	}
	list, err := h.svc.GetLatestConversation(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to load conversation", err)
		return
	}
	response.OK(c, list)
}

// Delete handles DELETE /chat/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := response.ParamID(c, "id", "message")
	if !ok {
		return
	}
	if err := h.svc.DeleteChatMessage(c.Request.Context(), id, middleware.Actor(c)); err != nil {
		response.Error(c, err, "failed to delete message")
		return
	}
	response.Message(c, "Message deleted successfully")
}

// Clear handles DELETE /chat/clear/:userId.
func (h *Handler) Clear(c *gin.Context) {
	userID, ok := pathUser(c)
	if !ok {
		return
	}
	n, err := h.svc.ClearChatHistory(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to clear chat history", err)
		return
	}
	response.OK(c, gin.H{"message": "Chat history cleared successfully", "deletedCount": n})
}
