// Package qna serves the questions asked under videos and their replies.
package qna

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmwise/backend/internal/likes"
	"github.com/farmwise/backend/internal/middleware"
	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/internal/validate"
	"github.com/farmwise/backend/pkg/response"
)

// Realtime event names.
const (
	EventQuestionCreated = "qna_created"
	EventReplyCreated    = "reply_created"
)

// Store is the question and reply persistence the handler needs.
type Store interface {
	ListQuestions(ctx context.Context) ([]models.QuestionAndAnswer, error)
	ListQuestionsByVideo(ctx context.Context, videoID int64) ([]models.QuestionAndAnswer, error)
	GetQuestion(ctx context.Context, id int64) (*models.QuestionAndAnswer, error)
	CreateQuestion(ctx context.Context, q *models.QuestionAndAnswer) error
	UpdateQuestion(ctx context.Context, q *models.QuestionAndAnswer) error
	DeleteQuestion(ctx context.Context, id int64) error

	ListReplies(ctx context.Context, viewerID int64) ([]models.Reply, error)
	ListRepliesByQuestion(ctx context.Context, qnaID, viewerID int64) ([]models.Reply, error)
	GetReply(ctx context.Context, id, viewerID int64) (*models.Reply, error)
	CreateReply(ctx context.Context, rp *models.Reply) error
	UpdateReply(ctx context.Context, rp *models.Reply) error
	DeleteReply(ctx context.Context, id int64) error
}

// VideoLookup confirms a video exists.
type VideoLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Video, error)
}

// Liker toggles a like on a question or reply.
type Liker interface {
	ToggleLike(ctx context.Context, userID int64, t likes.Target) (models.LikeState, error)
}

// QuestionRequest is the body for POST and PUT /qna.
type QuestionRequest struct {
	Text        *string `json:"text"`
	AuthorName  *string `json:"authorName"`
	AuthorImage *string `json:"authorImage"`
	VideoID     *int64  `json:"videoId"`
}

// ReplyRequest is the body for POST and PUT /replies.
type ReplyRequest struct {
	Text                *string `json:"text"`
	AuthorName          *string `json:"authorName"`
	AuthorImage         *string `json:"authorImage"`
	QuestionAndAnswerID *int64  `json:"questionAndAnswerId"`
}

// Handler handles QnA and reply HTTP endpoints.
type Handler struct {
	store     Store
	videos    VideoLookup
	liker     Liker
	publisher likes.Publisher
	logger    *zap.Logger
}

// NewHandler creates a QnA handler. publisher may be nil.
func NewHandler(store Store, videos VideoLookup, liker Liker, publisher likes.Publisher, logger *zap.Logger) *Handler {
	return &Handler{store: store, videos: videos, liker: liker, publisher: publisher, logger: logger}
}

func (h *Handler) publish(videoID int64, event string, payload interface{}) {
	if h.publisher != nil {
		h.publisher.PublishToVideo(videoID, event, payload)
	}
}

// ListQuestions handles GET /qna.
func (h *Handler) ListQuestions(c *gin.Context) {
	list, err := h.store.ListQuestions(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list questions", err)
		return
	}
	response.OK(c, list)
}

// ListQuestionsByVideo handles GET /qna/video/:videoId.
func (h *Handler) ListQuestionsByVideo(c *gin.Context) {
	videoID, ok := response.ParamID(c, "videoId", "video")
	if !ok {
		return
	}
	list, err := h.store.ListQuestionsByVideo(c.Request.Context(), videoID)
	if err != nil {
		response.Internal(c, "failed to list questions", err)
		return
	}
	response.OK(c, list)
}

// GetQuestion handles GET /qna/:id.
func (h *Handler) GetQuestion(c *gin.Context) {
	id, ok := response.ParamID(c, "id", "question")
	if !ok {
		return
	}
	q, err := h.store.GetQuestion(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "failed to load question")
		return
	}
	response.OK(c, q)
}

// CreateQuestion handles POST /qna. The author is the caller.
func (h *Handler) CreateQuestion(c *gin.Context) {
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := validate.Required(
		validate.NonBlank("text", req.Text),
		validate.NonBlank("authorName", req.AuthorName),
		validate.Set("videoId", req.VideoID),
	); err != nil {
		response.Error(c, err, "")
		return
	}
	ctx := c.Request.Context()
	if _, err := h.videos.GetByID(ctx, *req.VideoID); err != nil {
		response.Error(c, err, "failed to load video")
		return
	}
	q := &models.QuestionAndAnswer{
		Text:       *req.Text,
		AuthorName: *req.AuthorName,
		VideoID:    *req.VideoID,
		UserID:     middleware.Actor(c).UserID,
	}
	validate.Patch(&q.AuthorImage, req.AuthorImage)
	if err := h.store.CreateQuestion(ctx, q); err != nil {
		h.logger.Error("create question", zap.Error(err), zap.Int64("video_id", q.VideoID))
		response.Internal(c, "failed to create question", err)
		return
	}
	h.publish(q.VideoID, EventQuestionCreated, q)
	response.Created(c, q)
}

// UpdateQuestion handles PUT /qna/:id. Only the author may edit; the video is fixed.
func (h *Handler) UpdateQuestion(c *gin.Context) {
	id, ok := response.ParamID(c, "id", "question")
	if !ok {
		return
	}
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := validate.NotBlank(
		validate.Kept("text", req.Text),
		validate.Kept("authorName", req.AuthorName),
	); err != nil {
		response.Error(c, err, "")
		return
	}
	ctx := c.Request.Context()
	q, err := h.store.GetQuestion(ctx, id)
	if err != nil {
		response.Error(c, err, "failed to load question")
		return
	}
	if err := middleware.Actor(c).CanEdit(q, "questions"); err != nil {
		response.Error(c, err, "")
		return
	}
	validate.Patch(&q.Text, req.Text)
	validate.Patch(&q.AuthorName, req.AuthorName)
	validate.Patch(&q.AuthorImage, req.AuthorImage)
	if err := h.store.UpdateQuestion(ctx, q); err != nil {
		response.Error(c, err, "failed to update question")
		return
	}
	response.OK(c, q)
}

// DeleteQuestion handles DELETE /qna/:id (author or admin).
func (h *Handler) DeleteQuestion(c *gin.Context) {
	id, ok := response.ParamID(c, "id", "question")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	q, err := h.store.GetQuestion(ctx, id)
	if err != nil {
		response.Error(c, err, "failed to load question")
		return
	}
	if err := middleware.Actor(c).CanDelete(q, "questions"); err != nil {
		response.Error(c, err, "")
		return
	}
	if err := h.store.DeleteQuestion(ctx, id); err != nil {
		response.Error(c, err, "failed to delete question")
		return
	}
	response.Message(c, "Question deleted successfully")
}

// LikeQuestion handles POST /qna/:id/like and toggles the caller's like.
func (h *Handler) LikeQuestion(c *gin.Context) {
	id, ok := response.ParamID(c, "id", "question")
	if !ok {
		return
	}
	state, err := h.liker.ToggleLike(c.Request.Context(), middleware.Actor(c).UserID, likes.QuestionTarget(id))
	if err != nil {
		response.Error(c, err, "failed to like question")
		return
	}
	response.OK(c, state)
}

// ListReplies handles GET /replies.
func (h *Handler) ListReplies(c *gin.Context) {
	list, err := h.store.ListReplies(c.Request.Context(), middleware.Actor(c).UserID)
	if err != nil {
		response.Internal(c, "failed to list replies", err)
		return
	}
	response.OK(c, list)
}

// ListRepliesByQuestion handles GET /replies/qna/:qnaId.
func (h *Handler) ListRepliesByQuestion(c *gin.Context) {
	qnaID, ok := response.ParamID(c, "qnaId", "question")
	if !ok {
		return
	}
	list, err := h.store.ListRepliesByQuestion(c.Request.Context(), qnaID, middleware.Actor(c).UserID)
	if err != nil {
		response.Internal(c, "failed to list replies", err)
		return
	}
	response.OK(c, list)
}

// GetReply handles GET /replies/:id.
func (h *Handler) GetReply(c *gin.Context) {
	id, ok := response.ParamID(c, "id", "reply")
	if !ok {
		return
	}
	rp, err := h.store.GetReply(c.Request.Context(), id, middleware.Actor(c).UserID)
	if err != nil {
		response.Error(c, err, "failed to load reply")
		return
	}
	response.OK(c, rp)
}

// CreateReply handles POST /replies. The author is the caller.
func (h *Handler) CreateReply(c *gin.Context) {
	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := validate.Required(
		validate.NonBlank("text", req.Text),
		validate.NonBlank("authorName", req.AuthorName),
		validate.Set("questionAndAnswerId", req.QuestionAndAnswerID),
	); err != nil {
		response.Error(c, err, "")
		return
	}
	ctx := c.Request.Context()
	q, err := h.store.GetQuestion(ctx, *req.QuestionAndAnswerID)
	if err != nil {
		response.Error(c, err, "failed to load question")
		return
	}
	rp := &models.Reply{
		Text:                *req.Text,
		AuthorName:          *req.AuthorName,
		QuestionAndAnswerID: q.ID,
		UserID:              middleware.Actor(c).UserID,
	}
	validate.Patch(&rp.AuthorImage, req.AuthorImage)
	if err := h.store.CreateReply(ctx, rp); err != nil {
		h.logger.Error("create reply", zap.Error(err), zap.Int64("question_id", q.ID))
		response.Internal(c, "failed to create reply", err)
		return
	}
	h.publish(q.VideoID, EventReplyCreated, rp)
	response.Created(c, rp)
}

// UpdateReply handles PUT /replies/:id. Only the author may edit.
func (h *Handler) UpdateReply(c *gin.Context) {
	id, ok := response.ParamID(c, "id", "reply")
	if !ok {
		return
	}
	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := validate.NotBlank(
		validate.Kept("text", req.Text),
		validate.Kept("authorName", req.AuthorName),
	); err != nil {
		response.Error(c, err, "")
		return
	}
	ctx := c.Request.Context()
	actor := middleware.Actor(c)
	rp, err := h.store.GetReply(ctx, id, actor.UserID)
	if err != nil {
		response.Error(c, err, "failed to load reply")
		return
	}
	if err := actor.CanEdit(rp, "replies"); err != nil {
		response.Error(c, err, "")
		return
	}
	validate.Patch(&rp.Text, req.Text)
	validate.Patch(&rp.AuthorName, req.AuthorName)
	validate.Patch(&rp.AuthorImage, req.AuthorImage)
	if err := h.store.UpdateReply(ctx, rp); err != nil {
		response.Error(c, err, "failed to update reply")
		return
	}
	response.OK(c, rp)
}

// DeleteReply handles DELETE /replies/:id (author or admin).
func (h *Handler) DeleteReply(c *gin.Context) {
	id, ok := response.ParamID(c, "id", "reply")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	actor := middleware.Actor(c)
	rp, err := h.store.GetReply(ctx, id, actor.UserID)
	if err != nil {
		response.Error(c, err, "failed to load reply")
		return
	}
	if err := actor.CanDelete(rp, "replies"); err != nil {
		response.Error(c, err, "")
		return
	}
	if err := h.store.DeleteReply(ctx, id); err != nil {
		response.Error(c, err, "failed to delete reply")
		return
	}
	response.Message(c, "Reply deleted successfully")
}

// LikeReply handles POST /replies/:id/like and toggles the caller's like.
func (h *Handler) LikeReply(c *gin.Context) {
	id, ok := response.ParamID(c, "id", "reply")
	if !ok {
		return
	}
	state, err := h.liker.ToggleLike(c.Request.Context(), middleware.Actor(c).UserID, likes.ReplyTarget(id))
	if err != nil {
		response.Error(c, err, "failed to like reply")
		return
	}
	response.OK(c, state)
}
