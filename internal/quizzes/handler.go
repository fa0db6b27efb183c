package quizzes

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/internal/validate"
	"github.com/farmwise/backend/pkg/response"
)

// Store is the quiz persistence the handler needs.
type Store interface {
	List(ctx context.Context, kind models.Kind) ([]models.Quiz, error)
	GetByID(ctx context.Context, id int64) (*models.Quiz, error)
	Create(ctx context.Context, q *models.Quiz) error
	Update(ctx context.Context, q *models.Quiz) error
	Delete(ctx context.Context, id int64) error
	ListQuestions(ctx context.Context, quizID int64) ([]models.QuizQuestion, error)
	CreateQuestion(ctx context.Context, q *models.QuizQuestion) error
	DeleteQuestion(ctx context.Context, quizID, questionID int64) error
}

// QuizRequest is the body for POST and PUT /quizzes.
type QuizRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Type        *models.Kind `json:"type"`
}

// QuestionRequest is the body for POST /quizzes/:id/questions.
type QuestionRequest struct {
	Question      string `json:"question" binding:"required"`
	OptionA       string `json:"optionA" binding:"required"`
	OptionB       string `json:"optionB" binding:"required"`
	OptionC       string `json:"optionC" binding:"required"`
	OptionD       string `json:"optionD" binding:"required"`
	CorrectOption string `json:"correctOption" binding:"required,oneof=A B C D"`
}

// QuizWithQuestions is the GET /quizzes/:id response.
type QuizWithQuestions struct {
	models.Quiz
	Questions []models.QuizQuestion `json:"questions"`
}

// Handler handles quiz HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a quiz handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// List handles GET /quizzes?type=animal|crop.
func (h *Handler) List(c *gin.Context) {
	kind := models.Kind(c.Query("type"))
	if kind != "" && !kind.Valid() {
		response.BadRequest(c, "type must be animal or crop")
		return
	}
	list, err := h.store.List(c.Request.Context(), kind)
	if err != nil {
		response.Internal(c, "failed to list quizzes", err)
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /quizzes/:id and embeds the questions.
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := response.ParamID(c, "id", "quiz")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	q, err := h.store.GetByID(ctx, id)
	if err != nil {
		response.Error(c, err, "failed to load quiz")
		return
	}
	questions, err := h.store.ListQuestions(ctx, id)
	if err != nil {
		response.Internal(c, "failed to load quiz questions", err)
		return
	}
	response.OK(c, QuizWithQuestions{Quiz: *q, Questions: questions})
}

// Create handles POST /quizzes (admin).
func (h *Handler) Create(c *gin.Context) {
	var req QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := validate.Required(
		validate.NonBlank("title", req.Title),
		validate.Set("type", req.Type),
	); err != nil {
		response.Error(c, err, "")
		return
	}
	if !req.Type.Valid() {
		response.BadRequest(c, "type must be animal or crop")
		return
	}
	q := &models.Quiz{Title: *req.Title, Type: *req.Type}
	validate.Patch(&q.Description, req.Description)
	if err := h.store.Create(c.Request.Context(), q); err != nil {
		h.logger.Error("create quiz", zap.Error(err))
		response.Internal(c, "failed to create quiz", err)
		return
	}
	response.Created(c, q)
}

// Update handles PUT /quizzes/:id (admin). Animals and crops point at quizzes by type, so the type is fixed.
func (h *Handler) Update(c *gin.Context) {
	id, ok := response.ParamID(c, "id", "quiz")
	if !ok {
		return
	}
	var req QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := validate.NotBlank(
		validate.Kept("title", req.Title),
	); err != nil {
		response.Error(c, err, "")
		return
	}
	ctx := c.Request.Context()
	q, err := h.store.GetByID(ctx, id)
	if err != nil {
		response.Error(c, err, "failed to load quiz")
		return
	}
	if req.Type != nil && *req.Type != q.Type {
		response.BadRequest(c, "quiz type cannot be changed")
		return
	}
	validate.Patch(&q.Title, req.Title)
	validate.Patch(&q.Description, req.Description)
	if err := h.store.Update(ctx, q); err != nil {
		response.Error(c, err, "failed to update quiz")
		return
	}
	response.OK(c, q)
}

// Delete handles DELETE /quizzes/:id (admin).
func (h *Handler) Delete(c *gin.Context) {
	id, ok := response.ParamID(c, "id", "quiz")
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err, "failed to delete quiz")
		return
	}
	response.Message(c, "Quiz deleted successfully")
}

// ListQuestions handles GET /quizzes/:id/questions.
func (h *Handler) ListQuestions(c *gin.Context) {
	id, ok := response.ParamID(c, "id", "quiz")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := h.store.GetByID(ctx, id); err != nil {
		response.Error(c, err, "failed to load quiz")
		return
	}
	list, err := h.store.ListQuestions(ctx, id)
	if err != nil {
		response.Internal(c, "failed to list quiz questions", err)
		return
	}
	response.OK(c, list)
}

// CreateQuestion handles POST /quizzes/:id/questions (admin).
func (h *Handler) CreateQuestion(c *gin.Context) {
	id, ok := response.ParamID(c, "id", "quiz")
	if !ok {
		return
	}
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	ctx := c.Request.Context()
	if _, err := h.store.GetByID(ctx, id); err != nil {
		response.Error(c, err, "failed to load quiz")
		return
	}
	q := &models.QuizQuestion{
		QuizID:        id,
		Question:      req.Question,
		OptionA:       req.OptionA,
		OptionB:       req.OptionB,
		OptionC:       req.OptionC,
		OptionD:       req.OptionD,
		CorrectOption: req.CorrectOption,
	}
	if err := h.store.CreateQuestion(ctx, q); err != nil {
		h.logger.Error("create quiz question", zap.Error(err), zap.Int64("quiz_id", id))
		response.Internal(c, "failed to create quiz question", err)
		return
	}
	response.Created(c, q)
}

// DeleteQuestion handles DELETE /quizzes/:id/questions/:questionId (admin).
func (h *Handler) DeleteQuestion(c *gin.Context) {
	id, ok := response.ParamID(c, "id", "quiz")
	if !ok {
		return
	}
	questionID, ok := response.ParamID(c, "questionId", "question")
	if !ok {
		return
	}
	if err := h.store.DeleteQuestion(c.Request.Context(), id, questionID); err != nil {
		response.Error(c, err, "failed to delete quiz question")
		return
	}
	response.Message(c, "Quiz question deleted successfully")
}
