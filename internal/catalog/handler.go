package catalog

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/internal/validate"
	"github.com/farmwise/backend/pkg/apperr"
	"github.com/farmwise/backend/pkg/response"
)

// Store is the catalogue persistence the handler needs.
type Store interface {
	List(ctx context.Context) ([]models.CatalogItem, error)
	ListByCategory(ctx context.Context, category string) ([]models.CatalogItem, error)
	Search(ctx context.Context, q string) ([]models.CatalogItem, error)
	GetByID(ctx context.Context, id int64) (*models.CatalogItem, error)
	Create(ctx context.Context, it *models.CatalogItem) error
	Update(ctx context.Context, it *models.CatalogItem) error
	Delete(ctx context.Context, id int64) error
}

// QuizLookup resolves the quiz an entry links to.
type QuizLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Quiz, error)
}

// MediaReleaser schedules removal of icons the catalogue no longer references.
type MediaReleaser interface {
	Release(ctx context.Context, url, reason string)
}

// ItemRequest is the body for POST and PUT on /animals and /crops.
type ItemRequest struct {
	Name     *string `json:"name"`
	Icon     *string `json:"icon"`
	Category *string `json:"category"`
	VideoURL *string `json:"videoUrl"`
	QuizID   *int64  `json:"quizId"` // 0 unlinks the quiz
}

// Handler handles catalogue HTTP endpoints for one kind.
type Handler struct {
	kind    models.Kind
	label   string
	store   Store
	quizzes QuizLookup
	media   MediaReleaser
	logger  *zap.Logger
}

// NewHandler creates a catalogue handler. media may be nil.
func NewHandler(kind models.Kind, store Store, quizzes QuizLookup, media MediaReleaser, logger *zap.Logger) *Handler {
	label := string(kind)
	return &Handler{
		kind:    kind,
		label:   strings.ToUpper(label[:1]) + label[1:],
		store:   store,
		quizzes: quizzes,
		media:   media,
		logger:  logger,
	}
}

// List handles GET /. Store failures are reported, never rethrown.
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list catalogue", zap.String("kind", string(h.kind)), zap.Error(err))
		response.Internal(c, "failed to list "+string(h.kind)+"s", err)
		return
	}
	response.OK(c, list)
}

// ListByCategory handles GET /category/:category.
func (h *Handler) ListByCategory(c *gin.Context) {
	list, err := h.store.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		response.Internal(c, "failed to list "+string(h.kind)+"s", err)
		return
	}
	response.OK(c, list)
}

// Search handles GET /search?query=.
func (h *Handler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("query"))
	if q == "" {
		response.BadRequest(c, "query parameter is required")
		return
	}
	list, err := h.store.Search(c.Request.Context(), q)
	if err != nil {
		response.Internal(c, "failed to search "+string(h.kind)+"s", err)
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := response.ParamID(c, "id", string(h.kind))
	if !ok {
		return
	}
	it, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "failed to load "+string(h.kind))
		return
	}
	response.OK(c, it)
}

// linkedQuiz maps the request quizId to the stored one; 0 means no quiz.
func linkedQuiz(quizID *int64) *int64 {
	if quizID == nil || *quizID == 0 {
		return nil
	}
	return quizID
}

// checkQuiz verifies a linked quiz exists and is about the same kind.
func (h *Handler) checkQuiz(ctx context.Context, quizID *int64) error {
	if linkedQuiz(quizID) == nil {
		return nil
	}
	q, err := h.quizzes.GetByID(ctx, *quizID)
	if err != nil {
		return err
	}
	if q.Type != h.kind {
		return apperr.BadRequest("quiz type must be " + string(h.kind))
	}
	return nil
}

// Create handles POST / (admin).
func (h *Handler) Create(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := validate.Required(
		validate.NonBlank("name", req.Name),
		validate.NonBlank("category", req.Category),
	); err != nil {
		response.Error(c, err, "")
		return
	}
	ctx := c.Request.Context()
	if err := h.checkQuiz(ctx, req.QuizID); err != nil {
		response.Error(c, err, "failed to load quiz")
		return
	}
	it := &models.CatalogItem{Kind: h.kind, Name: *req.Name, Category: *req.Category, QuizID: linkedQuiz(req.QuizID)}
	validate.Patch(&it.Icon, req.Icon)
	validate.Patch(&it.VideoURL, req.VideoURL)
	if err := h.store.Create(ctx, it); err != nil {
		h.logger.Error("create catalogue entry", zap.String("kind", string(h.kind)), zap.Error(err))
		response.Internal(c, "failed to create "+string(h.kind), err)
		return
	}
	response.Created(c, it)
}

// Update handles PUT /:id (admin). A replaced icon is released from the media bucket.
func (h *Handler) Update(c *gin.Context) {
	id, ok := response.ParamID(c, "id", string(h.kind))
	if !ok {
		return
	}
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := validate.NotBlank(
		validate.Kept("name", req.Name),
		validate.Kept("category", req.Category),
	); err != nil {
		response.Error(c, err, "")
		return
	}
	ctx := c.Request.Context()
	it, err := h.store.GetByID(ctx, id)
	if err != nil {
		response.Error(c, err, "failed to load "+string(h.kind))
		return
	}
	if err := h.checkQuiz(ctx, req.QuizID); err != nil {
		response.Error(c, err, "failed to load quiz")
		return
	}
	oldIcon := it.Icon
	validate.Patch(&it.Name, req.Name)
	validate.Patch(&it.Icon, req.Icon)
	validate.Patch(&it.Category, req.Category)
	validate.Patch(&it.VideoURL, req.VideoURL)
	if req.QuizID != nil {
		it.QuizID = linkedQuiz(req.QuizID)
	}
	if err := h.store.Update(ctx, it); err != nil {
		response.Error(c, err, "failed to update "+string(h.kind))
		return
	}
	if oldIcon != it.Icon {
		h.release(ctx, oldIcon, string(h.kind)+" icon replaced")
	}
	response.OK(c, it)
}

// Delete handles DELETE /:id (admin).
func (h *Handler) Delete(c *gin.Context) {
	id, ok := response.ParamID(c, "id", string(h.kind))
	if !ok {
		return
	}
	ctx := c.Request.Context()
	it, err := h.store.GetByID(ctx, id)
	if err != nil {
		response.Error(c, err, "failed to load "+string(h.kind))
		return
	}
	if err := h.store.Delete(ctx, id); err != nil {
		response.Error(c, err, "failed to delete "+string(h.kind))
		return
	}
	h.release(ctx, it.Icon, string(h.kind)+" deleted")
	response.Message(c, h.label+" deleted successfully")
}

func (h *Handler) release(ctx context.Context, url, reason string) {
	if h.media != nil && url != "" {
		h.media.Release(ctx, url, reason)
	}
}
