package videos

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/internal/validate"
	"github.com/farmwise/backend/pkg/response"
)

// Store is the persistence the video handlers need. *Repository implements it.
type Store interface {
	List(ctx context.Context) ([]models.Video, error)
	ListByCategory(ctx context.Context, category string) ([]models.Video, error)
	Search(ctx context.Context, query string) ([]models.Video, error)
	GetByID(ctx context.Context, id int64) (*models.Video, error)
	Create(ctx context.Context, v *models.Video) error
	Update(ctx context.Context, v *models.Video) error
	Delete(ctx context.Context, id int64) error

	ListAdditional(ctx context.Context) ([]models.AdditionalVideo, error)
	ListAdditionalByVideo(ctx context.Context, videoID int64) ([]models.AdditionalVideo, error)
	GetAdditional(ctx context.Context, id int64) (*models.AdditionalVideo, error)
	CreateAdditional(ctx context.Context, a *models.AdditionalVideo) error
	UpdateAdditional(ctx context.Context, a *models.AdditionalVideo) error
	DeleteAdditional(ctx context.Context, id int64) error
}

// VideoRequest is the body for POST and PUT /videos. Pointer fields distinguish omitted from empty.
type VideoRequest struct {
	Title     *string      `json:"title"`
	Category  *string      `json:"category"`
	YoutubeID *string      `json:"youtubeId"`
	Type      *models.Kind `json:"type"`
}

// Handler handles video HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a video handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// List handles GET /videos.
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list videos", err)
		return
	}
	response.OK(c, list)
}

// ListByCategory handles GET /videos/category/:category.
func (h *Handler) ListByCategory(c *gin.Context) {
	list, err := h.store.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		response.Internal(c, "failed to list videos", err)
		return
	}
	response.OK(c, list)
}

// Search handles GET /videos/search?query=.
func (h *Handler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		response.BadRequest(c, "query parameter is required")
		return
	}
	list, err := h.store.Search(c.Request.Context(), query)
	if err != nil {
		response.Internal(c, "failed to search videos", err)
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /videos/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := response.ParamID(c, "id", "video")
	if !ok {
		return
	}
	v, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "failed to load video")
		return
	}
	response.OK(c, v)
}

// Create handles POST /videos (admin).
func (h *Handler) Create(c *gin.Context) {
	var req VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := validate.Required(
		validate.NonBlank("title", req.Title),
		validate.NonBlank("category", req.Category),
		validate.Set("type", req.Type),
	); err != nil {
		response.Error(c, err, "")
		return
	}
	if !req.Type.Valid() {
		response.BadRequest(c, "type must be animal or crop")
		return
	}

	v := &models.Video{Title: *req.Title, Category: *req.Category, Type: *req.Type}
	validate.Patch(&v.YoutubeID, req.YoutubeID)
	if err := h.store.Create(c.Request.Context(), v); err != nil {
		h.logger.Error("create video", zap.Error(err))
		response.Internal(c, "failed to create video", err)
		return
	}
	response.Created(c, v)
}

// Update handles PUT /videos/:id (admin). The type of a video never changes.
func (h *Handler) Update(c *gin.Context) {
	id, ok := response.ParamID(c, "id", "video")
	if !ok {
		return
	}
	var req VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := validate.NotBlank(
		validate.Kept("title", req.Title),
		validate.Kept("category", req.Category),
	); err != nil {
		response.Error(c, err, "")
		return
	}
	ctx := c.Request.Context()
	v, err := h.store.GetByID(ctx, id)
	if err != nil {
		response.Error(c, err, "failed to load video")
		return
	}
	if req.Type != nil && *req.Type != v.Type {
		response.BadRequest(c, "video type cannot be changed")
		return
	}
	validate.Patch(&v.Title, req.Title)
	validate.Patch(&v.Category, req.Category)
	validate.Patch(&v.YoutubeID, req.YoutubeID)
	if err := h.store.Update(ctx, v); err != nil {
		response.Error(c, err, "failed to update video")
		return
	}
	response.OK(c, v)
}

// Delete handles DELETE /videos/:id (admin).
func (h *Handler) Delete(c *gin.Context) {
	id, ok := response.ParamID(c, "id", "video")
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err, "failed to delete video")
		return
	}
	response.Message(c, "Video deleted successfully")
}

// AdditionalRequest is the body for POST and PUT /additional-videos.
type AdditionalRequest struct {
	Title     *string `json:"title"`
	YoutubeID *string `json:"youtubeId"`
	VideoID   *int64  `json:"videoId"`
}

// ListAdditional handles GET /additional-videos.
func (h *Handler) ListAdditional(c *gin.Context) {
	list, err := h.store.ListAdditional(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list additional videos", err)
		return
	}
	response.OK(c, list)
}

// ListAdditionalByVideo handles GET /additional-videos/video/:videoId.
func (h *Handler) ListAdditionalByVideo(c *gin.Context) {
	videoID, ok := response.ParamID(c, "videoId", "video")
	if !ok {
		return
	}
	list, err := h.store.ListAdditionalByVideo(c.Request.Context(), videoID)
	if err != nil {
		response.Internal(c, "failed to list additional videos", err)
		return
	}
	response.OK(c, list)
}

// GetAdditional handles GET /additional-videos/:id.
func (h *Handler) GetAdditional(c *gin.Context) {
	id, ok := response.ParamID(c, "id", "additional video")
	if !ok {
		return
	}
	a, err := h.store.GetAdditional(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "failed to load additional video")
		return
	}
	response.OK(c, a)
}

// CreateAdditional handles POST /additional-videos (admin). The parent video must exist.
func (h *Handler) CreateAdditional(c *gin.Context) {
	var req AdditionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := validate.Required(
		validate.NonBlank("title", req.Title),
		validate.NonBlank("youtubeId", req.YoutubeID),
		validate.Set("videoId", req.VideoID),
	); err != nil {
		response.Error(c, err, "")
		return
	}
	ctx := c.Request.Context()
	if _, err := h.store.GetByID(ctx, *req.VideoID); err != nil {
		response.Error(c, err, "failed to load video")
		return
	}

	a := &models.AdditionalVideo{Title: *req.Title, YoutubeID: *req.YoutubeID, VideoID: *req.VideoID}
	if err := h.store.CreateAdditional(ctx, a); err != nil {
		h.logger.Error("create additional video", zap.Error(err))
		response.Internal(c, "failed to create additional video", err)
		return
	}
	response.Created(c, a)
}

// UpdateAdditional handles PUT /additional-videos/:id (admin).
func (h *Handler) UpdateAdditional(c *gin.Context) {
	id, ok := response.ParamID(c, "id", "additional video")
	if !ok {
		return
	}
	var req AdditionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := validate.NotBlank(
		validate.Kept("title", req.Title),
		validate.Kept("youtubeId", req.YoutubeID),
	); err != nil {
		response.Error(c, err, "")
		return
	}
	ctx := c.Request.Context()
	a, err := h.store.GetAdditional(ctx, id)
	if err != nil {
		response.Error(c, err, "failed to load additional video")
		return
	}
	if req.VideoID != nil && *req.VideoID != a.VideoID {
		if _, err := h.store.GetByID(ctx, *req.VideoID); err != nil {
			response.Error(c, err, "failed to load video")
			return
		}
	}
	validate.Patch(&a.Title, req.Title)
	validate.Patch(&a.YoutubeID, req.YoutubeID)
	validate.Patch(&a.VideoID, req.VideoID)
	if err := h.store.UpdateAdditional(ctx, a); err != nil {
		response.Error(c, err, "failed to update additional video")
		return
	}
	response.OK(c, a)
}

// DeleteAdditional handles DELETE /additional-videos/:id (admin).
func (h *Handler) DeleteAdditional(c *gin.Context) {
	id, ok := response.ParamID(c, "id", "additional video")
	if !ok {
		return
	}
	if err := h.store.DeleteAdditional(c.Request.Context(), id); err != nil {
		response.Error(c, err, "failed to delete additional video")
		return
	}
	response.Message(c, "Additional video deleted successfully")
}
