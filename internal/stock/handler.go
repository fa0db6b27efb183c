package stock

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmwise/backend/internal/middleware"
	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/internal/validate"
	"github.com/farmwise/backend/pkg/response"
)

// Store is the stock persistence the handler needs.
type Store interface {
	ListByUser(ctx context.Context, userID int64) ([]models.StockItem, error)
	GetByID(ctx context.Context, id int64) (*models.StockItem, error)
	Create(ctx context.Context, s *models.StockItem) error
	Update(ctx context.Context, s *models.StockItem) error
	Delete(ctx context.Context, id int64) error
}

// ItemRequest is the body for POST and PUT /stock.
type ItemRequest struct {
	Name     *string  `json:"name"`
	Category *string  `json:"category"`
	Quantity *float64 `json:"quantity" binding:"omitempty,gte=0"`
	Unit     *string  `json:"unit"`
	Notes    *string  `json:"notes"`
}

// Handler handles stock HTTP endpoints. Items are visible and mutable only by their owner.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a stock handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// ListByUser handles GET /stock/user/:userId.
func (h *Handler) ListByUser(c *gin.Context) {
	userID, ok := response.ParamID(c, "userId", "user")
	if !ok {
		return
	}
	if err := middleware.Actor(c).CanActFor(userID); err != nil {
		response.Error(c, err, "")
		return
	}
	list, err := h.store.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to list stock", err)
		return
	}
	response.OK(c, list)
}

// load fetches an item and checks the caller owns it.
func (h *Handler) load(c *gin.Context) (*models.StockItem, bool) {
	id, ok := response.ParamID(c, "id", "stock item")
	if !ok {
		return nil, false
	}
	s, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "failed to load stock item")
		return nil, false
	}
	if err := middleware.Actor(c).CanEdit(s, "stock items"); err != nil {
		response.Error(c, err, "")
		return nil, false
	}
	return s, true
}

// GetByID handles GET /stock/:id.
func (h *Handler) GetByID(c *gin.Context) {
	s, ok := h.load(c)
	if !ok {
		return
	}
	response.OK(c, s)
}

// Create handles POST /stock for the caller.
func (h *Handler) Create(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := validate.Required(
		validate.NonBlank("name", req.Name),
		validate.Set("quantity", req.Quantity),
	); err != nil {
		response.Error(c, err, "")
		return
	}
	s := &models.StockItem{UserID: middleware.Actor(c).UserID, Name: *req.Name, Quantity: *req.Quantity}
	validate.Patch(&s.Category, req.Category)
	validate.Patch(&s.Unit, req.Unit)
	validate.Patch(&s.Notes, req.Notes)
	if err := h.store.Create(c.Request.Context(), s); err != nil {
		h.logger.Error("create stock item", zap.Error(err), zap.Int64("user_id", s.UserID))
		response.Internal(c, "failed to create stock item", err)
		return
	}
	response.Created(c, s)
}

// Update handles PUT /stock/:id.
func (h *Handler) Update(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := validate.NotBlank(
		validate.Kept("name", req.Name),
	); err != nil {
		response.Error(c, err, "")
		return
	}
	s, ok := h.load(c)
	if !ok {
		return
	}
	validate.Patch(&s.Name, req.Name)
	validate.Patch(&s.Category, req.Category)
	validate.Patch(&s.Quantity, req.Quantity)
	validate.Patch(&s.Unit, req.Unit)
	validate.Patch(&s.Notes, req.Notes)
	if err := h.store.Update(c.Request.Context(), s); err != nil {
		response.Error(c, err, "failed to update stock item")
		return
	}
	response.OK(c, s)
}

// Delete handles DELETE /stock/:id.
func (h *Handler) Delete(c *gin.Context) {
	s, ok := h.load(c)
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), s.ID); err != nil {
		response.Error(c, err, "failed to delete stock item")
		return
	}
	response.Message(c, "Stock item deleted successfully")
}
