package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/pkg/apperr"
	"github.com/farmwise/backend/pkg/response"
)

// Store is the user persistence the handler needs.
type Store interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.UserPublic, error)
	Create(ctx context.Context, u *models.User) error
}

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Username       string `json:"username" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6"`
	ProfilePicture string `json:"profilePicture"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the auth response with JWT.
type TokenResponse struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	store  Store
	jwt    *JWTService
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(store Store, jwt *JWTService, logger *zap.Logger) *Handler {
	return &Handler{store: store, jwt: jwt, logger: logger}
}

// Register handles POST /auth/register. Self-registered accounts always get the user role.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password", err)
		return
	}

	user := &models.User{
		Username:       strings.TrimSpace(req.Username),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Password:       hash,
		ProfilePicture: req.ProfilePicture,
		Role:           models.RoleUser,
	}
	if err := h.store.Create(c.Request.Context(), user); err != nil {
		if !errors.Is(err, apperr.ErrConflict) {
			h.logger.Error("create user", zap.Error(err))
		}
		response.Error(c, err, "failed to create user")
		return
	}

	token, err := h.jwt.Generate(user)
	if err != nil {
		response.Internal(c, "failed to generate token", err)
		return
	}
	response.Created(c, TokenResponse{Token: token, User: user.ToPublic()})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.store.GetByEmail(c.Request.Context(), req.Email)
	if err != nil || !CheckPassword(req.Password, user.Password) {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	token, err := h.jwt.Generate(user)
	if err != nil {
		response.Internal(c, "failed to generate token", err)
		return
	}
	response.OK(c, TokenResponse{Token: token, User: user.ToPublic()})
}

// List handles GET /users (admin only).
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list users", err)
		return
	}
	response.OK(c, list)
}
