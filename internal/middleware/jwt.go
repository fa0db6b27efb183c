package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/farmwise/backend/internal/auth"
	"github.com/farmwise/backend/internal/authz"
	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/pkg/response"
)

const (
	// ContextUserID is the key for user ID (int64) in gin context.
	ContextUserID = "user_id"
	// ContextUserRole is the key for user role (models.Role) in gin context.
	ContextUserRole = "user_role"
	// ContextUserEmail is the key for user email in gin context.
	ContextUserEmail = "user_email"
)

// TokenValidator validates a bearer token.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// JWT returns a middleware that validates the bearer token and sets user claims in context.
func JWT(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := validator.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		SetActor(c, authz.Actor{UserID: claims.UserID, Role: claims.Role})
		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}

// SetActor stores the authenticated caller in the context.
func SetActor(c *gin.Context, a authz.Actor) {
	c.Set(ContextUserID, a.UserID)
	c.Set(ContextUserRole, a.Role)
}

// Actor returns the authenticated caller. Zero Actor when JWT did not run.
func Actor(c *gin.Context) authz.Actor {
	id, _ := c.Get(ContextUserID)
	role, _ := c.Get(ContextUserRole)
	a := authz.Actor{}
	a.UserID, _ = id.(int64)
	a.Role, _ = role.(models.Role)
	return a
}
