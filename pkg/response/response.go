package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farmwise/backend/pkg/apperr"
)

// Body is the error envelope returned on every non-2xx response.
type Body struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// OK sends a 200 JSON response with data as the body.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 JSON response with data as the body.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message sends 200 with a confirmation message (used by deletes).
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// BadRequest sends 400 with error message.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Body{Message: msg})
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, Body{Message: msg})
}

// Forbidden sends 403.
func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, Body{Message: msg})
}

// NotFound sends 404.
func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Body{Message: msg})
}

// TooManyRequests sends 429.
func TooManyRequests(c *gin.Context, msg string) {
	c.JSON(http.StatusTooManyRequests, Body{Message: msg})
}

// ServiceUnavailable sends 503.
func ServiceUnavailable(c *gin.Context, msg string) {
	c.JSON(http.StatusServiceUnavailable, Body{Message: msg})
}

// Internal sends 500 and echoes the underlying error to the client.
func Internal(c *gin.Context, msg string, err error) {
	b := Body{Message: msg}
	if err != nil {
		b.Error = err.Error()
	}
	c.JSON(http.StatusInternalServerError, b)
}

// Error maps a classified error to its status. Conflicts are reported as 400.
// Unclassified errors become 500 with fallback as the message.
func Error(c *gin.Context, err error, fallback string) {
	msg := apperr.Message(err)
	switch {
	case errors.Is(err, apperr.ErrBadRequest), errors.Is(err, apperr.ErrConflict):
		BadRequest(c, msg)
	case errors.Is(err, apperr.ErrNotFound):
		NotFound(c, msg)
	case errors.Is(err, apperr.ErrForbidden):
		Forbidden(c, msg)
	default:
		Internal(c, fallback, err)
	}
}
