package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmwise/backend/pkg/apperr"
)

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   Body
	}{
		{"not found", apperr.NotFound("video not found"), http.StatusNotFound, Body{Message: "video not found"}},
		{"forbidden", apperr.Forbidden("not yours"), http.StatusForbidden, Body{Message: "not yours"}},
		{"conflict is 400", apperr.Conflict("content already liked"), http.StatusBadRequest, Body{Message: "content already liked"}},
		{"bad request", apperr.MissingFields("text"), http.StatusBadRequest, Body{Message: "missing required fields: text"}},
		{"store failure", errors.New("connection refused"), http.StatusInternalServerError, Body{Message: "failed to load", Error: "connection refused"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Error(c, tt.err, "failed to load")

			assert.Equal(t, tt.wantStatus, w.Code)
			var got Body
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.wantBody, got)
		})
	}
}
