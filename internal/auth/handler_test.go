package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/pkg/apperr"
)

type memUsers struct {
	mu    sync.Mutex
	users []*models.User
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (m *memUsers) List(context.Context) ([]models.UserPublic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.UserPublic{}
	for _, u := range m.users {
		out = append(out, u.ToPublic())
	}
	return out, nil
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return apperr.Conflict("email already registered")
		}
	}
	u.ID = int64(len(m.users) + 1)
	u.CreatedAt = time.Now()
	cp := *u
	m.users = append(m.users, &cp)
	return nil
}

func newRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, NewJWTService("secret", 1), zap.NewNop())
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	return r
}

func post(r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	r := newRouter(&memUsers{})

	w := post(r, "/auth/register", RegisterRequest{Username: "kofi", Email: "Kofi@Farm.test", Password: "secret1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var reg TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "kofi@farm.test", reg.User.Email)
	assert.Equal(t, models.RoleUser, reg.User.Role)

	w = post(r, "/auth/register", RegisterRequest{Username: "kofi2", Email: "kofi@farm.test", Password: "secret1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email already registered")

	w = post(r, "/auth/login", LoginRequest{Email: "kofi@farm.test", Password: "secret1"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = post(r, "/auth/login", LoginRequest{Email: "kofi@farm.test", Password: "wrong!"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
