package likes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/farmwise/backend/internal/authz"
	"github.com/farmwise/backend/internal/middleware"
	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/pkg/apperr"
)

type likeKey struct {
	user int64
	t    Target
}

type memStore struct {
	mu     sync.Mutex
	likes  map[likeKey]models.Like
	nextID int64
}

func newMemStore() *memStore { return &memStore{likes: map[likeKey]models.Like{}} }

func (m *memStore) Insert(_ context.Context, userID int64, t Target) (*models.Like, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := likeKey{userID, t}
	if _, ok := m.likes[k]; ok {
		return nil, false, nil
	}
	m.nextID++
	l := models.Like{ID: m.nextID, UserID: userID, ContentType: t.Type, ContentID: t.ID, CreatedAt: time.Now()}
	m.likes[k] = l
	return &l, true, nil
}

func (m *memStore) Delete(_ context.Context, userID int64, t Target) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := likeKey{userID, t}
	_, ok := m.likes[k]
	delete(m.likes, k)
	return ok, nil
}

func (m *memStore) Count(_ context.Context, t Target) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k := range m.likes {
		if k.t == t {
			n++
		}
	}
	return n, nil
}

func (m *memStore) Exists(_ context.Context, userID int64, t Target) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.likes[likeKey{userID, t}]
	return ok, nil
}

func (m *memStore) ListWithUsers(_ context.Context, t Target) ([]models.LikeWithUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.LikeWithUser{}
	for k, l := range m.likes {
		if k.t == t {
			out = append(out, models.LikeWithUser{Like: l, User: models.LikeUser{ID: k.user, Username: "farmer"}})
		}
	}
	return out, nil
}

type event struct {
	videoID int64
	name    string
	payload CountEvent
}

type recorder struct {
	mu     sync.Mutex
	events []event
}

func (r *recorder) PublishToVideo(videoID int64, name string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{videoID, name, payload.(CountEvent)})
}

// question 1 and reply 10 live under video 7.
func testResolvers() map[models.ContentType]Resolver {
	return map[models.ContentType]Resolver{
		models.ContentQuestion: func(_ context.Context, id int64) (int64, error) {
			if id != 1 {
				return 0, apperr.NotFound("question not found")
			}
			return 7, nil
		},
		models.ContentReply: func(_ context.Context, id int64) (int64, error) {
			if id != 10 {
				return 0, apperr.NotFound("reply not found")
			}
			return 7, nil
		},
	}
}

func newTestService(t *testing.T, pub Publisher) *Service {
	t.Helper()
	svc, err := NewService(newMemStore(), testResolvers(), pub, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresEveryResolver(t *testing.T) {
	r := testResolvers()
	delete(r, models.ContentReply)
	_, err := NewService(newMemStore(), r, nil, nil)
	assert.ErrorContains(t, err, `"reply"`)
}

func TestAddLikeIsUniquePerUser(t *testing.T) {
	ctx := context.Background()
	pub := &recorder{}
	svc := newTestService(t, pub)

	_, count, err := svc.AddLike(ctx, 5, QuestionTarget(1))
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	_, _, err = svc.AddLike(ctx, 5, QuestionTarget(1))
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "content already liked", apperr.Message(err))

	_, count, err = svc.AddLike(ctx, 6, QuestionTarget(1))
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	count, err = svc.RemoveLike(ctx, 5, QuestionTarget(1))
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	_, err = svc.RemoveLike(ctx, 5, QuestionTarget(1))
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.Len(t, pub.events, 3)
	assert.Equal(t, event{7, EventLikeCount, CountEvent{models.ContentQuestion, 1, 1}}, pub.events[2])
}

func TestAddLikeMissingContent(t *testing.T) {
	_, _, err := newTestService(t, nil).AddLike(context.Background(), 5, ReplyTarget(99))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "reply not found", apperr.Message(err))
}

func TestToggleLike(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)

	state, err := svc.ToggleLike(ctx, 5, ReplyTarget(10))
	require.NoError(t, err)
	assert.Equal(t, models.LikeState{Liked: true, Count: 1}, state)

	liked, err := svc.CheckUserLike(ctx, 5, ReplyTarget(10))
	require.NoError(t, err)
	assert.True(t, liked)

	state, err = svc.ToggleLike(ctx, 5, ReplyTarget(10))
	require.NoError(t, err)
	assert.Equal(t, models.LikeState{Liked: false, Count: 0}, state)
}

func TestParseTarget(t *testing.T) {
	tg, err := ParseTargetParams("reply", "10")
	require.NoError(t, err)
	assert.Equal(t, ReplyTarget(10), tg)

	_, err = ParseTargetParams("video", "10")
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
	_, err = ParseTargetParams("question", "x")
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
	_, err = ParseTarget("question", 0)
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
}

func newRouter(t *testing.T, actor authz.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(newTestService(t, nil), zap.NewNop())
	r := gin.New()
	r.Use(func(c *gin.Context) { middleware.SetActor(c, actor) })
	r.POST("/likes", h.Add)
	r.DELETE("/likes", h.Remove)
	r.POST("/likes/toggle-like", h.Toggle)
	r.GET("/likes/count/:contentType/:contentId", h.Count)
	r.GET("/likes/check/:userId/:contentType/:contentId", h.Check)
	r.GET("/likes/:contentType/:contentId", h.List)
	return r
}

func do(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLikeRoutesScenario(t *testing.T) {
	r := newRouter(t, authz.Actor{UserID: 5, Role: models.RoleUser})
	body := map[string]interface{}{"contentType": "question", "contentId": 1}

	w := do(r, http.MethodPost, "/likes", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"likesCount":1`)

	w = do(r, http.MethodPost, "/likes", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"content already liked"}`, w.Body.String())

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/likes", body).Code)
	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/likes", body).Code)

	w = do(r, http.MethodGet, "/likes/count/question/1", nil)
	assert.JSONEq(t, `{"likesCount":1}`, w.Body.String())

	w = do(r, http.MethodGet, "/likes/check/5/question/1", nil)
	assert.JSONEq(t, `{"liked":true}`, w.Body.String())

	w = do(r, http.MethodGet, "/likes/question/1", nil)
	var list []models.LikeWithUser
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.EqualValues(t, 5, list[0].UserID)

	w = do(r, http.MethodPost, "/likes/toggle-like", body)
	assert.JSONEq(t, `{"liked":false,"likesCount":0}`, w.Body.String())
}

func TestLikeRoutesGuardOtherUsers(t *testing.T) {
	r := newRouter(t, authz.Actor{UserID: 5, Role: models.RoleUser})

	w := do(r, http.MethodPost, "/likes", map[string]interface{}{"userId": 6, "contentType": "question", "contentId": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/likes/check/6/question/1", nil).Code)

	w = do(r, http.MethodPost, "/likes", map[string]interface{}{"contentType": "video", "contentId": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(r, http.MethodPost, "/likes", map[string]interface{}{"contentType": "question", "contentId": 2})
	assert.Equal(t, http.StatusNotFound, w.Code)

	admin := newRouter(t, authz.Actor{UserID: 1, Role: models.RoleAdmin})
	w = do(admin, http.MethodPost, "/likes", map[string]interface{}{"userId": 6, "contentType": "reply", "contentId": 10})
	assert.Equal(t, http.StatusCreated, w.Code)
}
