package qna

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/farmwise/backend/internal/authz"
	"github.com/farmwise/backend/internal/likes"
	"github.com/farmwise/backend/internal/middleware"
	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/pkg/apperr"
)

type memStore struct {
	mu        sync.Mutex
	questions map[int64]models.QuestionAndAnswer
	replies   map[int64]models.Reply
	nextID    int64
}

func newMemStore() *memStore {
	return &memStore{questions: map[int64]models.QuestionAndAnswer{}, replies: map[int64]models.Reply{}}
}

func (m *memStore) ListQuestions(context.Context) ([]models.QuestionAndAnswer, error) {
	return m.ListQuestionsByVideo(context.Background(), 0)
}

func (m *memStore) ListQuestionsByVideo(_ context.Context, videoID int64) ([]models.QuestionAndAnswer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.QuestionAndAnswer{}
	for _, q := range m.questions {
		if videoID == 0 || q.VideoID == videoID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) GetQuestion(_ context.Context, id int64) (*models.QuestionAndAnswer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[id]
	if !ok {
		return nil, apperr.NotFound("question not found")
	}
	return &q, nil
}

func (m *memStore) CreateQuestion(_ context.Context, q *models.QuestionAndAnswer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	q.ID = m.nextID
	q.Timestamp = time.Now()
	m.questions[q.ID] = *q
	return nil
}

func (m *memStore) UpdateQuestion(_ context.Context, q *models.QuestionAndAnswer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questions[q.ID] = *q
	return nil
}

func (m *memStore) DeleteQuestion(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.questions, id)
	for rid, rp := range m.replies {
		if rp.QuestionAndAnswerID == id {
			delete(m.replies, rid)
		}
	}
	return nil
}

func (m *memStore) ListReplies(ctx context.Context, viewerID int64) ([]models.Reply, error) {
	return m.ListRepliesByQuestion(ctx, 0, viewerID)
}

func (m *memStore) ListRepliesByQuestion(_ context.Context, qnaID, _ int64) ([]models.Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Reply{}
	for _, rp := range m.replies {
		if qnaID == 0 || rp.QuestionAndAnswerID == qnaID {
			out = append(out, rp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetReply(_ context.Context, id, _ int64) (*models.Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rp, ok := m.replies[id]
	if !ok {
		return nil, apperr.NotFound("reply not found")
	}
	return &rp, nil
}

func (m *memStore) CreateReply(_ context.Context, rp *models.Reply) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	rp.ID = m.nextID
	rp.Timestamp = time.Now()
	m.replies[rp.ID] = *rp
	return nil
}

func (m *memStore) UpdateReply(_ context.Context, rp *models.Reply) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies[rp.ID] = *rp
	return nil
}

func (m *memStore) DeleteReply(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.replies, id)
	return nil
}

type videoSet map[int64]bool

func (v videoSet) GetByID(_ context.Context, id int64) (*models.Video, error) {
	if !v[id] {
		return nil, apperr.NotFound("video not found")
	}
	return &models.Video{ID: id}, nil
}

type toggles struct {
	liked map[likes.Target]bool
}

func (t *toggles) ToggleLike(_ context.Context, _ int64, tg likes.Target) (models.LikeState, error) {
	t.liked[tg] = !t.liked[tg]
	n := int64(0)
	if t.liked[tg] {
		n = 1
	}
	return models.LikeState{Liked: t.liked[tg], Count: n}, nil
}

type published struct {
	videoID int64
	event   string
}

type pubLog struct{ events []published }

func (p *pubLog) PublishToVideo(videoID int64, event string, _ interface{}) {
	p.events = append(p.events, published{videoID, event})
}

type fixture struct {
	store *memStore
	pub   *pubLog
	h     *Handler
}

func newFixture() *fixture {
	gin.SetMode(gin.TestMode)
	f := &fixture{store: newMemStore(), pub: &pubLog{}}
	f.h = NewHandler(f.store, videoSet{3: true}, &toggles{liked: map[likes.Target]bool{}}, f.pub, zap.NewNop())
	return f
}

func (f *fixture) router(actor authz.Actor) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) { middleware.SetActor(c, actor) })
	r.GET("/qna", f.h.ListQuestions)
	r.GET("/qna/video/:videoId", f.h.ListQuestionsByVideo)
	r.GET("/qna/:id", f.h.GetQuestion)
	r.POST("/qna", f.h.CreateQuestion)
	r.PUT("/qna/:id", f.h.UpdateQuestion)
	r.DELETE("/qna/:id", f.h.DeleteQuestion)
	r.POST("/qna/:id/like", f.h.LikeQuestion)
	r.GET("/replies", f.h.ListReplies)
	r.GET("/replies/qna/:qnaId", f.h.ListRepliesByQuestion)
	r.GET("/replies/:id", f.h.GetReply)
	r.POST("/replies", f.h.CreateReply)
	r.PUT("/replies/:id", f.h.UpdateReply)
	r.DELETE("/replies/:id", f.h.DeleteReply)
	r.POST("/replies/:id/like", f.h.LikeReply)
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

func id(n int64) string { return strconv.FormatInt(n, 10) }

var (
	alice = authz.Actor{UserID: 1, Role: models.RoleUser}
	bob   = authz.Actor{UserID: 2, Role: models.RoleUser}
	admin = authz.Actor{UserID: 9, Role: models.RoleAdmin}
)

func TestQuestionAndReplyFlow(t *testing.T) {
	f := newFixture()
	r := f.router(alice)

	w := do(r, http.MethodPost, "/qna", map[string]interface{}{"text": "When to deworm goats?", "authorName": "Alice", "videoId": 3})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var q models.QuestionAndAnswer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
	assert.EqualValues(t, 1, q.UserID)

	w = do(r, http.MethodPost, "/qna", map[string]interface{}{"text": "x", "authorName": "Alice", "videoId": 4})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(f.router(bob), http.MethodPost, "/replies", map[string]interface{}{"text": "Every 3 months", "authorName": "Bob", "questionAndAnswerId": q.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/replies/qna/"+id(q.ID), nil)
	var replies []models.Reply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &replies))
	require.Len(t, replies, 1)
	assert.EqualValues(t, 2, replies[0].UserID)

	assert.Equal(t, []published{{3, EventQuestionCreated}, {3, EventReplyCreated}}, f.pub.events)

	w = do(r, http.MethodPost, "/replies", map[string]interface{}{"text": "x", "authorName": "A", "questionAndAnswerId": 999})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(r, http.MethodPost, "/replies", map[string]interface{}{"authorName": "A"})
	assert.JSONEq(t, `{"message":"missing required fields: text, questionAndAnswerId"}`, w.Body.String())
}

func TestReplyOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	q := &models.QuestionAndAnswer{Text: "q", AuthorName: "A", VideoID: 3, UserID: alice.UserID}
	require.NoError(t, f.store.CreateQuestion(ctx, q))
	rp := &models.Reply{Text: "original", AuthorName: "A", QuestionAndAnswerID: q.ID, UserID: alice.UserID}
	require.NoError(t, f.store.CreateReply(ctx, rp))

	w := do(f.router(bob), http.MethodPut, "/replies/"+id(rp.ID), map[string]string{"text": "hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = do(f.router(bob), http.MethodDelete, "/replies/"+id(rp.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	got, err := f.store.GetReply(ctx, rp.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Text)

	w = do(f.router(admin), http.MethodPut, "/replies/"+id(rp.ID), map[string]string{"text": "moderated"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(f.router(alice), http.MethodPut, "/replies/"+id(rp.ID), map[string]string{"text": "edited"})
	require.Equal(t, http.StatusOK, w.Code)
	got, _ = f.store.GetReply(ctx, rp.ID, 0)
	assert.Equal(t, "edited", got.Text)
	assert.Equal(t, "A", got.AuthorName)

	w = do(f.router(admin), http.MethodDelete, "/replies/"+id(rp.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, do(f.router(alice), http.MethodDelete, "/replies/"+id(rp.ID), nil).Code)
}

func TestQuestionOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	q := &models.QuestionAndAnswer{Text: "q", AuthorName: "A", VideoID: 3, UserID: alice.UserID}
	require.NoError(t, f.store.CreateQuestion(ctx, q))

	assert.Equal(t, http.StatusForbidden, do(f.router(bob), http.MethodPut, "/qna/"+id(q.ID), map[string]string{"text": "x"}).Code)
	assert.Equal(t, http.StatusForbidden, do(f.router(bob), http.MethodDelete, "/qna/"+id(q.ID), nil).Code)
	assert.Equal(t, http.StatusOK, do(f.router(alice), http.MethodPut, "/qna/"+id(q.ID), map[string]string{"text": "better"}).Code)
	assert.Equal(t, http.StatusOK, do(f.router(alice), http.MethodDelete, "/qna/"+id(q.ID), nil).Code)
	assert.Equal(t, http.StatusNotFound, do(f.router(alice), http.MethodGet, "/qna/"+id(q.ID), nil).Code)
}

func TestLikeEndpointsToggle(t *testing.T) {
	f := newFixture()
	r := f.router(bob)

	w := do(r, http.MethodPost, "/qna/5/like", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"liked":true,"likesCount":1}`, w.Body.String())
	w = do(r, http.MethodPost, "/qna/5/like", nil)
	assert.JSONEq(t, `{"liked":false,"likesCount":0}`, w.Body.String())

	w = do(r, http.MethodPost, "/replies/5/like", nil)
	assert.JSONEq(t, `{"liked":true,"likesCount":1}`, w.Body.String())
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/replies/x/like", nil).Code)
}

func TestUpdatesRejectBlankText(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	q := &models.QuestionAndAnswer{Text: "q", AuthorName: "A", VideoID: 3, UserID: alice.UserID}
	require.NoError(t, f.store.CreateQuestion(ctx, q))
	rp := &models.Reply{Text: "original", AuthorName: "A", QuestionAndAnswerID: q.ID, UserID: alice.UserID}
	require.NoError(t, f.store.CreateReply(ctx, rp))
	r := f.router(alice)

	w := do(r, http.MethodPut, "/qna/"+id(q.ID), map[string]string{"text": "", "authorName": " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"fields cannot be blank: text, authorName"}`, w.Body.String())
	gotQ, _ := f.store.GetQuestion(ctx, q.ID)
	assert.Equal(t, "q", gotQ.Text)

	w = do(r, http.MethodPut, "/replies/"+id(rp.ID), map[string]string{"text": "  "})
	assert.JSONEq(t, `{"message":"fields cannot be blank: text"}`, w.Body.String())
	gotR, _ := f.store.GetReply(ctx, rp.ID, 0)
	assert.Equal(t, "original", gotR.Text)
}
