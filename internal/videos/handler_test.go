package videos

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/farmwise/backend/internal/models"
	"github.com/farmwise/backend/pkg/apperr"
)

type memStore struct {
	mu         sync.Mutex
	videos     map[int64]models.Video
	additional map[int64]models.AdditionalVideo
	nextID     int64
}

func newMemStore() *memStore {
	return &memStore{videos: map[int64]models.Video{}, additional: map[int64]models.AdditionalVideo{}}
}

func (m *memStore) List(context.Context) ([]models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Video{}
	for _, v := range m.videos {
		out = append(out, v)
	}
	return out, nil
}

func (m *memStore) ListByCategory(_ context.Context, category string) ([]models.Video, error) {
	all, _ := m.List(context.Background())
	out := []models.Video{}
	for _, v := range all {
		if v.Category == category {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memStore) Search(_ context.Context, q string) ([]models.Video, error) {
	all, _ := m.List(context.Background())
	out := []models.Video{}
	for _, v := range all {
		if strings.Contains(strings.ToLower(v.Title), strings.ToLower(q)) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memStore) GetByID(_ context.Context, id int64) (*models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.videos[id]
	if !ok {
		return nil, apperr.NotFound("video not found")
	}
	return &v, nil
}

func (m *memStore) Create(_ context.Context, v *models.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	v.ID = m.nextID
	m.videos[v.ID] = *v
	return nil
}

func (m *memStore) Update(_ context.Context, v *models.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.videos[v.ID]; !ok {
		return apperr.NotFound("video not found")
	}
	m.videos[v.ID] = *v
	return nil
}

func (m *memStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.videos[id]; !ok {
		return apperr.NotFound("video not found")
	}
	delete(m.videos, id)
	return nil
}

func (m *memStore) ListAdditional(context.Context) ([]models.AdditionalVideo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.AdditionalVideo{}
	for _, a := range m.additional {
		out = append(out, a)
	}
	return out, nil
}

func (m *memStore) ListAdditionalByVideo(_ context.Context, videoID int64) ([]models.AdditionalVideo, error) {
	all, _ := m.ListAdditional(context.Background())
	out := []models.AdditionalVideo{}
	for _, a := range all {
		if a.VideoID == videoID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) GetAdditional(_ context.Context, id int64) (*models.AdditionalVideo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.additional[id]
	if !ok {
		return nil, apperr.NotFound("additional video not found")
	}
	return &a, nil
}

func (m *memStore) CreateAdditional(_ context.Context, a *models.AdditionalVideo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	a.ID = m.nextID
	m.additional[a.ID] = *a
	return nil
}

func (m *memStore) UpdateAdditional(_ context.Context, a *models.AdditionalVideo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.additional[a.ID] = *a
	return nil
}

func (m *memStore) DeleteAdditional(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.additional[id]; !ok {
		return apperr.NotFound("additional video not found")
	}
	delete(m.additional, id)
	return nil
}

func newRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, zap.NewNop())
	r := gin.New()
	r.GET("/videos", h.List)
	r.GET("/videos/search", h.Search)
	r.GET("/videos/category/:category", h.ListByCategory)
	r.GET("/videos/:id", h.GetByID)
	r.POST("/videos", h.Create)
	r.PUT("/videos/:id", h.Update)
	r.DELETE("/videos/:id", h.Delete)
	r.GET("/additional-videos/video/:videoId", h.ListAdditionalByVideo)
	r.POST("/additional-videos", h.CreateAdditional)
	r.PUT("/additional-videos/:id", h.UpdateAdditional)
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

func TestVideoAndAdditionalVideoScenario(t *testing.T) {
	r := newRouter(newMemStore())

	w := do(r, http.MethodPost, "/videos", map[string]string{"title": "A", "category": "c", "type": "animal"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var video models.Video
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &video))

	w = do(r, http.MethodPost, "/additional-videos", map[string]interface{}{"title": "B", "youtubeId": "x", "videoId": video.ID})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodPost, "/additional-videos", map[string]interface{}{"title": "B", "youtubeId": "x", "videoId": 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"video not found"}`, w.Body.String())

	w = do(r, http.MethodGet, "/additional-videos/video/"+jsonID(video.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var extras []models.AdditionalVideo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &extras))
	assert.Len(t, extras, 1)
}

func TestCreateVideoValidation(t *testing.T) {
	r := newRouter(newMemStore())

	w := do(r, http.MethodPost, "/videos", map[string]string{"title": "A"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"missing required fields: category, type"}`, w.Body.String())

	w = do(r, http.MethodPost, "/videos", map[string]string{"title": "A", "category": "c", "type": "fish"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateVideoMergePatch(t *testing.T) {
	store := newMemStore()
	r := newRouter(store)
	v := &models.Video{Title: "Milking", Category: "dairy", YoutubeID: "yt1", Type: models.KindAnimal}
	require.NoError(t, store.Create(context.Background(), v))

	w := do(r, http.MethodPut, "/videos/"+jsonID(v.ID), map[string]string{"title": "Hand milking"})
	require.Equal(t, http.StatusOK, w.Code)

	got, _ := store.GetByID(context.Background(), v.ID)
	assert.Equal(t, "Hand milking", got.Title)
	assert.Equal(t, "dairy", got.Category)
	assert.Equal(t, "yt1", got.YoutubeID)

	w = do(r, http.MethodPut, "/videos/"+jsonID(v.ID), map[string]string{"type": "crop"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPut, "/videos/777", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAndDeleteVideo(t *testing.T) {
	store := newMemStore()
	r := newRouter(store)
	v := &models.Video{Title: "Maize planting", Category: "cereal", Type: models.KindCrop}
	require.NoError(t, store.Create(context.Background(), v))

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/videos/abc", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/videos/"+jsonID(v.ID), nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/videos/search", nil).Code)

	w := do(r, http.MethodGet, "/videos/search?query=maize", nil)
	assert.Contains(t, w.Body.String(), "Maize planting")

	w = do(r, http.MethodDelete, "/videos/"+jsonID(v.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Video deleted successfully"}`, w.Body.String())
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/videos/"+jsonID(v.ID), nil).Code)
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestUpdateRejectsBlankRequiredFields(t *testing.T) {
	store := newMemStore()
	r := newRouter(store)
	ctx := context.Background()
	v := &models.Video{Title: "Milking", Category: "dairy", Type: models.KindAnimal}
	require.NoError(t, store.Create(ctx, v))
	a := &models.AdditionalVideo{Title: "Teat dip", YoutubeID: "yt2", VideoID: v.ID}
	require.NoError(t, store.CreateAdditional(ctx, a))

	w := do(r, http.MethodPut, "/videos/"+jsonID(v.ID), map[string]string{"title": "", "category": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"fields cannot be blank: title, category"}`, w.Body.String())
	got, _ := store.GetByID(ctx, v.ID)
	assert.Equal(t, "Milking", got.Title)
	assert.Equal(t, "dairy", got.Category)

	w = do(r, http.MethodPut, "/additional-videos/"+jsonID(a.ID), map[string]string{"youtubeId": ""})
	assert.JSONEq(t, `{"message":"fields cannot be blank: youtubeId"}`, w.Body.String())
	gotA, _ := store.GetAdditional(ctx, a.ID)
	assert.Equal(t, "yt2", gotA.YoutubeID)
}
