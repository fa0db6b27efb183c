package realtime

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/farmwise/backend/internal/auth"
)

func testClient(id string, videoID int64) *Client {
	return &Client{ID: id, VideoID: videoID, send: make(chan WSMessage, 4)}
}

type fakeRedis struct {
	mu        sync.Mutex
	published []string
	handlers  map[int64]func(string, []byte)
	cancelled []int64
	failPub   bool
}

func (f *fakeRedis) PublishVideoEvent(videoID int64, event string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPub {
		return errors.New("redis down")
	}
	f.published = append(f.published, event)
	if h := f.handlers[videoID]; h != nil {
		h(event, payload)
	}
	return nil
}

func (f *fakeRedis) SubscribeVideo(videoID int64, handler func(string, []byte)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[videoID] = handler
	return func() { f.cancelled = append(f.cancelled, videoID) }, nil
}

func TestBroadcastReachesOnlyRoom(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)
	a, b, other := testClient("a", 1), testClient("b", 1), testClient("c", 2)
	hub.Register(a)
	hub.Register(b)
	hub.Register(other)
	assert.Equal(t, 2, hub.ViewerCount(1))

	hub.PublishToVideo(1, "qna_created", map[string]int{"id": 5})

	for _, c := range []*Client{a, b} {
		msg := <-c.send
		assert.Equal(t, "qna_created", msg.Event)
		assert.JSONEq(t, `{"id":5}`, string(msg.Data))
	}
	assert.Empty(t, other.send)

	hub.Unregister(a)
	hub.Unregister(b)
	assert.Zero(t, hub.ViewerCount(1))
	_, open := <-a.send
	assert.False(t, open)
	hub.Unregister(a)
}

func TestPublishGoesThroughRedis(t *testing.T) {
	rd := &fakeRedis{handlers: map[int64]func(string, []byte){}}
	hub := NewHub(zap.NewNop(), rd, rd)
	c := testClient("a", 9)
	hub.Register(c)

	hub.PublishToVideo(9, "like_count", map[string]int{"count": 3})

	require.Len(t, c.send, 1)
	msg := <-c.send
	assert.Equal(t, "like_count", msg.Event)
	assert.Equal(t, []string{"like_count"}, rd.published)

	hub.Unregister(c)
	assert.Equal(t, []int64{9}, rd.cancelled)
}

func TestPublishFallsBackToLocal(t *testing.T) {
	rd := &fakeRedis{handlers: map[int64]func(string, []byte){}, failPub: true}
	hub := NewHub(zap.NewNop(), rd, rd)
	c := testClient("a", 9)
	hub.Register(c)

	hub.PublishToVideo(9, "reply_created", map[string]int{"id": 1})
	require.Len(t, c.send, 1)
}

type staticValidator struct{}

func (staticValidator) Validate(token string) (*auth.Claims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &auth.Claims{UserID: 42}, nil
}

func TestServeWs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(zap.NewNop(), nil, nil)
	r := gin.New()
	r.GET("/ws", ServeWs(hub, zap.NewNop(), staticValidator{}, nil))
	srv := httptest.NewServer(r)
	defer srv.Close()
	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(base+"?video_id=3&token=bad", nil)
	require.Error(t, err)
	assert.Equal(t, 401, resp.StatusCode)
	_, resp, err = websocket.DefaultDialer.Dial(base+"?video_id=x&token=good", nil)
	require.Error(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(base+"?video_id=3&token=good", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ViewerCount(3) == 1 }, time.Second, 10*time.Millisecond)

	hub.PublishToVideo(3, "qna_created", map[string]string{"text": "hi"})
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "qna_created", msg.Event)
	var data map[string]string
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, "hi", data["text"])
}
