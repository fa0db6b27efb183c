// Package realtime pushes QnA, reply and like updates to clients watching a video.
package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait are used for heartbeat.
	PingInterval = 30
	PongWait     = 60
)

// EventViewerCount is broadcast when a client joins a video room.
const EventViewerCount = "viewer_count"

// Hub maintains video_id -> set of connections and broadcasts messages.
// Uses Redis pub/sub for horizontal scaling when a publisher is configured.
type Hub struct {
	// videoID -> map[clientID]*Client
	rooms    map[int64]map[string]*Client
	subs     map[int64]func() // cancel Redis subscription per video
	mu       sync.RWMutex
	logger   *zap.Logger
	redis    RedisPublisher
	redisSub RedisSubscriber
}

// RedisPublisher is the interface for publishing to Redis (for cross-instance broadcast).
type RedisPublisher interface {
	PublishVideoEvent(videoID int64, event string, payload []byte) error
}

// RedisSubscriber subscribes to video channels and invokes handler for incoming events.
type RedisSubscriber interface {
	SubscribeVideo(videoID int64, handler func(event string, payload []byte)) (cancel func(), err error)
}

// NewHub creates a new WebSocket hub. redisPub and redisSub may be nil for single-instance mode.
func NewHub(logger *zap.Logger, redisPub RedisPublisher, redisSub RedisSubscriber) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		rooms:    make(map[int64]map[string]*Client),
		subs:     make(map[int64]func()),
		logger:   logger,
		redis:    redisPub,
		redisSub: redisSub,
	}
}

// Register adds a client to a video room. Starts the Redis subscription for the room on first join.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.rooms[c.VideoID] == nil {
		h.rooms[c.VideoID] = make(map[string]*Client)
		if h.redisSub != nil {
			videoID := c.VideoID
			cancel, err := h.redisSub.SubscribeVideo(videoID, func(event string, payload []byte) {
				h.Broadcast(videoID, event, json.RawMessage(payload))
			})
			if err != nil {
				h.logger.Warn("redis subscribe failed", zap.Int64("video_id", videoID), zap.Error(err))
			} else {
				h.subs[videoID] = cancel
			}
		}
	}
	h.rooms[c.VideoID][c.ID] = c
	h.mu.Unlock()
	h.logger.Debug("client joined video", zap.String("client_id", c.ID), zap.Int64("video_id", c.VideoID))
}

// Unregister removes a client from its room and closes its send channel.
// Cancels the Redis subscription when the last client leaves.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if m, ok := h.rooms[c.VideoID]; ok {
		if _, joined := m[c.ID]; joined {
			delete(m, c.ID)
			close(c.send)
		}
		if len(m) == 0 {
			delete(h.rooms, c.VideoID)
			if cancel, ok := h.subs[c.VideoID]; ok {
				cancel()
				delete(h.subs, c.VideoID)
			}
		}
	}
	h.mu.Unlock()
	h.logger.Debug("client left video", zap.String("client_id", c.ID), zap.Int64("video_id", c.VideoID))
}

// Broadcast sends a message to all local clients in a video room.
func (h *Hub) Broadcast(videoID int64, event string, payload interface{}) {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		var err error
		if data, err = json.Marshal(payload); err != nil {
			h.logger.Warn("marshal realtime payload", zap.String("event", event), zap.Error(err))
			return
		}
	}
	msg := WSMessage{Event: event, Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.rooms[videoID] {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// PublishToVideo delivers an event to every instance's viewers of a video. With Redis the
// subscriber callback performs the broadcast once for all instances, including this one.
func (h *Hub) PublishToVideo(videoID int64, event string, payload interface{}) {
	if h.redis != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			h.logger.Warn("drop realtime event", zap.Int64("video_id", videoID), zap.String("event", event), zap.Error(err))
			return
		}
		err = h.redis.PublishVideoEvent(videoID, event, data)
		if err == nil {
			return
		}
		h.logger.Warn("redis publish failed, broadcasting locally", zap.Int64("video_id", videoID), zap.Error(err))
	}
	h.Broadcast(videoID, event, payload)
}

// ViewerCount returns the number of local clients watching a video.
func (h *Hub) ViewerCount(videoID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[videoID])
}
