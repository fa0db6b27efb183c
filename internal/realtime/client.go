package realtime

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/farmwise/backend/internal/auth"
	"github.com/farmwise/backend/pkg/response"
)

// WSMessage is the WebSocket message envelope.
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// TokenValidator validates the token passed in the query string.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// Client represents a single WebSocket connection watching a video.
type Client struct {
	ID      string
	VideoID int64
	UserID  int64
	hub     *Hub
	conn    *websocket.Conn
	send    chan WSMessage
	logger  *zap.Logger
}

func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			// Native mobile clients send no Origin.
			return allowAll || origin == "" || allowed[origin]
		},
	}
}

// ServeWs handles GET /ws?video_id=&token= and runs the client loop.
func ServeWs(hub *Hub, logger *zap.Logger, validator TokenValidator, allowedOrigins []string) gin.HandlerFunc {
	upgrader := newUpgrader(allowedOrigins)
	return func(c *gin.Context) {
		videoIDStr := c.Query("video_id")
		token := c.Query("token")
		if videoIDStr == "" || token == "" {
			response.BadRequest(c, "video_id and token required")
			return
		}
		videoID, err := strconv.ParseInt(videoIDStr, 10, 64)
		if err != nil || videoID <= 0 {
			response.BadRequest(c, "invalid video id")
			return
		}
		claims, err := validator.Validate(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		client := &Client{
			ID:      uuid.New().String(),
			VideoID: videoID,
			UserID:  claims.UserID,
			hub:     hub,
			conn:    conn,
			send:    make(chan WSMessage, 256),
			logger:  logger,
		}
		hub.Register(client)
		go client.writePump()
		client.readPump()
	}
}

// readPump keeps the connection alive. Clients only send "join"; content
// changes arrive through the REST API and are pushed by the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
		return nil
	})

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			break
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))

		if msg.Event == "join" {
			c.hub.Broadcast(c.VideoID, EventViewerCount, map[string]int{
				"count": c.hub.ViewerCount(c.VideoID),
			})
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(PingInterval * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
