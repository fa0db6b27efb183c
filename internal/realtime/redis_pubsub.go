package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	channelPrefix  = "video:"
	publishTimeout = 5 * time.Second
)

// videoEvent is the envelope carried on a video channel.
type videoEvent struct {
	VideoID int64           `json:"video_id"`
	Event   string          `json:"event"`
	Data    json.RawMessage `json:"data"`
}

func channelFor(videoID int64) string {
	return channelPrefix + strconv.FormatInt(videoID, 10)
}

func encodeEvent(videoID int64, event string, payload []byte) ([]byte, error) {
	return json.Marshal(videoEvent{VideoID: videoID, Event: event, Data: payload})
}

// decodeEvent parses a channel message and rejects envelopes for another video.
func decodeEvent(videoID int64, raw string) (videoEvent, error) {
	var e videoEvent
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return e, err
	}
	if e.VideoID != videoID || e.Event == "" {
		return e, fmt.Errorf("unexpected event %q for video %d on channel %s", e.Event, e.VideoID, channelFor(videoID))
	}
	return e, nil
}

// RedisPubSub implements RedisPublisher and RedisSubscriber using Redis pub/sub.
type RedisPubSub struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisPubSub creates a Redis pub/sub bridge for video events.
func NewRedisPubSub(client *redis.Client, logger *zap.Logger) *RedisPubSub {
	return &RedisPubSub{client: client, logger: logger}
}

// PublishVideoEvent publishes an event to the video's Redis channel.
func (r *RedisPubSub) PublishVideoEvent(videoID int64, event string, payload []byte) error {
	body, err := encodeEvent(videoID, event, payload)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	return r.client.Publish(ctx, channelFor(videoID), body).Err()
}

// SubscribeVideo subscribes to a video's Redis channel and calls handler for each message.
// Returns a cancel function to stop the subscription.
func (r *RedisPubSub) SubscribeVideo(videoID int64, handler func(event string, payload []byte)) (cancel func(), err error) {
	ctx, cancelCtx := context.WithCancel(context.Background())
	pubsub := r.client.Subscribe(ctx, channelFor(videoID))
	if _, err = pubsub.Receive(ctx); err != nil {
		cancelCtx()
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				e, err := decodeEvent(videoID, msg.Payload)
				if err != nil {
					r.logger.Debug("drop realtime message", zap.String("channel", msg.Channel), zap.Error(err))
					continue
				}
				handler(e.Event, e.Data)
			}
		}
	}()
	return cancelCtx, nil
}
