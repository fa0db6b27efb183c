package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Options selects the Redis server used for realtime fan-out and the job queue.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Client wraps the go-redis client so callers share one connection pool.
type Client struct {
	*redis.Client
	logger *zap.Logger
}

// NewClient connects to Redis and pings it. A failed ping closes the client.
func NewClient(ctx context.Context, opts Options, logger *zap.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	logger.Info("Redis client connected", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	return &Client{Client: rdb, logger: logger}, nil
}

// Close releases the pool and logs the shutdown.
func (c *Client) Close() error {
	err := c.Client.Close()
	c.logger.Info("Redis client closed")
	return err
}
