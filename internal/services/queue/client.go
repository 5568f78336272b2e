package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Client is the Redis connection shared by the build queue, the event
// broadcaster and the per-pack build locks.
type Client struct {
	rdb    *redis.Client
	addr   string
	logger *slog.Logger
}

// NewClient connects to redisURL and fails unless the server answers a ping.
func NewClient(redisURL string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opt.Addr, err)
	}

	logger.Info("Build queue connected", "addr", opt.Addr, "db", opt.DB)
	return &Client{
		rdb:    rdb,
		addr:   opt.Addr,
		logger: logger,
	}, nil
}

// Addr is the host:port of the Redis server.
func (c *Client) Addr() string { return c.addr }

// Redis exposes the connection for pub/sub and locking.
func (c *Client) Redis() *redis.Client { return c.rdb }

// Queue returns the build queue stored under key.
func (c *Client) Queue(key string) *BuildQueue {
	return NewBuildQueue(c, key)
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
