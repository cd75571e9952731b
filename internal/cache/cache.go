package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"sharebnb/internal/logging"
)

// Client wraps redis.Client but fails safe by swallowing connectivity errors.
// Swallowed errors are logged at debug level.
type Client struct {
	client *redis.Client
	logger logging.Logger
}

// New creates a new Redis client. A nil logger discards the swallowed errors.
func New(addr, password string, db int, logger logging.Logger) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{client: redis.NewClient(opts), logger: logger.With("component", "cache")}
}

// Ping reports whether redis is reachable. The cache still works (as a permanent miss) when it is not.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		// fail safe: behave like cache miss
		c.swallow(ctx, "cache get failed", key, err)
		return nil, nil
	}
	return res, nil
}

// Set stores value with TTL, ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.swallow(ctx, "cache set failed", key, err)
	}
	return nil
}

// Delete removes a key, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.swallow(ctx, "cache delete failed", key, err)
	}
	return nil
}

func (c *Client) swallow(ctx context.Context, msg, key string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.Debug(ctx, msg, "key", key, "error", err)
}
