package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// SaveSession stores an authenticated session token with a TTL
func (c *Client) SaveSession(ctx context.Context, token string, ttl time.Duration) error {
	return c.rdb.Set(ctx, fmt.Sprintf("session:%s", token), "1", ttl).Err()
}

// SessionExists reports whether a session token is live
func (c *Client) SessionExists(ctx context.Context, token string) (bool, error) {
	result, err := c.rdb.Exists(ctx, fmt.Sprintf("session:%s", token)).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}

// DeleteSession destroys a session token
func (c *Client) DeleteSession(ctx context.Context, token string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("session:%s", token)).Err()
}

// ClaimEvent atomically marks a webhook event id as processed.
// Returns true if this call claimed it, false if it was already processed.
func (c *Client) ClaimEvent(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("processed:%s", eventID), "1", ttl).Result()
}
