package redis

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace = "pos"
	cartPrefix   = "cart"
)

// Nil is re-exported so callers can detect cache misses without importing
// the driver themselves.
const Nil = redis.Nil

// Client wraps the redis connection helpers the cart storage needs.
type Client struct {
	raw *redis.Client
}

// Connect builds a Redis client from REDIS_URL (or REDIS_ADDR plus
// REDIS_PASSWORD) and verifies connectivity.
func Connect(ctx context.Context) *Client {
	var opts *redis.Options
	if url := os.Getenv("REDIS_URL"); url != "" {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			log.Fatal("Invalid REDIS_URL. \n", err)
		}
		opts = parsed
	} else {
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}
		opts = &redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		}
	}

	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to redis. \n", err)
	}

	log.Println("Redis connection established")
	return &Client{raw: raw}
}

// Set stores a value with an optional TTL (0 means no expiry).
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return c.raw.Set(ctx, key, value, ttl).Err()
}

// Get returns the string value stored at key. Misses return Nil.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.raw.Get(ctx, key).Result()
}

// Del removes the provided keys.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.raw.Del(ctx, keys...).Err()
}

// Ping verifies the connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.raw.Ping(ctx).Err()
}

// Close shuts down the underlying client.
func (c *Client) Close() error {
	return c.raw.Close()
}

// CartKey returns the namespaced storage key for a cart blob.
func CartKey(storeName, sessionID string) string {
	return buildKey(cartPrefix, storeName, sessionID)
}

func buildKey(parts ...string) string {
	clean := []string{keyNamespace}
	for _, part := range parts {
		if part == "" {
			continue
		}
		clean = append(clean, strings.TrimSpace(part))
	}
	return strings.Join(clean, ":")
}
