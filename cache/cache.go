// Package cache provides an optional Redis-backed memo of aggregation
// results.
//
// Fan-out fetches hit every configured platform; when several callers ask
// for the same merged view in a short window, the cache answers from the
// previous invocation instead. Entries expire on a short TTL and the core
// is fully functional with no cache configured: this is memoization, not a
// system of record.
package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zero-day-ai/nexus/entity"
)

// DefaultTTL is the entry lifetime used when Options.TTL is zero.
const DefaultTTL = 30 * time.Second

// keyPrefix namespaces all cache entries in a shared Redis instance.
const keyPrefix = "nexus:cache:"

// Options configures the Redis connection.
type Options struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379")
	URL string

	// TLS configuration for secure connections
	TLS *tls.Config

	// ConnectTimeout is the maximum time to wait for connection establishment
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations
	WriteTimeout time.Duration

	// TTL is the entry lifetime; DefaultTTL when zero.
	TTL time.Duration
}

// Cache is a Redis-backed record-set memo.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a cache connected to the configured Redis instance.
func New(opts Options) (*Cache, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 5 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if opts.TTL == 0 {
		opts.TTL = DefaultTTL
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{client: client, ttl: opts.TTL}, nil
}

// Key builds a namespaced cache key from an operation name and its
// distinguishing parts, e.g. Key("fetch_all", "octi-prod", "oaev-lab").
func Key(op string, parts ...string) string {
	if len(parts) == 0 {
		return keyPrefix + op
	}
	return keyPrefix + op + ":" + strings.Join(parts, ":")
}

// GetRecords returns the cached record set under key. The second return
// value is false on a miss.
func (c *Cache) GetRecords(ctx context.Context, key string) ([]entity.Record, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var records []entity.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return records, true, nil
}

// PutRecords stores a record set under key with the configured TTL.
func (c *Cache) PutRecords(ctx context.Context, key string, records []entity.Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Invalidate removes the given keys. Missing keys are not an error.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache entries: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
