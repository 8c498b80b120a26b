package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisJSONCache stores JSON-encoded values in Redis.
type RedisJSONCache struct {
	client    redis.Cmdable
	keyPrefix string
}

// NewRedisJSONCache creates a Redis-backed JSON cache.
func NewRedisJSONCache(client redis.Cmdable, keyPrefix string) *RedisJSONCache {
	return &RedisJSONCache{client: client, keyPrefix: keyPrefix}
}

// Get decodes the value at key into dest. It reports false on a miss.
func (c *RedisJSONCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// Set encodes value and stores it with a TTL.
func (c *RedisJSONCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete removes keys.
func (c *RedisJSONCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.keyPrefix + k
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

type jsonEntry struct {
	raw       []byte
	expiresAt time.Time
}

// InMemoryJSONCache is a process-local JSON cache. Values are stored
// encoded so callers never share memory with the cache.
type InMemoryJSONCache struct {
	mu      sync.Mutex
	entries map[string]jsonEntry
	now     func() time.Time
}

// NewInMemoryJSONCache creates an empty in-memory cache.
func NewInMemoryJSONCache() *InMemoryJSONCache {
	return &InMemoryJSONCache{entries: make(map[string]jsonEntry), now: time.Now}
}

// Get decodes the value at key into dest. It reports false on a miss.
func (c *InMemoryJSONCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.raw, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores value; ttl <= 0 never expires.
func (c *InMemoryJSONCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	e := jsonEntry{raw: raw}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

// Delete removes keys.
func (c *InMemoryJSONCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}
