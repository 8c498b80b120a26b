package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/shopper"
)

// RecentlyViewedKeyPrefix namespaces visitor lists in Redis.
const RecentlyViewedKeyPrefix = "recently_viewed:"

// RedisRecentlyViewedStore keeps each visitor's list as a JSON array of
// product ids under <prefix>recently_viewed:<visitor>. Every save refreshes
// the TTL.
type RedisRecentlyViewedStore struct {
	client    redis.Cmdable
	keyPrefix string
	ttl       time.Duration
}

// NewRedisRecentlyViewedStore creates a Redis-backed store.
func NewRedisRecentlyViewedStore(client redis.Cmdable, keyPrefix string, ttl time.Duration) *RedisRecentlyViewedStore {
	return &RedisRecentlyViewedStore{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (s *RedisRecentlyViewedStore) key(visitorID string) string {
	return s.keyPrefix + RecentlyViewedKeyPrefix + visitorID
}

// Load returns the stored ids; an unknown visitor has an empty list.
// A corrupted value is treated as empty.
func (s *RedisRecentlyViewedStore) Load(ctx context.Context, visitorID string) ([]uuid.UUID, error) {
	raw, err := s.client.Get(ctx, s.key(visitorID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []uuid.UUID{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recently viewed: %w", err)
	}
	var ids []uuid.UUID
	if err := json.Unmarshal(raw, &ids); err != nil {
		return []uuid.UUID{}, nil
	}
	return ids, nil
}

// Save overwrites the visitor's list.
func (s *RedisRecentlyViewedStore) Save(ctx context.Context, visitorID string, ids []uuid.UUID) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(visitorID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save recently viewed: %w", err)
	}
	return nil
}

var _ shopper.RecentlyViewedStore = (*RedisRecentlyViewedStore)(nil)

type visitorEntry struct {
	ids       []uuid.UUID
	expiresAt time.Time
}

// InMemoryRecentlyViewedStore keeps lists in process memory. Expired
// entries are dropped when read.
type InMemoryRecentlyViewedStore struct {
	mu      sync.Mutex
	entries map[string]visitorEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewInMemoryRecentlyViewedStore creates an in-memory store. ttl <= 0 keeps
// entries forever.
func NewInMemoryRecentlyViewedStore(ttl time.Duration) *InMemoryRecentlyViewedStore {
	return &InMemoryRecentlyViewedStore{
		entries: make(map[string]visitorEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Load returns a copy of the visitor's list.
func (s *InMemoryRecentlyViewedStore) Load(_ context.Context, visitorID string) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[visitorID]
	if !ok {
		return []uuid.UUID{}, nil
	}
	if !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		delete(s.entries, visitorID)
		return []uuid.UUID{}, nil
	}
	return slices.Clone(e.ids), nil
}

// Save overwrites the visitor's list.
func (s *InMemoryRecentlyViewedStore) Save(_ context.Context, visitorID string, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := visitorEntry{ids: slices.Clone(ids)}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[visitorID] = e
	return nil
}

var _ shopper.RecentlyViewedStore = (*InMemoryRecentlyViewedStore)(nil)
