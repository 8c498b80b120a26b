package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/shopper"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// JSONCache is implemented by RedisJSONCache and InMemoryJSONCache.
type JSONCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Stores are the cache-backed stores used by the application.
type Stores struct {
	RecentlyViewed shopper.RecentlyViewedStore
	JSON           JSONCache
	// Backend is "redis" or "memory".
	Backend string
	client  *redis.Client
}

// Close releases the Redis connection, if any.
func (s *Stores) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// Factory creates stores based on configuration
type Factory struct {
	redisConfig           config.RedisConfig
	cacheConfig           config.CacheConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores
// when Redis is unreachable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(redisCfg config.RedisConfig, cacheCfg config.CacheConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           redisCfg,
		cacheConfig:           cacheCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateInMemory returns process-local stores. Lists and cached payloads are
// not shared between instances.
func (f *Factory) CreateInMemory() *Stores {
	return &Stores{
		RecentlyViewed: NewInMemoryRecentlyViewedStore(f.cacheConfig.RecentlyViewedTTL),
		JSON:           NewInMemoryJSONCache(),
		Backend:        "memory",
	}
}

// CreateRedis connects to Redis and returns Redis-backed stores.
func (f *Factory) CreateRedis() (*Stores, error) {
	client, err := NewRedisClient(f.redisConfig)
	if err != nil {
		return nil, err
	}
	prefix := f.cacheConfig.KeyPrefix
	return &Stores{
		RecentlyViewed: NewRedisRecentlyViewedStore(client, prefix, f.cacheConfig.RecentlyViewedTTL),
		JSON:           NewRedisJSONCache(client, prefix),
		Backend:        "redis",
		client:         client,
	}, nil
}

// Create uses Redis when enabled, falling back to memory if allowed.
func (f *Factory) Create() (*Stores, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory stores")
		return f.CreateInMemory(), nil
	}

	stores, err := f.CreateRedis()
	if err == nil {
		f.logger.Info("Using Redis stores", zap.String("addr", f.redisConfig.Addr()))
		return stores, nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
		"Recently viewed lists will not be shared across instances.",
		zap.Error(err),
	)
	return f.CreateInMemory(), nil
}
