package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/shopper"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

type homepageStub struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

func TestInMemoryRecentlyViewedStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryRecentlyViewedStore(time.Hour)
	now := time.Now()
	store.now = func() time.Time { return now }

	ids, err := store.Load(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Empty(t, ids)

	a, b := uuid.New(), uuid.New()
	require.NoError(t, store.Save(ctx, "visitor-1", []uuid.UUID{a, b}))

	ids, err = store.Load(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)

	ids[0] = uuid.Nil
	again, _ := store.Load(ctx, "visitor-1")
	assert.Equal(t, a, again[0], "loaded slice must not alias stored state")

	other, _ := store.Load(ctx, "visitor-2")
	assert.Empty(t, other)

	now = now.Add(2 * time.Hour)
	expired, err := store.Load(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Empty(t, expired)
}

func TestInMemoryJSONCache(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryJSONCache()
	now := time.Now()
	c.now = func() time.Time { return now }

	var got homepageStub
	hit, err := c.Get(ctx, "homepage", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "homepage", homepageStub{Title: "Nhà đẹp", Items: []string{"a"}}, time.Minute))
	hit, err = c.Get(ctx, "homepage", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Nhà đẹp", got.Title)

	require.NoError(t, c.Delete(ctx, "homepage"))
	hit, _ = c.Get(ctx, "homepage", &got)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "short", homepageStub{}, time.Second))
	now = now.Add(time.Minute)
	hit, _ = c.Get(ctx, "short", &got)
	assert.False(t, hit)
}

func TestFactory_Create(t *testing.T) {
	t.Run("redis disabled uses memory", func(t *testing.T) {
		f := NewFactory(config.RedisConfig{Enabled: false}, config.CacheConfig{}, WithLogger(zap.NewNop()))
		stores, err := f.Create()
		require.NoError(t, err)
		assert.Equal(t, "memory", stores.Backend)
		assert.NoError(t, stores.Close())
	})

	t.Run("unreachable redis falls back", func(t *testing.T) {
		f := NewFactory(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}, config.CacheConfig{})
		stores, err := f.Create()
		require.NoError(t, err)
		assert.Equal(t, "memory", stores.Backend)
	})

	t.Run("unreachable redis without fallback fails", func(t *testing.T) {
		f := NewFactory(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}, config.CacheConfig{},
			WithInMemoryFallback(false))
		_, err := f.Create()
		assert.Error(t, err)
	})
}

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Redis container test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisStores(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()

	t.Run("recently viewed round trip with TTL", func(t *testing.T) {
		store := NewRedisRecentlyViewedStore(client, "test:", time.Hour)

		list := shopper.NewRecentlyViewed(nil)
		first, second := uuid.New(), uuid.New()
		list.Add(first)
		list.Add(second)
		require.NoError(t, store.Save(ctx, "v1", list.IDs()))

		ids, err := store.Load(ctx, "v1")
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{second, first}, ids)

		ttl, err := client.TTL(ctx, "test:recently_viewed:v1").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, 59*time.Minute)

		require.NoError(t, client.Set(ctx, "test:recently_viewed:broken", "not json", 0).Err())
		ids, err = store.Load(ctx, "broken")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("json cache", func(t *testing.T) {
		c := NewRedisJSONCache(client, "test:")
		require.NoError(t, c.Set(ctx, "homepage", homepageStub{Title: "x"}, time.Minute))

		var got homepageStub
		hit, err := c.Get(ctx, "homepage", &got)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, "x", got.Title)

		require.NoError(t, c.Delete(ctx, "homepage"))
		hit, err = c.Get(ctx, "homepage", &got)
		require.NoError(t, err)
		assert.False(t, hit)
	})
}
