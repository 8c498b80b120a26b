package shopper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shopper"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// MockProductRepository implements the lookups used by the service.
type MockProductRepository struct {
	catalog.ProductRepository
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

type brokenStore struct{}

func (brokenStore) Load(context.Context, string) ([]uuid.UUID, error) {
	return nil, errors.New("redis: connection refused")
}

func (brokenStore) Save(context.Context, string, []uuid.UUID) error {
	return errors.New("redis: connection refused")
}

func newProducts(t *testing.T, n int) []catalog.Product {
	t.Helper()
	out := make([]catalog.Product, n)
	for i := range out {
		p, err := catalog.NewProduct("Ghế "+string(rune('A'+i)), decimal.NewFromInt(int64(1_000_000*(i+1))))
		require.NoError(t, err)
		out[i] = *p
	}
	return out
}

func productViews(t *testing.T, reader *sdkmetric.ManualReader) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "storefront_product_views_total" {
				var total int64
				for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
					total += dp.Value
				}
				return total
			}
		}
	}
	return 0
}

func TestRecentlyViewedService_RecordView(t *testing.T) {
	ctx := context.Background()

	t.Run("views are stored most recent first and capped", func(t *testing.T) {
		store := cache.NewInMemoryRecentlyViewedStore(time.Hour)
		repo := new(MockProductRepository)
		repo.On("FindByID", ctx, mock.Anything).Return(&catalog.Product{}, nil)

		reader := sdkmetric.NewManualReader()
		bm, err := telemetry.NewBusinessMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
		require.NoError(t, err)

		svc := NewRecentlyViewedService(store, repo)
		svc.SetBusinessMetrics(bm)

		var ids []uuid.UUID
		for range shopper.RecentlyViewedCapacity + 3 {
			id := uuid.New()
			ids = append(ids, id)
			require.NoError(t, svc.RecordView(ctx, "visitor-1", id))
		}
		require.NoError(t, svc.RecordView(ctx, "visitor-1", ids[5]))

		stored, err := store.Load(ctx, "visitor-1")
		require.NoError(t, err)
		assert.Len(t, stored, shopper.RecentlyViewedCapacity)
		assert.Equal(t, ids[5], stored[0])
		assert.Equal(t, ids[len(ids)-1], stored[1])
		assert.NotContains(t, stored, ids[0])
		assert.Equal(t, int64(shopper.RecentlyViewedCapacity+4), productViews(t, reader))
	})

	t.Run("unknown product is rejected", func(t *testing.T) {
		store := cache.NewInMemoryRecentlyViewedStore(time.Hour)
		repo := new(MockProductRepository)
		missing := uuid.New()
		repo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

		err := NewRecentlyViewedService(store, repo).RecordView(ctx, "visitor-1", missing)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		stored, err := store.Load(ctx, "visitor-1")
		require.NoError(t, err)
		assert.Empty(t, stored)
	})

	t.Run("visitor id is required", func(t *testing.T) {
		repo := new(MockProductRepository)
		err := NewRecentlyViewedService(cache.NewInMemoryRecentlyViewedStore(time.Hour), repo).RecordView(ctx, "  ", uuid.New())

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "VISITOR_REQUIRED", de.Code)
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("store failure is returned", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("FindByID", ctx, mock.Anything).Return(&catalog.Product{}, nil)

		err := NewRecentlyViewedService(brokenStore{}, repo).RecordView(ctx, "visitor-1", uuid.New())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load recently viewed")
	})
}

func TestRecentlyViewedService_List(t *testing.T) {
	ctx := context.Background()
	products := newProducts(t, 6)

	store := cache.NewInMemoryRecentlyViewedStore(time.Hour)
	// Stored most recent first: p5, p4, p3, p2, p1, p0.
	stored := make([]uuid.UUID, 0, len(products))
	for i := len(products) - 1; i >= 0; i-- {
		stored = append(stored, products[i].ID)
	}
	require.NoError(t, store.Save(ctx, "visitor-1", stored))

	t.Run("display is capped and excludes the current product", func(t *testing.T) {
		repo := new(MockProductRepository)
		candidates := []uuid.UUID{products[5].ID, products[3].ID, products[2].ID, products[1].ID, products[0].ID}
		// The repository returns rows in arbitrary order.
		repo.On("FindByIDs", ctx, candidates).
			Return([]catalog.Product{products[1], products[5], products[0], products[2], products[3]}, nil)

		got, err := NewRecentlyViewedService(store, repo).List(ctx, "visitor-1", products[4].ID)
		require.NoError(t, err)
		require.Len(t, got, shopper.RecentlyViewedDisplayLimit)
		for i, id := range candidates[:shopper.RecentlyViewedDisplayLimit] {
			assert.Equal(t, id, got[i].ID)
		}
	})

	t.Run("older views replace deleted products", func(t *testing.T) {
		repo := new(MockProductRepository)
		candidates := []uuid.UUID{products[5].ID, products[4].ID, products[3].ID, products[2].ID, products[1].ID, products[0].ID}
		// The two most recent products were deleted.
		repo.On("FindByIDs", ctx, candidates).
			Return([]catalog.Product{products[0], products[2], products[1], products[3]}, nil)

		got, err := NewRecentlyViewedService(store, repo).List(ctx, "visitor-1", uuid.Nil)
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, products[3].ID, got[0].ID)
		assert.Equal(t, products[2].ID, got[1].ID)
		assert.Equal(t, products[1].ID, got[2].ID)
		assert.Equal(t, products[0].ID, got[3].ID)
	})

	t.Run("fewer live products than the limit", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{products[2], products[5]}, nil)

		got, err := NewRecentlyViewedService(store, repo).List(ctx, "visitor-1", uuid.Nil)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, products[5].ID, got[0].ID)
		assert.Equal(t, products[2].ID, got[1].ID)
	})

	t.Run("new visitor gets an empty list without a query", func(t *testing.T) {
		repo := new(MockProductRepository)
		got, err := NewRecentlyViewedService(store, repo).List(ctx, "visitor-2", uuid.Nil)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		repo.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
	})
}
