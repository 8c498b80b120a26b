package content

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/content"
	"github.com/storefront/backend/internal/domain/lookbook"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type MockProductRepository struct {
	catalog.ProductRepository
	mock.Mock
}

func (m *MockProductRepository) FindFeatured(ctx context.Context, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

type MockLookbookRepository struct {
	lookbook.Repository
	mock.Mock
}

func (m *MockLookbookRepository) FindAll(ctx context.Context, activeOnly bool) ([]lookbook.Lookbook, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]lookbook.Lookbook), args.Error(1)
}

type failingCache struct{}

func (failingCache) Get(context.Context, string, any) (bool, error) {
	return false, errors.New("connection refused")
}

func (failingCache) Set(context.Context, string, any, time.Duration) error {
	return errors.New("connection refused")
}

func (failingCache) Delete(context.Context, ...string) error {
	return errors.New("connection refused")
}

type homepageFixture struct {
	products *MockProductRepository
	looks    *MockLookbookRepository
	usps     *MockUSPRepository
	keywords *MockKeywordRepository
	themes   *MockThemeConfigRepository
}

func newHomepageFixture(t *testing.T) homepageFixture {
	t.Helper()
	f := homepageFixture{
		products: new(MockProductRepository),
		looks:    new(MockLookbookRepository),
		usps:     new(MockUSPRepository),
		keywords: new(MockKeywordRepository),
		themes:   new(MockThemeConfigRepository),
	}

	sofa, err := catalog.NewProduct("Sofa Oslo", decimal.NewFromInt(15_000_000))
	require.NoError(t, err)
	sofa.IsFeatured = true

	categoryID := uuid.New()
	var looks []lookbook.Lookbook
	for i := range HomepageLookbookLimit + 2 {
		look, err := lookbook.Build(lookbook.Draft{
			Title:      "Look " + string(rune('A'+i)),
			CategoryID: &categoryID,
			IsActive:   true,
		}, nil, time.Now())
		require.NoError(t, err)
		looks = append(looks, *look)
	}
	usp, err := content.NewUSP("truck", "Giao hàng miễn phí", "", 1)
	require.NoError(t, err)

	f.products.On("FindFeatured", mock.Anything, HomepageFeaturedLimit).Return([]catalog.Product{*sofa}, nil)
	f.looks.On("FindAll", mock.Anything, true).Return(looks, nil)
	f.usps.On("FindAll", mock.Anything).Return([]content.USP{*usp}, nil)
	f.keywords.On("FindAll", mock.Anything, (*uuid.UUID)(nil)).Return([]content.TrendingKeyword{{ID: uuid.New(), Keyword: "sofa"}}, nil)
	f.themes.On("FindByKey", mock.Anything, content.ThemeKeyHomepageHero).Return(&content.ThemeConfig{
		Key:   content.ThemeKeyHomepageHero,
		Value: json.RawMessage(`{"title":"Thu 2026"}`),
	}, nil)
	return f
}

func (f homepageFixture) service(c Cache, logger *zap.Logger) *HomepageService {
	return NewHomepageService(f.products, f.looks, f.usps, f.keywords, f.themes, c, 5*time.Minute, logger)
}

func TestHomepageService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("builds the payload", func(t *testing.T) {
		f := newHomepageFixture(t)
		resp, err := f.service(nil, nil).Get(ctx)
		require.NoError(t, err)

		require.Len(t, resp.FeaturedProducts, 1)
		assert.Equal(t, "15.000.000 ₫", resp.FeaturedProducts[0].DisplayPrice)
		assert.Len(t, resp.Lookbooks, HomepageLookbookLimit)
		assert.Len(t, resp.USPs, 1)
		assert.Len(t, resp.TrendingKeywords, 1)
		assert.JSONEq(t, `{"title":"Thu 2026"}`, string(resp.Hero))
	})

	t.Run("second call is served from cache until invalidated", func(t *testing.T) {
		f := newHomepageFixture(t)
		svc := f.service(cache.NewInMemoryJSONCache(), nil)

		first, err := svc.Get(ctx)
		require.NoError(t, err)
		second, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, first.FeaturedProducts[0].ID, second.FeaturedProducts[0].ID)
		f.products.AssertNumberOfCalls(t, "FindFeatured", 1)

		svc.InvalidateHomepage(ctx)
		_, err = svc.Get(ctx)
		require.NoError(t, err)
		f.products.AssertNumberOfCalls(t, "FindFeatured", 2)
	})

	t.Run("payload built across an invalidation is not cached", func(t *testing.T) {
		f := newHomepageFixture(t)
		c := cache.NewInMemoryJSONCache()
		svc := f.service(c, nil)

		featured := f.products.ExpectedCalls[0].ReturnArguments
		f.products.ExpectedCalls = nil
		f.products.On("FindFeatured", mock.Anything, HomepageFeaturedLimit).
			Run(func(mock.Arguments) { svc.InvalidateHomepage(ctx) }).
			Return(featured...).Once()
		f.products.On("FindFeatured", mock.Anything, HomepageFeaturedLimit).Return(featured...)

		resp, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.Len(t, resp.FeaturedProducts, 1)

		var cached HomepageResponse
		hit, err := c.Get(ctx, HomepageCacheKey, &cached)
		require.NoError(t, err)
		assert.False(t, hit)

		_, err = svc.Get(ctx)
		require.NoError(t, err)
		_, err = svc.Get(ctx)
		require.NoError(t, err)
		f.products.AssertNumberOfCalls(t, "FindFeatured", 2)
	})

	t.Run("missing hero is fine", func(t *testing.T) {
		f := newHomepageFixture(t)
		f.themes.ExpectedCalls = nil
		f.themes.On("FindByKey", mock.Anything, content.ThemeKeyHomepageHero).Return(nil, shared.ErrNotFound)

		resp, err := f.service(nil, nil).Get(ctx)
		require.NoError(t, err)
		assert.Nil(t, resp.Hero)
	})

	t.Run("broken cache falls back to the database", func(t *testing.T) {
		f := newHomepageFixture(t)
		core, logs := observer.New(zap.WarnLevel)
		svc := f.service(failingCache{}, zap.New(core))

		resp, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.Len(t, resp.FeaturedProducts, 1)
		svc.InvalidateHomepage(ctx)
		assert.Equal(t, 3, logs.Len())
	})

	t.Run("database failure is returned", func(t *testing.T) {
		f := newHomepageFixture(t)
		f.usps.ExpectedCalls = nil
		f.usps.On("FindAll", mock.Anything).Return([]content.USP(nil), errors.New("timeout"))

		_, err := f.service(nil, nil).Get(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load usps")
	})
}
