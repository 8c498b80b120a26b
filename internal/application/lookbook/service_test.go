package lookbook

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/lookbook"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// MockRepository is a mock implementation of lookbook.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*lookbook.Lookbook, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lookbook.Lookbook), args.Error(1)
}

func (m *MockRepository) FindBySlug(ctx context.Context, slug string) (*lookbook.Lookbook, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lookbook.Lookbook), args.Error(1)
}

func (m *MockRepository) FindAll(ctx context.Context, activeOnly bool) ([]lookbook.Lookbook, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]lookbook.Lookbook), args.Error(1)
}

func (m *MockRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) SaveWithItems(ctx context.Context, look *lookbook.Lookbook) error {
	args := m.Called(ctx, look)
	return args.Error(0)
}

func (m *MockRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductRepository implements only the lookups the service uses
type MockProductRepository struct {
	catalog.ProductRepository
	mock.Mock
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateHomepage(context.Context) {
	c.calls++
}

func newMetrics(t *testing.T) (*telemetry.BusinessMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	bm, err := telemetry.NewBusinessMetrics(provider.Meter("test"))
	require.NoError(t, err)
	return bm, reader
}

func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			var total int64
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func validRequest(categoryID uuid.UUID, products ...uuid.UUID) SaveLookbookRequest {
	req := SaveLookbookRequest{
		LookPayload: LookPayload{
			Title:      "Phòng khách Bắc Âu",
			CategoryID: &categoryID,
			ImageURL:   "https://cdn.example.com/looks/living.jpg",
		},
	}
	for i, id := range products {
		req.LookItems = append(req.LookItems, LookItem{
			ProductID: id,
			XPosition: float64(10 * (i + 1)),
			YPosition: 50,
		})
	}
	return req
}

func TestService_Save(t *testing.T) {
	ctx := context.Background()
	categoryID := uuid.New()
	sofa, lamp := uuid.New(), uuid.New()

	t.Run("new lookbook gets an id and a derived slug", func(t *testing.T) {
		repo := new(MockRepository)
		inv := &countingInvalidator{}
		bm, reader := newMetrics(t)
		svc := NewService(repo, new(MockProductRepository))
		svc.SetBusinessMetrics(bm)
		svc.SetCacheInvalidator(inv)

		var saved *lookbook.Lookbook
		repo.On("ExistsBySlug", ctx, "phong-khach-bac-au", mock.AnythingOfType("uuid.UUID")).Return(false, nil)
		repo.On("SaveWithItems", ctx, mock.AnythingOfType("*lookbook.Lookbook")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*lookbook.Lookbook) }).
			Return(nil)

		result, err := svc.Save(ctx, validRequest(categoryID, sofa, lamp))
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.NotEqual(t, uuid.Nil, result.LookID)

		require.NotNil(t, saved)
		assert.Equal(t, result.LookID, saved.ID)
		assert.Equal(t, "phong-khach-bac-au", saved.Slug)
		assert.True(t, saved.IsActive)
		require.Len(t, saved.Items, 2)
		for _, h := range saved.Items {
			assert.Equal(t, saved.ID, h.LookID)
		}
		assert.Equal(t, 1, inv.calls)
		assert.Equal(t, int64(1), counterTotal(t, reader, "storefront_lookbook_saves_total"))
		assert.Equal(t, int64(2), counterTotal(t, reader, "storefront_lookbook_hotspots_written_total"))
	})

	t.Run("existing id and explicit slug are kept", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockProductRepository))
		fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return fixed }

		id := uuid.New()
		inactive := false
		req := validRequest(categoryID)
		req.LookPayload.ID = &id
		req.LookPayload.Slug = "bac-au-2026"
		req.LookPayload.IsActive = &inactive

		repo.On("ExistsBySlug", ctx, "bac-au-2026", id).Return(false, nil)
		repo.On("SaveWithItems", ctx, mock.MatchedBy(func(l *lookbook.Lookbook) bool {
			return l.ID == id && l.Slug == "bac-au-2026" && !l.IsActive &&
				l.UpdatedAt.Equal(fixed) && len(l.Items) == 0
		})).Return(nil)

		result, err := svc.Save(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, id, result.LookID)
		repo.AssertExpectations(t)
	})

	t.Run("missing title or category is rejected before any write", func(t *testing.T) {
		for name, mutate := range map[string]func(*SaveLookbookRequest){
			"title":    func(r *SaveLookbookRequest) { r.LookPayload.Title = "" },
			"category": func(r *SaveLookbookRequest) { r.LookPayload.CategoryID = nil },
		} {
			t.Run(name, func(t *testing.T) {
				repo := new(MockRepository)
				bm, reader := newMetrics(t)
				svc := NewService(repo, new(MockProductRepository))
				svc.SetBusinessMetrics(bm)

				req := validRequest(categoryID, sofa)
				mutate(&req)
				_, err := svc.Save(ctx, req)
				assert.ErrorIs(t, err, shared.ErrInvalidInput)
				repo.AssertNotCalled(t, "ExistsBySlug", mock.Anything, mock.Anything, mock.Anything)
				repo.AssertNotCalled(t, "SaveWithItems", mock.Anything, mock.Anything)
				assert.Equal(t, int64(1), counterTotal(t, reader, "storefront_lookbook_saves_total"))
			})
		}
	})

	t.Run("hotspot outside the image", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockProductRepository))
		req := validRequest(categoryID, sofa)
		req.LookItems[0].XPosition = 120

		_, err := svc.Save(ctx, req)
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_POSITION", de.Code)
		repo.AssertNotCalled(t, "SaveWithItems", mock.Anything, mock.Anything)
	})

	t.Run("slug used by another lookbook", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockProductRepository))
		repo.On("ExistsBySlug", ctx, "phong-khach-bac-au", mock.Anything).Return(true, nil)

		_, err := svc.Save(ctx, validRequest(categoryID))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		repo.AssertNotCalled(t, "SaveWithItems", mock.Anything, mock.Anything)
	})

	t.Run("storage failure is wrapped", func(t *testing.T) {
		repo := new(MockRepository)
		inv := &countingInvalidator{}
		svc := NewService(repo, new(MockProductRepository))
		svc.SetCacheInvalidator(inv)
		dbErr := errors.New("insert or update on table \"shop_look_items\" violates foreign key constraint")

		repo.On("ExistsBySlug", ctx, mock.Anything, mock.Anything).Return(false, nil)
		repo.On("SaveWithItems", ctx, mock.Anything).Return(dbErr)

		_, err := svc.Save(ctx, validRequest(categoryID, sofa))
		require.Error(t, err)
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "save lookbook")
		assert.Zero(t, inv.calls)
	})
}

func TestService_GetBySlug(t *testing.T) {
	ctx := context.Background()
	sofa, err := catalog.NewProduct("Sofa Oslo", decimal.NewFromInt(15_000_000))
	require.NoError(t, err)
	lamp, err := catalog.NewProduct("Đèn sàn", decimal.NewFromInt(2_000_000))
	require.NoError(t, err)
	categoryID := uuid.New()

	look, err := lookbook.Build(lookbook.Draft{Title: "Góc đọc sách", CategoryID: &categoryID, IsActive: true},
		[]lookbook.HotspotDraft{
			{ProductID: lamp.ID, XPosition: 20, YPosition: 30},
			{ProductID: sofa.ID, XPosition: 60, YPosition: 70},
			{ProductID: uuid.New(), XPosition: 90, YPosition: 90},
		}, time.Now())
	require.NoError(t, err)

	t.Run("resolves tagged products in hotspot order", func(t *testing.T) {
		repo := new(MockRepository)
		products := new(MockProductRepository)
		svc := NewService(repo, products)

		repo.On("FindBySlug", ctx, "goc-doc-sach").Return(look, nil)
		products.On("FindByIDs", ctx, look.ProductIDs()).Return([]catalog.Product{*sofa, *lamp}, nil)

		detail, err := svc.GetBySlug(ctx, "goc-doc-sach")
		require.NoError(t, err)
		assert.Len(t, detail.Items, 3)
		require.Len(t, detail.Products, 2)
		assert.Equal(t, "Đèn sàn", detail.Products[0].Name)
		assert.Equal(t, "Sofa Oslo", detail.Products[1].Name)
	})

	t.Run("hidden lookbook is not found", func(t *testing.T) {
		hidden := *look
		hidden.IsActive = false
		repo := new(MockRepository)
		svc := NewService(repo, new(MockProductRepository))
		repo.On("FindBySlug", ctx, "goc-doc-sach").Return(&hidden, nil)

		_, err := svc.GetBySlug(ctx, "goc-doc-sach")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_ListAndToggle(t *testing.T) {
	ctx := context.Background()
	categoryID := uuid.New()
	look, err := lookbook.Build(lookbook.Draft{Title: "Bếp", CategoryID: &categoryID, IsActive: true}, nil, time.Now())
	require.NoError(t, err)

	repo := new(MockRepository)
	inv := &countingInvalidator{}
	svc := NewService(repo, new(MockProductRepository))
	svc.SetCacheInvalidator(inv)

	repo.On("FindAll", ctx, true).Return([]lookbook.Lookbook{*look}, nil)
	repo.On("FindAll", ctx, false).Return([]lookbook.Lookbook{*look, *look}, nil)
	repo.On("SetActive", ctx, look.ID, false).Return(nil)
	repo.On("Delete", ctx, look.ID).Return(nil)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Equal(t, []string{}, active[0].StyleTags)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, svc.SetActive(ctx, look.ID, false))
	require.NoError(t, svc.Delete(ctx, look.ID))
	assert.Equal(t, 2, inv.calls)
	repo.AssertExpectations(t)
}
