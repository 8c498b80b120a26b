package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, name string, priceM int64, categoryID *uuid.UUID, age time.Duration) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, decimal.NewFromInt(priceM*1_000_000))
	require.NoError(t, err)
	p.CategoryID = categoryID
	p.CreatedAt = time.Now().Add(-age)
	p.UpdatedAt = p.CreatedAt
	return p
}

func TestGormProductRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)

	categoryID := uuid.New()
	sofa := newTestProduct(t, "Sofa gỗ sồi", 15, &categoryID, 0)
	sofa.GalleryURLs = []string{"https://cdn.example.com/a.jpg"}
	sofa.Attributes = map[string]any{"material": "oak"}
	require.NoError(t, repo.Save(ctx, sofa))

	t.Run("FindByID round-trips json columns", func(t *testing.T) {
		found, err := repo.FindByID(ctx, sofa.ID)
		require.NoError(t, err)
		assert.Equal(t, "sofa-go-soi", found.Slug)
		assert.True(t, sofa.Price.Equal(found.Price))
		assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, found.GalleryURLs)
		assert.Equal(t, "oak", found.Attributes["material"])
		require.NotNil(t, found.CategoryID)
		assert.Equal(t, categoryID, *found.CategoryID)
	})

	t.Run("FindBySlug", func(t *testing.T) {
		found, err := repo.FindBySlug(ctx, "sofa-go-soi")
		require.NoError(t, err)
		assert.Equal(t, sofa.ID, found.ID)

		_, err = repo.FindBySlug(ctx, "missing")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("Save updates an existing product", func(t *testing.T) {
		name := "Sofa gỗ óc chó"
		require.NoError(t, sofa.Apply(catalog.ProductPatch{Name: &name}))
		require.NoError(t, repo.Save(ctx, sofa))

		found, err := repo.FindByID(ctx, sofa.ID)
		require.NoError(t, err)
		assert.Equal(t, name, found.Name)
	})

	t.Run("ExistsBySlug honors exclusion", func(t *testing.T) {
		exists, err := repo.ExistsBySlug(ctx, sofa.Slug, nil)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsBySlug(ctx, sofa.Slug, &sofa.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("CountByCategory", func(t *testing.T) {
		n, err := repo.CountByCategory(ctx, categoryID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, sofa.ID))
		_, err := repo.FindByID(ctx, sofa.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, sofa.ID), shared.ErrNotFound)
	})
}

func TestGormProductRepository_Listing(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)

	living := uuid.New()
	bedroom := uuid.New()
	cheap := newTestProduct(t, "Ghế đẩu", 5, &living, 4*time.Hour)
	mid := newTestProduct(t, "Bàn trà", 15, &living, 3*time.Hour)
	mid.IsFeatured = true
	high := newTestProduct(t, "Giường ngủ", 25, &bedroom, 2*time.Hour)
	high.IsFeatured = true
	lux := newTestProduct(t, "Sofa da", 60, &living, time.Hour)
	for _, p := range []*catalog.Product{cheap, mid, high, lux} {
		require.NoError(t, repo.Save(ctx, p))
	}

	t.Run("FindCandidates narrows by price range", func(t *testing.T) {
		pr, err := catalog.ParsePriceRange("10-20")
		require.NoError(t, err)

		found, err := repo.FindCandidates(ctx, catalog.ProductQuery{PriceRange: pr}, nil)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, mid.ID, found[0].ID)
	})

	t.Run("FindCandidates narrows by categories", func(t *testing.T) {
		found, err := repo.FindCandidates(ctx, catalog.ProductQuery{}, []uuid.UUID{bedroom})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, high.ID, found[0].ID)
	})

	t.Run("FindFeatured newest first", func(t *testing.T) {
		found, err := repo.FindFeatured(ctx, 10)
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, high.ID, found[0].ID)
		assert.Equal(t, mid.ID, found[1].ID)
	})

	t.Run("FindByCategory respects limit", func(t *testing.T) {
		found, err := repo.FindByCategory(ctx, living, 2)
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, lux.ID, found[0].ID)
	})

	t.Run("FindByIDs skips unknown ids", func(t *testing.T) {
		found, err := repo.FindByIDs(ctx, []uuid.UUID{cheap.ID, uuid.New()})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, cheap.ID, found[0].ID)

		none, err := repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("FindPage sorts and pages", func(t *testing.T) {
		items, total, err := repo.FindPage(ctx, shared.Filter{Page: 1, PageSize: 3, OrderBy: "price", OrderDir: "asc"})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, items, 3)
		assert.Equal(t, cheap.ID, items[0].ID)

		items, _, err = repo.FindPage(ctx, shared.Filter{Page: 2, PageSize: 3, OrderBy: "price", OrderDir: "asc"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, lux.ID, items[0].ID)
	})

	t.Run("FindPage searches by slug", func(t *testing.T) {
		items, total, err := repo.FindPage(ctx, shared.Filter{Search: "sofa"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, items, 1)
		assert.Equal(t, lux.ID, items[0].ID)
	})
}

func TestGormProductRepository_FindPage_RejectsUnknownSortField(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	repo := NewGormProductRepository(db.DB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "products" ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, total, err := repo.FindPage(context.Background(), shared.Filter{OrderBy: "price; DROP TABLE products"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCategoryRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormCategoryRepository(db)

	living, err := catalog.NewCategory("Phòng khách", "")
	require.NoError(t, err)
	living.SetSortOrder(1)
	sofa, err := catalog.NewChildCategory("Sofa", "", living)
	require.NoError(t, err)
	bedroom, err := catalog.NewCategory("Phòng ngủ", "")
	require.NoError(t, err)
	bedroom.SetSortOrder(0)

	for _, c := range []*catalog.Category{living, sofa, bedroom} {
		require.NoError(t, repo.Save(ctx, c))
	}

	t.Run("FindAll orders by sort order", func(t *testing.T) {
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, bedroom.ID, all[0].ID)
	})

	t.Run("FindBySlug", func(t *testing.T) {
		found, err := repo.FindBySlug(ctx, "phong-khach")
		require.NoError(t, err)
		assert.Equal(t, living.ID, found.ID)

		_, err = repo.FindBySlug(ctx, "missing")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("HasChildren", func(t *testing.T) {
		has, err := repo.HasChildren(ctx, living.ID)
		require.NoError(t, err)
		assert.True(t, has)

		has, err = repo.HasChildren(ctx, sofa.ID)
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("ExistsBySlug", func(t *testing.T) {
		exists, err := repo.ExistsBySlug(ctx, "sofa", nil)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsBySlug(ctx, "sofa", &sofa.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, sofa.ID))
		assert.ErrorIs(t, repo.Delete(ctx, sofa.ID), shared.ErrNotFound)
	})
}
