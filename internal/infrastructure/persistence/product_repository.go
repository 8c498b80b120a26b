package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a product by its slug
func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the products with the given IDs in no particular order.
// Unknown IDs are skipped.
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var productModels []models.ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&productModels).Error; err != nil {
		return nil, err
	}
	return toProducts(productModels), nil
}

// FindCandidates narrows by category and price in SQL
func (r *GormProductRepository) FindCandidates(ctx context.Context, q catalog.ProductQuery, categoryIDs []uuid.UUID) ([]catalog.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{})

	if len(categoryIDs) > 0 {
		query = query.Where("category_id IN ?", categoryIDs)
	}
	if q.PriceRange != nil {
		query = query.Where("price >= ?", q.PriceRange.Min)
		if q.PriceRange.Max != nil {
			query = query.Where("price < ?", *q.PriceRange.Max)
		}
	}
	if q.OnlyNew {
		query = query.Where("is_new = ?", true)
	}
	if q.OnlySale {
		query = query.Where("is_sale = ?", true)
	}
	if q.Featured {
		query = query.Where("is_featured = ?", true)
	}

	var productModels []models.ProductModel
	if err := query.Order("created_at DESC").Find(&productModels).Error; err != nil {
		return nil, err
	}
	return toProducts(productModels), nil
}

// FindByCategory lists products of one category, newest first
func (r *GormProductRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, limit int) ([]catalog.Product, error) {
	var productModels []models.ProductModel
	query := r.db.WithContext(ctx).Where("category_id = ?", categoryID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&productModels).Error; err != nil {
		return nil, err
	}
	return toProducts(productModels), nil
}

// FindFeatured lists featured products, newest first
func (r *GormProductRepository) FindFeatured(ctx context.Context, limit int) ([]catalog.Product, error) {
	var productModels []models.ProductModel
	query := r.db.WithContext(ctx).Where("is_featured = ?", true).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&productModels).Error; err != nil {
		return nil, err
	}
	return toProducts(productModels), nil
}

// FindPage lists products for the admin table
func (r *GormProductRepository) FindPage(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.ProductModel{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR slug LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var productModels []models.ProductModel
	err := query.
		Order(orderClause(filter.OrderBy, filter.OrderDir, ProductSortFields, "created_at")).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&productModels).Error
	if err != nil {
		return nil, 0, err
	}
	return toProducts(productModels), total, nil
}

// ExistsBySlug checks whether another product already uses slug
func (r *GormProductRepository) ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ProductModel{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByCategory counts products directly assigned to a category
func (r *GormProductRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ProductModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toProducts(productModels []models.ProductModel) []catalog.Product {
	products := make([]catalog.Product, len(productModels))
	for i := range productModels {
		products[i] = *productModels[i].ToDomain()
	}
	return products
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
