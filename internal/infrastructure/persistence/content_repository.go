package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/content"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormKeywordRepository implements content.KeywordRepository using GORM
type GormKeywordRepository struct {
	db *gorm.DB
}

// NewGormKeywordRepository creates a new GormKeywordRepository
func NewGormKeywordRepository(db *gorm.DB) *GormKeywordRepository {
	return &GormKeywordRepository{db: db}
}

// FindAll lists keywords; with a category it returns global keywords plus
// those of the category.
func (r *GormKeywordRepository) FindAll(ctx context.Context, categoryID *uuid.UUID) ([]content.TrendingKeyword, error) {
	query := r.db.WithContext(ctx).Model(&models.TrendingKeywordModel{})
	if categoryID != nil {
		query = query.Where("category_id IS NULL OR category_id = ?", *categoryID)
	}
	var keywordModels []models.TrendingKeywordModel
	if err := query.Order("sort_order ASC, created_at ASC").Find(&keywordModels).Error; err != nil {
		return nil, err
	}
	keywords := make([]content.TrendingKeyword, len(keywordModels))
	for i := range keywordModels {
		keywords[i] = keywordModels[i].ToDomain()
	}
	return keywords, nil
}

// Create inserts a keyword
func (r *GormKeywordRepository) Create(ctx context.Context, k *content.TrendingKeyword) error {
	return r.db.WithContext(ctx).Create(models.TrendingKeywordModelFromDomain(k)).Error
}

// Delete deletes a keyword
func (r *GormKeywordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.TrendingKeywordModel{}, id)
}

// GormUSPRepository implements content.USPRepository using GORM
type GormUSPRepository struct {
	db *gorm.DB
}

// NewGormUSPRepository creates a new GormUSPRepository
func NewGormUSPRepository(db *gorm.DB) *GormUSPRepository {
	return &GormUSPRepository{db: db}
}

// FindAll lists USPs by display order
func (r *GormUSPRepository) FindAll(ctx context.Context) ([]content.USP, error) {
	var uspModels []models.USPModel
	if err := r.db.WithContext(ctx).Order("display_order ASC, title ASC").Find(&uspModels).Error; err != nil {
		return nil, err
	}
	usps := make([]content.USP, len(uspModels))
	for i := range uspModels {
		usps[i] = *uspModels[i].ToDomain()
	}
	return usps, nil
}

// FindByID finds a USP by its ID
func (r *GormUSPRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.USP, error) {
	var model models.USPModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a USP
func (r *GormUSPRepository) Save(ctx context.Context, u *content.USP) error {
	return r.db.WithContext(ctx).Save(models.USPModelFromDomain(u)).Error
}

// Delete deletes a USP
func (r *GormUSPRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.USPModel{}, id)
}

// GormThemeConfigRepository implements content.ThemeConfigRepository using GORM
type GormThemeConfigRepository struct {
	db *gorm.DB
}

// NewGormThemeConfigRepository creates a new GormThemeConfigRepository
func NewGormThemeConfigRepository(db *gorm.DB) *GormThemeConfigRepository {
	return &GormThemeConfigRepository{db: db}
}

// FindAll returns every theme config entry ordered by key
func (r *GormThemeConfigRepository) FindAll(ctx context.Context) ([]content.ThemeConfig, error) {
	var configModels []models.ThemeConfigModel
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&configModels).Error; err != nil {
		return nil, err
	}
	configs := make([]content.ThemeConfig, len(configModels))
	for i := range configModels {
		configs[i] = configModels[i].ToDomain()
	}
	return configs, nil
}

// FindByKey finds a theme config entry
func (r *GormThemeConfigRepository) FindByKey(ctx context.Context, key string) (*content.ThemeConfig, error) {
	var model models.ThemeConfigModel
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	cfg := model.ToDomain()
	return &cfg, nil
}

// Upsert writes the value of a key, inserting the key when it is new
func (r *GormThemeConfigRepository) Upsert(ctx context.Context, c *content.ThemeConfig) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(models.ThemeConfigModelFromDomain(c)).Error
}

// GormSitePageRepository implements content.SitePageRepository using GORM
type GormSitePageRepository struct {
	db *gorm.DB
}

// NewGormSitePageRepository creates a new GormSitePageRepository
func NewGormSitePageRepository(db *gorm.DB) *GormSitePageRepository {
	return &GormSitePageRepository{db: db}
}

// FindAll lists pages by title
func (r *GormSitePageRepository) FindAll(ctx context.Context) ([]content.SitePage, error) {
	var pageModels []models.SitePageModel
	if err := r.db.WithContext(ctx).Order("title ASC").Find(&pageModels).Error; err != nil {
		return nil, err
	}
	pages := make([]content.SitePage, len(pageModels))
	for i := range pageModels {
		pages[i] = *pageModels[i].ToDomain()
	}
	return pages, nil
}

// FindByID finds a page by its ID
func (r *GormSitePageRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.SitePage, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindBySlug finds a page by its slug, published or not
func (r *GormSitePageRepository) FindBySlug(ctx context.Context, slug string) (*content.SitePage, error) {
	return r.findOne(ctx, "slug = ?", slug)
}

func (r *GormSitePageRepository) findOne(ctx context.Context, cond string, arg any) (*content.SitePage, error) {
	var model models.SitePageModel
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a page
func (r *GormSitePageRepository) Save(ctx context.Context, p *content.SitePage) error {
	return r.db.WithContext(ctx).Save(models.SitePageModelFromDomain(p)).Error
}

// Delete deletes a page
func (r *GormSitePageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.SitePageModel{}, id)
}

// deleteByID deletes the row of model with id, returning ErrNotFound when absent.
func deleteByID(ctx context.Context, db *gorm.DB, model any, id uuid.UUID) error {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var (
	_ content.KeywordRepository     = (*GormKeywordRepository)(nil)
	_ content.USPRepository         = (*GormUSPRepository)(nil)
	_ content.ThemeConfigRepository = (*GormThemeConfigRepository)(nil)
	_ content.SitePageRepository    = (*GormSitePageRepository)(nil)
)
