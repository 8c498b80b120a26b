package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/lookbook"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// shopLookUpsertColumns are overwritten when a lookbook with the same id exists.
var shopLookUpsertColumns = []string{
	"title", "slug", "category_id", "image_url", "homepage_image_url",
	"gallery_urls", "style_tags", "material_tags", "color_tags", "is_active", "updated_at",
}

// GormLookbookRepository implements lookbook.Repository using GORM
type GormLookbookRepository struct {
	db *gorm.DB
}

// NewGormLookbookRepository creates a new GormLookbookRepository
func NewGormLookbookRepository(db *gorm.DB) *GormLookbookRepository {
	return &GormLookbookRepository{db: db}
}

// FindByID finds a lookbook with its hotspots
func (r *GormLookbookRepository) FindByID(ctx context.Context, id uuid.UUID) (*lookbook.Lookbook, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindBySlug finds a lookbook with its hotspots
func (r *GormLookbookRepository) FindBySlug(ctx context.Context, slug string) (*lookbook.Lookbook, error) {
	return r.findOne(ctx, "slug = ?", slug)
}

func (r *GormLookbookRepository) findOne(ctx context.Context, cond string, arg any) (*lookbook.Lookbook, error) {
	var model models.ShopLookModel
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where(cond, arg).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists lookbooks newest first, without hotspots
func (r *GormLookbookRepository) FindAll(ctx context.Context, activeOnly bool) ([]lookbook.Lookbook, error) {
	query := r.db.WithContext(ctx).Model(&models.ShopLookModel{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var lookModels []models.ShopLookModel
	if err := query.Order("created_at DESC").Find(&lookModels).Error; err != nil {
		return nil, err
	}
	looks := make([]lookbook.Lookbook, len(lookModels))
	for i := range lookModels {
		looks[i] = *lookModels[i].ToDomain()
	}
	return looks, nil
}

// ExistsBySlug checks whether another lookbook already uses slug
func (r *GormLookbookRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ShopLookModel{}).
		Where("slug = ? AND id <> ?", slug, excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveWithItems upserts the lookbook row, deletes its hotspots and inserts
// look.Items, all inside one transaction.
func (r *GormLookbookRepository) SaveWithItems(ctx context.Context, look *lookbook.Lookbook) error {
	parent := models.ShopLookModelFromDomain(look)
	items := make([]models.ShopLookItemModel, 0, len(look.Items))
	for _, h := range look.Items {
		items = append(items, models.ShopLookItemModelFromDomain(h))
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns(shopLookUpsertColumns),
			}).
			Create(parent).Error
		if err != nil {
			return fmt.Errorf("upsert lookbook: %w", err)
		}

		if err := tx.Where("look_id = ?", look.ID).Delete(&models.ShopLookItemModel{}).Error; err != nil {
			return fmt.Errorf("delete hotspots: %w", err)
		}

		if len(items) == 0 {
			return nil
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("insert hotspots: %w", err)
		}
		return nil
	})
}

// SetActive toggles the visibility of a lookbook
func (r *GormLookbookRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.ShopLookModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": active, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes the lookbook and its hotspots
func (r *GormLookbookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("look_id = ?", id).Delete(&models.ShopLookItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.ShopLookModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormLookbookRepository implements lookbook.Repository
var _ lookbook.Repository = (*GormLookbookRepository)(nil)
