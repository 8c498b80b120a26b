package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindCandidates returns the products that may match q: category and
	// price bounds are narrowed in the store, q.Apply does the rest.
	FindCandidates(ctx context.Context, q ProductQuery, categoryIDs []uuid.UUID) ([]Product, error)

	// FindByCategory lists products of one category, newest first.
	FindByCategory(ctx context.Context, categoryID uuid.UUID, limit int) ([]Product, error)

	FindFeatured(ctx context.Context, limit int) ([]Product, error)

	// FindPage lists products for the admin table using filter's paging,
	// sort and name search.
	FindPage(ctx context.Context, filter shared.Filter) ([]Product, int64, error)

	ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	HasChildren(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}
