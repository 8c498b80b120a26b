package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	cache        CacheInvalidator
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// SetCacheInvalidator registers the cache to clear after admin writes.
func (s *CategoryService) SetCacheInvalidator(c CacheInvalidator) {
	s.cache = c
}

// Tree returns the two-level category menu
func (s *CategoryService) Tree(ctx context.Context) ([]CategoryTreeNode, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToCategoryTree(catalog.BuildCategoryTree(categories)), nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// GetBySlug retrieves a category by its URL slug
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Create creates a root or child category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	var category *catalog.Category
	var err error

	if req.ParentID != nil {
		parent, findErr := s.categoryRepo.FindByID(ctx, *req.ParentID)
		if findErr != nil {
			if errors.Is(findErr, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PARENT", "Parent category not found")
			}
			return nil, findErr
		}
		category, err = catalog.NewChildCategory(req.Name, req.Slug, parent)
	} else {
		category, err = catalog.NewCategory(req.Name, req.Slug)
	}
	if err != nil {
		return nil, err
	}

	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}

	if err := s.checkSlugFree(ctx, category.Slug, nil); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, fmt.Errorf("save category: %w", err)
	}
	s.invalidate(ctx)

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Update renames a category and optionally changes its slug and order
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := category.Update(req.Name, req.Slug); err != nil {
		return nil, err
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}

	if err := s.checkSlugFree(ctx, category.Slug, &category.ID); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, fmt.Errorf("save category %s: %w", id, err)
	}
	s.invalidate(ctx)

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Delete removes an empty category. Categories that still have child
// categories or products are kept.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}

	hasChildren, err := s.categoryRepo.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return shared.NewDomainError("HAS_CHILDREN", "Cannot delete category with child categories")
	}

	count, err := s.productRepo.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("HAS_PRODUCTS", fmt.Sprintf("Cannot delete category with %d products", count))
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CategoryService) checkSlugFree(ctx context.Context, slug string, excludeID *uuid.UUID) error {
	exists, err := s.categoryRepo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Category slug %q is already in use", slug))
	}
	return nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateHomepage(ctx)
	}
}
