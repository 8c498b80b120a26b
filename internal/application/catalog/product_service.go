package catalog

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// RelatedProductsLimit caps the "you may also like" strip.
const RelatedProductsLimit = 8

// CacheInvalidator drops cached pages built from catalog or lookbook data
type CacheInvalidator interface {
	InvalidateHomepage(ctx context.Context)
}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	cache        CacheInvalidator
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// SetCacheInvalidator registers the cache to clear after admin writes.
func (s *ProductService) SetCacheInvalidator(c CacheInvalidator) {
	s.cache = c
}

// List returns one page of the storefront product listing
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	sortBy, err := catalog.ParseProductSort(filter.Sort)
	if err != nil {
		return nil, err
	}
	priceRange, err := catalog.ParsePriceRange(filter.PriceRange)
	if err != nil {
		return nil, err
	}

	query := catalog.ProductQuery{
		PriceRange: priceRange,
		OnlyNew:    filter.New,
		OnlySale:   filter.Sale,
		Featured:   filter.Featured,
		Search:     filter.Search,
		Sort:       sortBy,
	}

	var categories []catalog.Category
	var categoryIDs []uuid.UUID
	if filter.Category != "" || filter.CategoryID != "" {
		categories, err = s.categoryRepo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		id, err := resolveCategoryFilter(filter, categories)
		if err != nil {
			return nil, err
		}
		query.CategoryID = &id
		categoryIDs = slices.Collect(maps.Keys(catalog.CategoryWithDescendants(id, categories)))
	}

	candidates, err := s.productRepo.FindCandidates(ctx, query, categoryIDs)
	if err != nil {
		return nil, err
	}
	matched := query.Apply(candidates, categories)

	page := shared.Paginate(ToProductResponses(matched), shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
	return &page, nil
}

// resolveCategoryFilter picks the category by slug, falling back to id.
func resolveCategoryFilter(filter ProductListFilter, categories []catalog.Category) (uuid.UUID, error) {
	for _, c := range categories {
		if filter.Category != "" && c.Slug == filter.Category {
			return c.ID, nil
		}
		if filter.Category == "" && filter.CategoryID != "" && c.ID.String() == strings.ToLower(filter.CategoryID) {
			return c.ID, nil
		}
	}
	return uuid.Nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetBySlug retrieves a product by its URL slug
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Related lists products from the same category, excluding the product
// itself. limit is clamped to RelatedProductsLimit.
func (s *ProductService) Related(ctx context.Context, id uuid.UUID, limit int) ([]ProductResponse, error) {
	if limit <= 0 || limit > RelatedProductsLimit {
		limit = RelatedProductsLimit
	}
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.CategoryID == nil {
		return []ProductResponse{}, nil
	}

	// one extra row in case the product itself comes back
	candidates, err := s.productRepo.FindByCategory(ctx, *product.CategoryID, limit+1)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(catalog.RelatedProducts(product, candidates, limit)), nil
}

// AdminList returns the admin product table page
func (s *ProductService) AdminList(ctx context.Context, filter AdminProductFilter) (*shared.Paginated[ProductResponse], error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()

	products, total, err := s.productRepo.FindPage(ctx, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToProductResponses(products), total, f.Page, f.PageSize)
	return &page, nil
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Name, req.Price)
	if err != nil {
		return nil, err
	}

	patch := catalog.ProductPatch{
		OriginalPrice: req.OriginalPrice,
		CategoryID:    req.CategoryID,
		IsNew:         &req.IsNew,
		IsSale:        &req.IsSale,
		IsFeatured:    &req.IsFeatured,
		Attributes:    req.Attributes,
	}
	if req.Slug != "" {
		patch.Slug = &req.Slug
	}
	if req.Description != "" {
		patch.Description = &req.Description
	}
	if req.ImageURL != "" {
		patch.ImageURL = &req.ImageURL
	}
	if req.GalleryURLs != nil {
		patch.GalleryURLs = &req.GalleryURLs
	}
	if err := product.Apply(patch); err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, product.CategoryID); err != nil {
		return nil, err
	}
	if err := s.checkSlugFree(ctx, product.Slug, nil); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	s.invalidate(ctx)

	resp := ToProductResponse(product)
	return &resp, nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	patch := req.ToPatch()
	if patch.IsEmpty() {
		return nil, shared.NewValidationError("no fields to update")
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Apply(patch); err != nil {
		return nil, err
	}

	if patch.CategoryID != nil {
		if err := s.checkCategory(ctx, product.CategoryID); err != nil {
			return nil, err
		}
	}
	if patch.Slug != nil {
		if err := s.checkSlugFree(ctx, product.Slug, &product.ID); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("save product %s: %w", id, err)
	}
	s.invalidate(ctx)

	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product; its lookbook hotspots go with it
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ProductService) checkCategory(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := s.categoryRepo.FindByID(ctx, *id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
		return err
	}
	return nil
}

func (s *ProductService) checkSlugFree(ctx context.Context, slug string, excludeID *uuid.UUID) error {
	exists, err := s.productRepo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Product slug %q is already in use", slug))
	}
	return nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateHomepage(ctx)
	}
}
