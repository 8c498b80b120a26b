package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	Slug          string           `json:"slug" binding:"max=200"`
	Description   string           `json:"description" binding:"max=5000"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	ImageURL      string           `json:"image_url" binding:"omitempty,url"`
	GalleryURLs   []string         `json:"gallery_urls" binding:"omitempty,dive,url"`
	CategoryID    *uuid.UUID       `json:"category_id"`
	IsNew         bool             `json:"is_new"`
	IsSale        bool             `json:"is_sale"`
	IsFeatured    bool             `json:"is_featured"`
	Attributes    map[string]any   `json:"attributes"`
}

// UpdateProductRequest represents a partial update of a product. Omitted
// fields are left unchanged; clear_* flags reset optional fields.
type UpdateProductRequest struct {
	Name               *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Slug               *string          `json:"slug" binding:"omitempty,max=200"`
	Description        *string          `json:"description" binding:"omitempty,max=5000"`
	Price              *decimal.Decimal `json:"price"`
	OriginalPrice      *decimal.Decimal `json:"original_price"`
	ClearOriginalPrice bool             `json:"clear_original_price"`
	ImageURL           *string          `json:"image_url" binding:"omitempty,url"`
	GalleryURLs        *[]string        `json:"gallery_urls"`
	CategoryID         *uuid.UUID       `json:"category_id"`
	ClearCategory      bool             `json:"clear_category"`
	IsNew              *bool            `json:"is_new"`
	IsSale             *bool            `json:"is_sale"`
	IsFeatured         *bool            `json:"is_featured"`
	Attributes         map[string]any   `json:"attributes"`
}

// ToPatch converts the request into a domain patch
func (r UpdateProductRequest) ToPatch() catalog.ProductPatch {
	return catalog.ProductPatch{
		Name:               r.Name,
		Slug:               r.Slug,
		Description:        r.Description,
		Price:              r.Price,
		OriginalPrice:      r.OriginalPrice,
		ClearOriginalPrice: r.ClearOriginalPrice,
		ImageURL:           r.ImageURL,
		GalleryURLs:        r.GalleryURLs,
		CategoryID:         r.CategoryID,
		ClearCategory:      r.ClearCategory,
		IsNew:              r.IsNew,
		IsSale:             r.IsSale,
		IsFeatured:         r.IsFeatured,
		Attributes:         r.Attributes,
	}
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Slug            string           `json:"slug"`
	Description     string           `json:"description"`
	Price           decimal.Decimal  `json:"price"`
	OriginalPrice   *decimal.Decimal `json:"original_price,omitempty"`
	DisplayPrice    string           `json:"display_price"`
	DiscountPercent int              `json:"discount_percent"`
	ImageURL        string           `json:"image_url"`
	GalleryURLs     []string         `json:"gallery_urls"`
	CategoryID      *uuid.UUID       `json:"category_id"`
	IsNew           bool             `json:"is_new"`
	IsSale          bool             `json:"is_sale"`
	IsFeatured      bool             `json:"is_featured"`
	Attributes      map[string]any   `json:"attributes"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ProductListFilter holds the storefront listing query
type ProductListFilter struct {
	Category   string `form:"category"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	PriceRange string `form:"price_range"`
	New        bool   `form:"new"`
	Sale       bool   `form:"sale"`
	Featured   bool   `form:"featured"`
	Search     string `form:"search" binding:"max=100"`
	Sort       string `form:"sort" binding:"omitempty,oneof=newest price_asc price_desc name_asc"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// AdminProductFilter holds the admin product table query
type AdminProductFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	gallery := p.GalleryURLs
	if gallery == nil {
		gallery = []string{}
	}
	attributes := p.Attributes
	if attributes == nil {
		attributes = map[string]any{}
	}
	return ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Slug:            p.Slug,
		Description:     p.Description,
		Price:           p.Price,
		OriginalPrice:   p.OriginalPrice,
		DisplayPrice:    p.DisplayPrice(),
		DiscountPercent: p.DiscountPercent(),
		ImageURL:        p.ImageURL,
		GalleryURLs:     gallery,
		CategoryID:      p.CategoryID,
		IsNew:           p.IsNew,
		IsSale:          p.IsSale,
		IsFeatured:      p.IsFeatured,
		Attributes:      attributes,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name      string     `json:"name" binding:"required,min=1,max=100"`
	Slug      string     `json:"slug" binding:"max=100"`
	ParentID  *uuid.UUID `json:"parent_id"`
	SortOrder *int       `json:"sort_order"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	Slug      string `json:"slug" binding:"max=100"`
	SortOrder *int   `json:"sort_order"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	ParentID  *uuid.UUID `json:"parent_id"`
	SortOrder int        `json:"sort_order"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CategoryTreeNode is a root category with its children
type CategoryTreeNode struct {
	CategoryResponse
	Children []CategoryResponse `json:"children"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		ParentID:  c.ParentID,
		SortOrder: c.SortOrder,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToCategoryTree converts domain tree nodes for the API
func ToCategoryTree(nodes []catalog.CategoryNode) []CategoryTreeNode {
	out := make([]CategoryTreeNode, len(nodes))
	for i := range nodes {
		children := make([]CategoryResponse, len(nodes[i].Children))
		for j := range nodes[i].Children {
			children[j] = ToCategoryResponse(&nodes[i].Children[j])
		}
		out[i] = CategoryTreeNode{
			CategoryResponse: ToCategoryResponse(&nodes[i].Category),
			Children:         children,
		}
	}
	return out
}
