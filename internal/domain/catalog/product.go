package catalog

import (
	"maps"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Product represents a piece of furniture sold in the storefront
type Product struct {
	shared.BaseEntity
	Name          string
	Slug          string
	Description   string
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal
	ImageURL      string
	GalleryURLs   []string
	CategoryID    *uuid.UUID
	IsNew         bool
	IsSale        bool
	IsFeatured    bool
	// Attributes holds free-form specs such as material, color or dimensions.
	Attributes map[string]any
}

// NewProduct creates a new product with a slug derived from its name
func NewProduct(name string, price decimal.Decimal) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price, nil); err != nil {
		return nil, err
	}
	slug := valueobject.Slugify(name)
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Product name must contain at least one letter or digit")
	}

	return &Product{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Slug:        slug,
		Price:       price,
		GalleryURLs: []string{},
		Attributes:  map[string]any{},
	}, nil
}

// ProductPatch is a typed partial update of a product.
// Nil fields are left untouched.
type ProductPatch struct {
	Name               *string
	Slug               *string
	Description        *string
	Price              *decimal.Decimal
	OriginalPrice      *decimal.Decimal
	ClearOriginalPrice bool
	ImageURL           *string
	GalleryURLs        *[]string
	CategoryID         *uuid.UUID
	ClearCategory      bool
	IsNew              *bool
	IsSale             *bool
	IsFeatured         *bool
	Attributes         map[string]any
}

// IsEmpty reports whether the patch changes nothing.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Slug == nil && p.Description == nil && p.Price == nil &&
		p.OriginalPrice == nil && !p.ClearOriginalPrice && p.ImageURL == nil &&
		p.GalleryURLs == nil && p.CategoryID == nil && !p.ClearCategory &&
		p.IsNew == nil && p.IsSale == nil && p.IsFeatured == nil && p.Attributes == nil
}

// Apply validates the patch against the resulting product and applies it.
// The product is left unchanged when validation fails.
func (p *Product) Apply(patch ProductPatch) error {
	next := p.clone()

	if patch.Name != nil {
		if err := validateProductName(*patch.Name); err != nil {
			return err
		}
		next.Name = *patch.Name
	}
	if patch.Slug != nil {
		slug := valueobject.Slugify(*patch.Slug)
		if slug == "" {
			return shared.NewDomainError("INVALID_SLUG", "Slug must contain at least one letter or digit")
		}
		next.Slug = slug
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Price != nil {
		next.Price = *patch.Price
	}
	if patch.ClearOriginalPrice {
		next.OriginalPrice = nil
	}
	if patch.OriginalPrice != nil {
		op := *patch.OriginalPrice
		next.OriginalPrice = &op
	}
	if err := validatePrice(next.Price, next.OriginalPrice); err != nil {
		return err
	}
	if patch.ImageURL != nil {
		next.ImageURL = *patch.ImageURL
	}
	if patch.GalleryURLs != nil {
		next.GalleryURLs = slices.Clone(*patch.GalleryURLs)
	}
	if patch.ClearCategory {
		next.CategoryID = nil
	}
	if patch.CategoryID != nil {
		id := *patch.CategoryID
		next.CategoryID = &id
	}
	if patch.IsNew != nil {
		next.IsNew = *patch.IsNew
	}
	if patch.IsSale != nil {
		next.IsSale = *patch.IsSale
	}
	if patch.IsFeatured != nil {
		next.IsFeatured = *patch.IsFeatured
	}
	if patch.Attributes != nil {
		next.Attributes = maps.Clone(patch.Attributes)
	}

	next.Touch()
	*p = *next
	return nil
}

// InCategory reports whether the product belongs to one of the given categories.
func (p *Product) InCategory(ids map[uuid.UUID]struct{}) bool {
	if p.CategoryID == nil {
		return false
	}
	_, ok := ids[*p.CategoryID]
	return ok
}

// DisplayPrice renders the selling price for the storefront.
func (p *Product) DisplayPrice() string {
	return valueobject.FormatPrice(p.Price.Round(0).IntPart())
}

// DiscountPercent returns the whole-percent markdown from the original price.
func (p *Product) DiscountPercent() int {
	if p.OriginalPrice == nil {
		return 0
	}
	return valueobject.NewVND(p.Price).DiscountPercent(valueobject.NewVND(*p.OriginalPrice))
}

func (p *Product) clone() *Product {
	c := *p
	c.GalleryURLs = slices.Clone(p.GalleryURLs)
	c.Attributes = maps.Clone(p.Attributes)
	if p.OriginalPrice != nil {
		op := *p.OriginalPrice
		c.OriginalPrice = &op
	}
	if p.CategoryID != nil {
		id := *p.CategoryID
		c.CategoryID = &id
	}
	return &c
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal, original *decimal.Decimal) error {
	selling := valueobject.NewVND(price)
	if selling.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if original != nil && valueobject.NewVND(*original).LessThan(selling) {
		return shared.NewDomainError("INVALID_PRICE", "Original price cannot be lower than the selling price")
	}
	return nil
}

// RelatedProducts picks up to limit products sharing the category of p,
// excluding p itself, in the order given.
func RelatedProducts(p *Product, candidates []Product, limit int) []Product {
	related := make([]Product, 0, limit)
	if p.CategoryID == nil {
		return related
	}
	for _, c := range candidates {
		if len(related) >= limit {
			break
		}
		if c.ID == p.ID || c.CategoryID == nil || *c.CategoryID != *p.CategoryID {
			continue
		}
		related = append(related, c)
	}
	return related
}
