package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	Name          string           `gorm:"type:varchar(200);not null"`
	Slug          string           `gorm:"type:varchar(220);not null;uniqueIndex"`
	Description   string           `gorm:"type:text"`
	Price         decimal.Decimal  `gorm:"type:numeric(15,0);not null;default:0;index"`
	OriginalPrice *decimal.Decimal `gorm:"type:numeric(15,0)"`
	ImageURL      string           `gorm:"type:text"`
	GalleryURLs   []string         `gorm:"column:gallery_urls;type:jsonb;serializer:json"`
	CategoryID    *uuid.UUID       `gorm:"type:uuid;index"`
	IsNew         bool             `gorm:"not null;default:false"`
	IsSale        bool             `gorm:"not null;default:false"`
	IsFeatured    bool             `gorm:"not null;default:false;index"`
	Attributes    map[string]any   `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	gallery := m.GalleryURLs
	if gallery == nil {
		gallery = []string{}
	}
	attrs := m.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}
	return &catalog.Product{
		BaseEntity:    m.BaseModel.ToDomain(),
		Name:          m.Name,
		Slug:          m.Slug,
		Description:   m.Description,
		Price:         m.Price,
		OriginalPrice: m.OriginalPrice,
		ImageURL:      m.ImageURL,
		GalleryURLs:   gallery,
		CategoryID:    m.CategoryID,
		IsNew:         m.IsNew,
		IsSale:        m.IsSale,
		IsFeatured:    m.IsFeatured,
		Attributes:    attrs,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.Slug = p.Slug
	m.Description = p.Description
	m.Price = p.Price
	m.OriginalPrice = p.OriginalPrice
	m.ImageURL = p.ImageURL
	m.GalleryURLs = p.GalleryURLs
	m.CategoryID = p.CategoryID
	m.IsNew = p.IsNew
	m.IsSale = p.IsSale
	m.IsFeatured = p.IsFeatured
	m.Attributes = p.Attributes
}

// ProductModelFromDomain creates a new persistence model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	BaseModel
	Name      string     `gorm:"type:varchar(100);not null"`
	Slug      string     `gorm:"type:varchar(120);not null;uniqueIndex"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index"`
	SortOrder int        `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Slug:       m.Slug,
		ParentID:   m.ParentID,
		SortOrder:  m.SortOrder,
	}
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Slug = c.Slug
	m.ParentID = c.ParentID
	m.SortOrder = c.SortOrder
}

// CategoryModelFromDomain creates a new persistence model from a domain Category.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}
