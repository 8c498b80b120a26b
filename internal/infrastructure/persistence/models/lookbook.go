package models

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/lookbook"
)

// ShopLookModel is the persistence model of a lookbook.
type ShopLookModel struct {
	BaseModel
	Title            string              `gorm:"type:varchar(200);not null"`
	Slug             string              `gorm:"type:varchar(220);not null;uniqueIndex"`
	CategoryID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	ImageURL         string              `gorm:"type:text"`
	HomepageImageURL string              `gorm:"type:text"`
	GalleryURLs      []string            `gorm:"column:gallery_urls;type:jsonb;serializer:json"`
	StyleTags        []string            `gorm:"type:jsonb;serializer:json"`
	MaterialTags     []string            `gorm:"type:jsonb;serializer:json"`
	ColorTags        []string            `gorm:"type:jsonb;serializer:json"`
	IsActive         bool                `gorm:"not null;default:true;index"`
	Items            []ShopLookItemModel `gorm:"foreignKey:LookID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ShopLookModel) TableName() string {
	return "shop_looks"
}

// ToDomain converts the model, including any preloaded items.
func (m *ShopLookModel) ToDomain() *lookbook.Lookbook {
	l := &lookbook.Lookbook{
		BaseEntity:       m.BaseModel.ToDomain(),
		Title:            m.Title,
		Slug:             m.Slug,
		CategoryID:       m.CategoryID,
		ImageURL:         m.ImageURL,
		HomepageImageURL: m.HomepageImageURL,
		GalleryURLs:      orEmpty(m.GalleryURLs),
		StyleTags:        orEmpty(m.StyleTags),
		MaterialTags:     orEmpty(m.MaterialTags),
		ColorTags:        orEmpty(m.ColorTags),
		IsActive:         m.IsActive,
		Items:            make([]lookbook.Hotspot, 0, len(m.Items)),
	}
	for i := range m.Items {
		l.Items = append(l.Items, m.Items[i].ToDomain())
	}
	return l
}

// FromDomain populates the parent row only; items are written separately.
func (m *ShopLookModel) FromDomain(l *lookbook.Lookbook) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.Title = l.Title
	m.Slug = l.Slug
	m.CategoryID = l.CategoryID
	m.ImageURL = l.ImageURL
	m.HomepageImageURL = l.HomepageImageURL
	m.GalleryURLs = l.GalleryURLs
	m.StyleTags = l.StyleTags
	m.MaterialTags = l.MaterialTags
	m.ColorTags = l.ColorTags
	m.IsActive = l.IsActive
}

// ShopLookModelFromDomain creates a new persistence model from a lookbook.
func ShopLookModelFromDomain(l *lookbook.Lookbook) *ShopLookModel {
	m := &ShopLookModel{}
	m.FromDomain(l)
	return m
}

// ShopLookItemModel is the persistence model of a hotspot.
type ShopLookItemModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	LookID         uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index"`
	XPosition      float64   `gorm:"not null"`
	YPosition      float64   `gorm:"not null"`
	TargetImageURL string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ShopLookItemModel) TableName() string {
	return "shop_look_items"
}

// ToDomain converts the model to a hotspot.
func (m *ShopLookItemModel) ToDomain() lookbook.Hotspot {
	return lookbook.Hotspot{
		ID:             m.ID,
		LookID:         m.LookID,
		ProductID:      m.ProductID,
		XPosition:      m.XPosition,
		YPosition:      m.YPosition,
		TargetImageURL: m.TargetImageURL,
	}
}

// ShopLookItemModelFromDomain creates a new persistence model from a hotspot.
func ShopLookItemModelFromDomain(h lookbook.Hotspot) ShopLookItemModel {
	return ShopLookItemModel{
		ID:             h.ID,
		LookID:         h.LookID,
		ProductID:      h.ProductID,
		XPosition:      h.XPosition,
		YPosition:      h.YPosition,
		TargetImageURL: h.TargetImageURL,
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
