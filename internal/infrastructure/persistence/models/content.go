package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/content"
)

// TrendingKeywordModel is the persistence model of a trending keyword.
type TrendingKeywordModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	Keyword    string     `gorm:"type:varchar(100);not null"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index"`
	SortOrder  int        `gorm:"not null;default:0"`
	CreatedAt  time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TrendingKeywordModel) TableName() string {
	return "trending_keywords"
}

// ToDomain converts the model to a domain keyword.
func (m *TrendingKeywordModel) ToDomain() content.TrendingKeyword {
	return content.TrendingKeyword{
		ID:         m.ID,
		Keyword:    m.Keyword,
		CategoryID: m.CategoryID,
		SortOrder:  m.SortOrder,
		CreatedAt:  m.CreatedAt,
	}
}

// TrendingKeywordModelFromDomain creates a model from a domain keyword.
func TrendingKeywordModelFromDomain(k *content.TrendingKeyword) *TrendingKeywordModel {
	return &TrendingKeywordModel{
		ID:         k.ID,
		Keyword:    k.Keyword,
		CategoryID: k.CategoryID,
		SortOrder:  k.SortOrder,
		CreatedAt:  k.CreatedAt,
	}
}

// USPModel is the persistence model of a USP entry.
type USPModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	IconName     string    `gorm:"type:varchar(50)"`
	Title        string    `gorm:"type:varchar(120);not null"`
	Description  string    `gorm:"type:text"`
	DisplayOrder int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (USPModel) TableName() string {
	return "usps"
}

// ToDomain converts the model to a domain USP.
func (m *USPModel) ToDomain() *content.USP {
	return &content.USP{
		ID:           m.ID,
		IconName:     m.IconName,
		Title:        m.Title,
		Description:  m.Description,
		DisplayOrder: m.DisplayOrder,
	}
}

// USPModelFromDomain creates a model from a domain USP.
func USPModelFromDomain(u *content.USP) *USPModel {
	return &USPModel{
		ID:           u.ID,
		IconName:     u.IconName,
		Title:        u.Title,
		Description:  u.Description,
		DisplayOrder: u.DisplayOrder,
	}
}

// ThemeConfigModel is the persistence model of a theme config entry.
type ThemeConfigModel struct {
	Key       string    `gorm:"type:varchar(100);primary_key"`
	Value     string    `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ThemeConfigModel) TableName() string {
	return "theme_config"
}

// ToDomain converts the model to a domain theme config.
func (m *ThemeConfigModel) ToDomain() content.ThemeConfig {
	return content.ThemeConfig{
		Key:       m.Key,
		Value:     json.RawMessage(m.Value),
		UpdatedAt: m.UpdatedAt,
	}
}

// ThemeConfigModelFromDomain creates a model from a domain theme config.
func ThemeConfigModelFromDomain(c *content.ThemeConfig) *ThemeConfigModel {
	return &ThemeConfigModel{
		Key:       c.Key,
		Value:     string(c.Value),
		UpdatedAt: c.UpdatedAt,
	}
}

// SitePageModel is the persistence model of a static page.
type SitePageModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Slug        string    `gorm:"type:varchar(120);not null;uniqueIndex"`
	Title       string    `gorm:"type:varchar(200);not null"`
	Content     string    `gorm:"type:text"`
	IsPublished bool      `gorm:"not null;default:false"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SitePageModel) TableName() string {
	return "site_pages"
}

// ToDomain converts the model to a domain page.
func (m *SitePageModel) ToDomain() *content.SitePage {
	return &content.SitePage{
		ID:          m.ID,
		Slug:        m.Slug,
		Title:       m.Title,
		Content:     m.Content,
		IsPublished: m.IsPublished,
		UpdatedAt:   m.UpdatedAt,
	}
}

// SitePageModelFromDomain creates a model from a domain page.
func SitePageModelFromDomain(p *content.SitePage) *SitePageModel {
	return &SitePageModel{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       p.Title,
		Content:     p.Content,
		IsPublished: p.IsPublished,
		UpdatedAt:   p.UpdatedAt,
	}
}
