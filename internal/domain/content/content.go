// Package content holds the editable storefront content: trending search
// keywords, USP banner entries, theme configuration and static pages.
package content

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// TrendingKeyword is a suggested search term, optionally scoped to a category.
type TrendingKeyword struct {
	ID         uuid.UUID
	Keyword    string
	CategoryID *uuid.UUID
	SortOrder  int
	CreatedAt  time.Time
}

// NewTrendingKeyword creates a trending keyword
func NewTrendingKeyword(keyword string, categoryID *uuid.UUID, sortOrder int) (*TrendingKeyword, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, shared.NewValidationError("keyword is required")
	}
	if len(keyword) > 100 {
		return nil, shared.NewValidationError("keyword cannot exceed 100 characters")
	}
	return &TrendingKeyword{
		ID:         uuid.New(),
		Keyword:    keyword,
		CategoryID: categoryID,
		SortOrder:  sortOrder,
		CreatedAt:  time.Now(),
	}, nil
}

// USP is a unique-selling-point entry shown in the promotional strip.
type USP struct {
	ID           uuid.UUID
	IconName     string
	Title        string
	Description  string
	DisplayOrder int
}

// USPPatch is a typed partial update of a USP.
type USPPatch struct {
	IconName     *string
	Title        *string
	Description  *string
	DisplayOrder *int
}

// NewUSP creates a USP entry
func NewUSP(iconName, title, description string, displayOrder int) (*USP, error) {
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewValidationError("title is required")
	}
	return &USP{
		ID:           uuid.New(),
		IconName:     iconName,
		Title:        title,
		Description:  description,
		DisplayOrder: displayOrder,
	}, nil
}

// Apply applies a patch; the USP is unchanged on error.
func (u *USP) Apply(p USPPatch) error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return shared.NewValidationError("title is required")
	}
	if p.IconName != nil {
		u.IconName = *p.IconName
	}
	if p.Title != nil {
		u.Title = *p.Title
	}
	if p.Description != nil {
		u.Description = *p.Description
	}
	if p.DisplayOrder != nil {
		u.DisplayOrder = *p.DisplayOrder
	}
	return nil
}

// Well-known theme config keys.
const (
	ThemeKeyHomepageHero    = "homepage_hero"
	ThemeKeyHomepageWidgets = "homepage_widgets"
	ThemeKeyColors          = "colors"
)

// ThemeConfig is a keyed JSON document, e.g. the homepage hero banner.
type ThemeConfig struct {
	Key       string
	Value     json.RawMessage
	UpdatedAt time.Time
}

// NewThemeConfig validates key and value.
func NewThemeConfig(key string, value json.RawMessage) (*ThemeConfig, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, shared.NewValidationError("key is required")
	}
	if len(value) == 0 || !json.Valid(value) {
		return nil, shared.NewValidationError("value must be valid JSON")
	}
	return &ThemeConfig{Key: key, Value: value, UpdatedAt: time.Now()}, nil
}

// SitePage is a static content page such as "about" or "shipping policy".
type SitePage struct {
	ID          uuid.UUID
	Slug        string
	Title       string
	Content     string
	IsPublished bool
	UpdatedAt   time.Time
}

// NewSitePage creates a page; slug defaults to one derived from the title.
func NewSitePage(slug, title, body string, published bool) (*SitePage, error) {
	p := &SitePage{ID: uuid.New()}
	if err := p.Update(slug, title, body, published); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the page contents.
func (p *SitePage) Update(slug, title, body string, published bool) error {
	if strings.TrimSpace(title) == "" {
		return shared.NewValidationError("title is required")
	}
	if slug == "" {
		slug = title
	}
	resolved := valueobject.Slugify(slug)
	if resolved == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug must contain at least one letter or digit")
	}
	p.Slug = resolved
	p.Title = title
	p.Content = body
	p.IsPublished = published
	p.UpdatedAt = time.Now()
	return nil
}
