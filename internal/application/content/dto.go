package content

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	applookbook "github.com/storefront/backend/internal/application/lookbook"
	"github.com/storefront/backend/internal/domain/content"
)

// CreateKeywordRequest represents a request to add a trending keyword
type CreateKeywordRequest struct {
	Keyword    string     `json:"keyword" binding:"required,min=1,max=100"`
	CategoryID *uuid.UUID `json:"category_id"`
	SortOrder  int        `json:"sort_order"`
}

// KeywordResponse represents a trending keyword
type KeywordResponse struct {
	ID         uuid.UUID  `json:"id"`
	Keyword    string     `json:"keyword"`
	CategoryID *uuid.UUID `json:"category_id"`
	SortOrder  int        `json:"sort_order"`
}

// CreateUSPRequest represents a request to add a USP entry
type CreateUSPRequest struct {
	IconName     string `json:"icon_name" binding:"max=50"`
	Title        string `json:"title" binding:"required,min=1,max=100"`
	Description  string `json:"description" binding:"max=500"`
	DisplayOrder int    `json:"display_order"`
}

// UpdateUSPRequest is a partial update of a USP entry
type UpdateUSPRequest struct {
	IconName     *string `json:"icon_name" binding:"omitempty,max=50"`
	Title        *string `json:"title" binding:"omitempty,min=1,max=100"`
	Description  *string `json:"description" binding:"omitempty,max=500"`
	DisplayOrder *int    `json:"display_order"`
}

// USPResponse represents a USP entry
type USPResponse struct {
	ID           uuid.UUID `json:"id"`
	IconName     string    `json:"icon_name"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	DisplayOrder int       `json:"display_order"`
}

// UpsertThemeConfigRequest sets the JSON value of a theme key
type UpsertThemeConfigRequest struct {
	Value json.RawMessage `json:"value" binding:"required" swaggertype:"object"`
}

// ThemeConfigResponse represents one theme entry
type ThemeConfigResponse struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value" swaggertype:"object"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SavePageRequest creates or replaces a site page
type SavePageRequest struct {
	Slug        string `json:"slug" binding:"max=100"`
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Content     string `json:"content"`
	IsPublished bool   `json:"is_published"`
}

// PageResponse represents a site page
type PageResponse struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	IsPublished bool      `json:"is_published"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HomepageResponse bundles everything the storefront homepage renders
type HomepageResponse struct {
	Hero             json.RawMessage                `json:"hero,omitempty" swaggertype:"object"`
	FeaturedProducts []appcatalog.ProductResponse   `json:"featured_products"`
	Lookbooks        []applookbook.LookbookResponse `json:"lookbooks"`
	USPs             []USPResponse                  `json:"usps"`
	TrendingKeywords []KeywordResponse              `json:"trending_keywords"`
	GeneratedAt      time.Time                      `json:"generated_at"`
}

func toKeywordResponses(keywords []content.TrendingKeyword) []KeywordResponse {
	out := make([]KeywordResponse, len(keywords))
	for i, k := range keywords {
		out[i] = KeywordResponse{ID: k.ID, Keyword: k.Keyword, CategoryID: k.CategoryID, SortOrder: k.SortOrder}
	}
	return out
}

func toUSPResponse(u *content.USP) USPResponse {
	return USPResponse{
		ID:           u.ID,
		IconName:     u.IconName,
		Title:        u.Title,
		Description:  u.Description,
		DisplayOrder: u.DisplayOrder,
	}
}

func toUSPResponses(usps []content.USP) []USPResponse {
	out := make([]USPResponse, len(usps))
	for i := range usps {
		out[i] = toUSPResponse(&usps[i])
	}
	return out
}

func toThemeConfigResponse(c *content.ThemeConfig) ThemeConfigResponse {
	return ThemeConfigResponse{Key: c.Key, Value: c.Value, UpdatedAt: c.UpdatedAt}
}

func toPageResponse(p *content.SitePage) PageResponse {
	return PageResponse{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       p.Title,
		Content:     p.Content,
		IsPublished: p.IsPublished,
		UpdatedAt:   p.UpdatedAt,
	}
}
