package lookbook

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/lookbook"
)

// SaveLookbookRequest is the body of the save-lookbook function: the
// lookbook fields plus the complete hotspot list.
type SaveLookbookRequest struct {
	LookPayload LookPayload `json:"lookPayload"`
	LookItems   []LookItem  `json:"lookItems"`
}

// LookPayload carries the lookbook row. ID is empty for a new lookbook.
type LookPayload struct {
	ID               *uuid.UUID `json:"id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	CategoryID       *uuid.UUID `json:"category_id"`
	ImageURL         string     `json:"image_url"`
	HomepageImageURL string     `json:"homepage_image_url"`
	GalleryURLs      []string   `json:"gallery_urls"`
	StyleTags        []string   `json:"style_tags"`
	MaterialTags     []string   `json:"material_tags"`
	ColorTags        []string   `json:"color_tags"`
	// IsActive defaults to true when omitted.
	IsActive *bool `json:"is_active"`
}

// UnmarshalJSON reads an empty "id" or "category_id" as absent, the way the
// editor sends them for a new lookbook.
func (p *LookPayload) UnmarshalJSON(data []byte) error {
	type plain LookPayload
	aux := struct {
		*plain
		ID         optionalUUID `json:"id"`
		CategoryID optionalUUID `json:"category_id"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.ID = aux.ID.id
	p.CategoryID = aux.CategoryID.id
	return nil
}

// optionalUUID decodes null, "" and a missing key to nil.
type optionalUUID struct {
	id *uuid.UUID
}

func (o *optionalUUID) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		o.id = nil
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return err
	}
	o.id = &id
	return nil
}

// LookItem is one hotspot. Positions are percentages of the image size.
type LookItem struct {
	ProductID      uuid.UUID `json:"product_id"`
	XPosition      float64   `json:"x_position"`
	YPosition      float64   `json:"y_position"`
	TargetImageURL string    `json:"target_image_url"`
}

// SaveLookbookResult is returned after a successful save
type SaveLookbookResult struct {
	Success bool      `json:"success"`
	LookID  uuid.UUID `json:"lookId"`
}

// SetActiveRequest shows or hides a lookbook
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// ToDraft converts the payload into the domain draft
func (p LookPayload) ToDraft() lookbook.Draft {
	active := true
	if p.IsActive != nil {
		active = *p.IsActive
	}
	return lookbook.Draft{
		ID:               p.ID,
		Title:            p.Title,
		Slug:             p.Slug,
		CategoryID:       p.CategoryID,
		ImageURL:         p.ImageURL,
		HomepageImageURL: p.HomepageImageURL,
		GalleryURLs:      p.GalleryURLs,
		StyleTags:        p.StyleTags,
		MaterialTags:     p.MaterialTags,
		ColorTags:        p.ColorTags,
		IsActive:         active,
	}
}

func toHotspotDrafts(items []LookItem) []lookbook.HotspotDraft {
	drafts := make([]lookbook.HotspotDraft, len(items))
	for i, item := range items {
		drafts[i] = lookbook.HotspotDraft{
			ProductID:      item.ProductID,
			XPosition:      item.XPosition,
			YPosition:      item.YPosition,
			TargetImageURL: item.TargetImageURL,
		}
	}
	return drafts
}

// LookbookResponse represents a lookbook in API responses
type LookbookResponse struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	CategoryID       uuid.UUID `json:"category_id"`
	ImageURL         string    `json:"image_url"`
	HomepageImageURL string    `json:"homepage_image_url"`
	GalleryURLs      []string  `json:"gallery_urls"`
	StyleTags        []string  `json:"style_tags"`
	MaterialTags     []string  `json:"material_tags"`
	ColorTags        []string  `json:"color_tags"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HotspotResponse represents a hotspot in API responses
type HotspotResponse struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	XPosition      float64   `json:"x_position"`
	YPosition      float64   `json:"y_position"`
	TargetImageURL string    `json:"target_image_url"`
}

// LookbookDetailResponse is a lookbook with its hotspots and the tagged
// products resolved
type LookbookDetailResponse struct {
	LookbookResponse
	Items    []HotspotResponse            `json:"items"`
	Products []appcatalog.ProductResponse `json:"products"`
}

// ToLookbookResponse converts a domain Lookbook
func ToLookbookResponse(l *lookbook.Lookbook) LookbookResponse {
	return LookbookResponse{
		ID:               l.ID,
		Title:            l.Title,
		Slug:             l.Slug,
		CategoryID:       l.CategoryID,
		ImageURL:         l.ImageURL,
		HomepageImageURL: l.HomepageImageURL,
		GalleryURLs:      orEmpty(l.GalleryURLs),
		StyleTags:        orEmpty(l.StyleTags),
		MaterialTags:     orEmpty(l.MaterialTags),
		ColorTags:        orEmpty(l.ColorTags),
		IsActive:         l.IsActive,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

// ToLookbookResponses converts a slice of domain Lookbooks
func ToLookbookResponses(looks []lookbook.Lookbook) []LookbookResponse {
	out := make([]LookbookResponse, len(looks))
	for i := range looks {
		out[i] = ToLookbookResponse(&looks[i])
	}
	return out
}

func toHotspotResponses(items []lookbook.Hotspot) []HotspotResponse {
	out := make([]HotspotResponse, len(items))
	for i, h := range items {
		out[i] = HotspotResponse{
			ID:             h.ID,
			ProductID:      h.ProductID,
			XPosition:      h.XPosition,
			YPosition:      h.YPosition,
			TargetImageURL: h.TargetImageURL,
		}
	}
	return out
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
