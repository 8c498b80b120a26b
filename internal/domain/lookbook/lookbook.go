// Package lookbook models "shop the look" images and the product hotspots
// tagged on them.
package lookbook

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Lookbook is a curated interior image with zero or more product hotspots.
type Lookbook struct {
	shared.BaseEntity
	Title            string
	Slug             string
	CategoryID       uuid.UUID
	ImageURL         string
	HomepageImageURL string
	GalleryURLs      []string
	StyleTags        []string
	MaterialTags     []string
	ColorTags        []string
	IsActive         bool
	Items            []Hotspot
}

// Hotspot tags a product at percentage coordinates on one of the
// lookbook's images.
type Hotspot struct {
	ID             uuid.UUID
	LookID         uuid.UUID
	ProductID      uuid.UUID
	XPosition      float64
	YPosition      float64
	TargetImageURL string
}

// Draft is the editable state of a lookbook as submitted by the admin form.
type Draft struct {
	ID               *uuid.UUID
	Title            string
	Slug             string
	CategoryID       *uuid.UUID
	ImageURL         string
	HomepageImageURL string
	GalleryURLs      []string
	StyleTags        []string
	MaterialTags     []string
	ColorTags        []string
	IsActive         bool
}

// HotspotDraft is one submitted hotspot.
type HotspotDraft struct {
	ProductID      uuid.UUID
	XPosition      float64
	YPosition      float64
	TargetImageURL string
}

// Validate checks the fields required before anything is written.
func (d Draft) Validate() error {
	if d.Title == "" {
		return shared.NewValidationError("title is required")
	}
	if d.CategoryID == nil || *d.CategoryID == uuid.Nil {
		return shared.NewValidationError("category_id is required")
	}
	return nil
}

// ResolveSlug returns the explicit slug when given, else one derived from
// the title.
func (d Draft) ResolveSlug() string {
	if d.Slug != "" {
		return d.Slug
	}
	return valueobject.Slugify(d.Title)
}

// Build validates the draft and its hotspots and produces the lookbook to
// persist. A draft without an id gets a new one; the last-modified time is
// set to now.
func Build(d Draft, items []HotspotDraft, now time.Time) (*Lookbook, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	slug := d.ResolveSlug()
	if slug == "" {
		return nil, shared.NewValidationError("title must contain at least one letter or digit")
	}

	look := &Lookbook{
		BaseEntity: shared.BaseEntity{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:            d.Title,
		Slug:             slug,
		CategoryID:       *d.CategoryID,
		ImageURL:         d.ImageURL,
		HomepageImageURL: d.HomepageImageURL,
		GalleryURLs:      nonNil(d.GalleryURLs),
		StyleTags:        nonNil(d.StyleTags),
		MaterialTags:     nonNil(d.MaterialTags),
		ColorTags:        nonNil(d.ColorTags),
		IsActive:         d.IsActive,
	}
	if d.ID != nil && *d.ID != uuid.Nil {
		look.ID = *d.ID
	}

	look.Items = make([]Hotspot, 0, len(items))
	for _, item := range items {
		h, err := NewHotspot(look.ID, item)
		if err != nil {
			return nil, err
		}
		look.Items = append(look.Items, h)
	}
	return look, nil
}

// NewHotspot creates a hotspot on the given lookbook.
func NewHotspot(lookID uuid.UUID, d HotspotDraft) (Hotspot, error) {
	if d.ProductID == uuid.Nil {
		return Hotspot{}, shared.NewValidationError("product_id is required for every hotspot")
	}
	if !validPosition(d.XPosition) || !validPosition(d.YPosition) {
		return Hotspot{}, shared.NewDomainError("INVALID_POSITION", "Hotspot position must be between 0 and 100")
	}
	return Hotspot{
		ID:             uuid.New(),
		LookID:         lookID,
		ProductID:      d.ProductID,
		XPosition:      d.XPosition,
		YPosition:      d.YPosition,
		TargetImageURL: d.TargetImageURL,
	}, nil
}

func validPosition(v float64) bool {
	return v >= 0 && v <= 100
}

// SetActive shows or hides the lookbook on the storefront.
func (l *Lookbook) SetActive(active bool) {
	l.IsActive = active
	l.Touch()
}

// ProductIDs returns the distinct tagged products in hotspot order.
func (l *Lookbook) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(l.Items))
	for _, h := range l.Items {
		if !slices.Contains(ids, h.ProductID) {
			ids = append(ids, h.ProductID)
		}
	}
	return ids
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
