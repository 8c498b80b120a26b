// Package content implements the CMS-managed storefront content: trending
// keywords, USP entries, theme configuration, static pages and the
// aggregated homepage payload.
package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/content"
	"github.com/storefront/backend/internal/domain/shared"
)

// Service handles content operations
type Service struct {
	keywords content.KeywordRepository
	usps     content.USPRepository
	themes   content.ThemeConfigRepository
	pages    content.SitePageRepository
	cache    appcatalog.CacheInvalidator
}

// NewService creates a content service
func NewService(
	keywords content.KeywordRepository,
	usps content.USPRepository,
	themes content.ThemeConfigRepository,
	pages content.SitePageRepository,
) *Service {
	return &Service{
		keywords: keywords,
		usps:     usps,
		themes:   themes,
		pages:    pages,
	}
}

// SetCacheInvalidator registers the cache to clear after admin writes.
func (s *Service) SetCacheInvalidator(c appcatalog.CacheInvalidator) {
	s.cache = c
}

// ListKeywords lists trending keywords; with a category, global keywords
// plus those of the category
func (s *Service) ListKeywords(ctx context.Context, categoryID *uuid.UUID) ([]KeywordResponse, error) {
	keywords, err := s.keywords.FindAll(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return toKeywordResponses(keywords), nil
}

// CreateKeyword adds a trending keyword
func (s *Service) CreateKeyword(ctx context.Context, req CreateKeywordRequest) (*KeywordResponse, error) {
	k, err := content.NewTrendingKeyword(req.Keyword, req.CategoryID, req.SortOrder)
	if err != nil {
		return nil, err
	}
	if err := s.keywords.Create(ctx, k); err != nil {
		return nil, fmt.Errorf("create keyword: %w", err)
	}
	s.invalidate(ctx)
	return &toKeywordResponses([]content.TrendingKeyword{*k})[0], nil
}

// DeleteKeyword removes a trending keyword
func (s *Service) DeleteKeyword(ctx context.Context, id uuid.UUID) error {
	if err := s.keywords.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ListUSPs lists USP entries by display order
func (s *Service) ListUSPs(ctx context.Context) ([]USPResponse, error) {
	usps, err := s.usps.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toUSPResponses(usps), nil
}

// CreateUSP adds a USP entry
func (s *Service) CreateUSP(ctx context.Context, req CreateUSPRequest) (*USPResponse, error) {
	u, err := content.NewUSP(req.IconName, req.Title, req.Description, req.DisplayOrder)
	if err != nil {
		return nil, err
	}
	if err := s.usps.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("save usp: %w", err)
	}
	s.invalidate(ctx)
	resp := toUSPResponse(u)
	return &resp, nil
}

// UpdateUSP applies a partial update to a USP entry
func (s *Service) UpdateUSP(ctx context.Context, id uuid.UUID, req UpdateUSPRequest) (*USPResponse, error) {
	u, err := s.usps.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.Apply(content.USPPatch{
		IconName:     req.IconName,
		Title:        req.Title,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
	}); err != nil {
		return nil, err
	}
	if err := s.usps.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("save usp %s: %w", id, err)
	}
	s.invalidate(ctx)
	resp := toUSPResponse(u)
	return &resp, nil
}

// DeleteUSP removes a USP entry
func (s *Service) DeleteUSP(ctx context.Context, id uuid.UUID) error {
	if err := s.usps.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ListThemeConfig returns every theme entry
func (s *Service) ListThemeConfig(ctx context.Context) ([]ThemeConfigResponse, error) {
	configs, err := s.themes.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ThemeConfigResponse, len(configs))
	for i := range configs {
		out[i] = toThemeConfigResponse(&configs[i])
	}
	return out, nil
}

// GetThemeConfig returns one theme entry
func (s *Service) GetThemeConfig(ctx context.Context, key string) (*ThemeConfigResponse, error) {
	c, err := s.themes.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	resp := toThemeConfigResponse(c)
	return &resp, nil
}

// UpsertThemeConfig creates or replaces the value of a theme key
func (s *Service) UpsertThemeConfig(ctx context.Context, key string, req UpsertThemeConfigRequest) (*ThemeConfigResponse, error) {
	c, err := content.NewThemeConfig(key, req.Value)
	if err != nil {
		return nil, err
	}
	if err := s.themes.Upsert(ctx, c); err != nil {
		return nil, fmt.Errorf("upsert theme config %s: %w", key, err)
	}
	s.invalidate(ctx)
	resp := toThemeConfigResponse(c)
	return &resp, nil
}

// GetPublishedPage returns a published page; drafts are not found
func (s *Service) GetPublishedPage(ctx context.Context, slug string) (*PageResponse, error) {
	p, err := s.pages.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !p.IsPublished {
		return nil, shared.ErrNotFound
	}
	resp := toPageResponse(p)
	return &resp, nil
}

// ListPages lists every page for the admin
func (s *Service) ListPages(ctx context.Context) ([]PageResponse, error) {
	pages, err := s.pages.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PageResponse, len(pages))
	for i := range pages {
		out[i] = toPageResponse(&pages[i])
	}
	return out, nil
}

// SavePage creates a page, or replaces it when id is given
func (s *Service) SavePage(ctx context.Context, id *uuid.UUID, req SavePageRequest) (*PageResponse, error) {
	var page *content.SitePage
	if id != nil {
		existing, err := s.pages.FindByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		if err := existing.Update(req.Slug, req.Title, req.Content, req.IsPublished); err != nil {
			return nil, err
		}
		page = existing
	} else {
		created, err := content.NewSitePage(req.Slug, req.Title, req.Content, req.IsPublished)
		if err != nil {
			return nil, err
		}
		page = created
	}

	if err := s.checkPageSlugFree(ctx, page); err != nil {
		return nil, err
	}
	if err := s.pages.Save(ctx, page); err != nil {
		return nil, fmt.Errorf("save page %s: %w", page.Slug, err)
	}
	resp := toPageResponse(page)
	return &resp, nil
}

// DeletePage removes a page
func (s *Service) DeletePage(ctx context.Context, id uuid.UUID) error {
	return s.pages.Delete(ctx, id)
}

func (s *Service) checkPageSlugFree(ctx context.Context, page *content.SitePage) error {
	other, err := s.pages.FindBySlug(ctx, page.Slug)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if other.ID != page.ID {
		return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Page slug %q is already in use", page.Slug))
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateHomepage(ctx)
	}
}
