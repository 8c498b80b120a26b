// Package lookbook implements the "shop the look" use cases, including the
// transactional save used by the CMS editor.
package lookbook

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/lookbook"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// Service handles lookbook operations
type Service struct {
	repo     lookbook.Repository
	products catalog.ProductRepository
	now      func() time.Time
	metrics  *telemetry.BusinessMetrics
	cache    appcatalog.CacheInvalidator
}

// NewService creates a lookbook service
func NewService(repo lookbook.Repository, products catalog.ProductRepository) *Service {
	return &Service{
		repo:     repo,
		products: products,
		now:      time.Now,
	}
}

// SetBusinessMetrics attaches save counters.
func (s *Service) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// SetCacheInvalidator registers the cache to clear after admin writes.
func (s *Service) SetCacheInvalidator(c appcatalog.CacheInvalidator) {
	s.cache = c
}

// Save upserts a lookbook and replaces its hotspots with the submitted set.
// Validation failures are returned before anything is written; the parent
// upsert and the hotspot replacement commit together or not at all.
func (s *Service) Save(ctx context.Context, req SaveLookbookRequest) (*SaveLookbookResult, error) {
	look, err := lookbook.Build(req.LookPayload.ToDraft(), toHotspotDrafts(req.LookItems), s.now())
	if err != nil {
		s.metrics.RecordLookbookSave(ctx, telemetry.OutcomeInvalid, 0)
		return nil, err
	}

	taken, err := s.repo.ExistsBySlug(ctx, look.Slug, look.ID)
	if err != nil {
		s.metrics.RecordLookbookSave(ctx, telemetry.OutcomeError, 0)
		return nil, err
	}
	if taken {
		s.metrics.RecordLookbookSave(ctx, telemetry.OutcomeInvalid, 0)
		return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Lookbook slug %q is already in use", look.Slug))
	}

	if err := s.repo.SaveWithItems(ctx, look); err != nil {
		s.metrics.RecordLookbookSave(ctx, telemetry.OutcomeError, 0)
		return nil, fmt.Errorf("save lookbook %s: %w", look.ID, err)
	}

	s.metrics.RecordLookbookSave(ctx, telemetry.OutcomeSuccess, len(look.Items))
	s.invalidate(ctx)
	return &SaveLookbookResult{Success: true, LookID: look.ID}, nil
}

// ListActive lists the lookbooks shown on the storefront
func (s *Service) ListActive(ctx context.Context) ([]LookbookResponse, error) {
	looks, err := s.repo.FindAll(ctx, true)
	if err != nil {
		return nil, err
	}
	return ToLookbookResponses(looks), nil
}

// ListAll lists every lookbook for the admin
func (s *Service) ListAll(ctx context.Context) ([]LookbookResponse, error) {
	looks, err := s.repo.FindAll(ctx, false)
	if err != nil {
		return nil, err
	}
	return ToLookbookResponses(looks), nil
}

// GetBySlug returns an active lookbook with hotspots and tagged products.
// Hidden lookbooks are reported as not found.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*LookbookDetailResponse, error) {
	look, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !look.IsActive {
		return nil, shared.ErrNotFound
	}
	return s.detail(ctx, look)
}

// GetByID returns any lookbook with hotspots and tagged products
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*LookbookDetailResponse, error) {
	look, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, look)
}

func (s *Service) detail(ctx context.Context, look *lookbook.Lookbook) (*LookbookDetailResponse, error) {
	ids := look.ProductIDs()
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products of lookbook %s: %w", look.ID, err)
	}
	return &LookbookDetailResponse{
		LookbookResponse: ToLookbookResponse(look),
		Items:            toHotspotResponses(look.Items),
		Products:         appcatalog.ToProductResponses(catalog.OrderByIDs(products, ids)),
	}, nil
}

// SetActive shows or hides a lookbook on the storefront
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes a lookbook together with its hotspots
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateHomepage(ctx)
	}
}
