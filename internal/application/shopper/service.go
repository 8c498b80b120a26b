// Package shopper serves per-visitor storefront state.
package shopper

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shopper"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

const maxVisitorIDLength = 128

// RecentlyViewedService records product views per visitor and resolves the
// list back into products.
type RecentlyViewedService struct {
	store    shopper.RecentlyViewedStore
	products catalog.ProductRepository
	metrics  *telemetry.BusinessMetrics
}

// NewRecentlyViewedService creates a recently-viewed service
func NewRecentlyViewedService(store shopper.RecentlyViewedStore, products catalog.ProductRepository) *RecentlyViewedService {
	return &RecentlyViewedService{store: store, products: products}
}

// SetBusinessMetrics sets the metrics recorder. Nil disables recording.
func (s *RecentlyViewedService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// RecordView moves productID to the front of the visitor's list.
// Unknown products are rejected so the list only holds real ids.
func (s *RecentlyViewedService) RecordView(ctx context.Context, visitorID string, productID uuid.UUID) error {
	visitorID, err := normalizeVisitorID(visitorID)
	if err != nil {
		return err
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return err
	}

	stored, err := s.store.Load(ctx, visitorID)
	if err != nil {
		return fmt.Errorf("load recently viewed: %w", err)
	}
	list := shopper.NewRecentlyViewed(stored)
	list.Add(productID)
	if err := s.store.Save(ctx, visitorID, list.IDs()); err != nil {
		return fmt.Errorf("save recently viewed: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordProductView(ctx)
	}
	return nil
}

// List returns up to RecentlyViewedDisplayLimit products, most recent first,
// leaving out exclude. Products deleted since they were viewed are skipped
// before the limit is applied, so older views fill their place.
func (s *RecentlyViewedService) List(ctx context.Context, visitorID string, exclude uuid.UUID) ([]appcatalog.ProductResponse, error) {
	visitorID, err := normalizeVisitorID(visitorID)
	if err != nil {
		return nil, err
	}
	stored, err := s.store.Load(ctx, visitorID)
	if err != nil {
		return nil, fmt.Errorf("load recently viewed: %w", err)
	}
	ids := shopper.NewRecentlyViewed(stored).Candidates(exclude)
	if len(ids) == 0 {
		return []appcatalog.ProductResponse{}, nil
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	ordered := catalog.OrderByIDs(products, ids)
	if len(ordered) > shopper.RecentlyViewedDisplayLimit {
		ordered = ordered[:shopper.RecentlyViewedDisplayLimit]
	}
	return appcatalog.ToProductResponses(ordered), nil
}

func normalizeVisitorID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", shared.NewDomainError("VISITOR_REQUIRED", "X-Visitor-ID header is required")
	}
	if len(id) > maxVisitorIDLength {
		return "", shared.NewValidationError("visitor id is too long")
	}
	return id, nil
}
