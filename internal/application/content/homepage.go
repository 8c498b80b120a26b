package content

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	appcatalog "github.com/storefront/backend/internal/application/catalog"
	applookbook "github.com/storefront/backend/internal/application/lookbook"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/content"
	"github.com/storefront/backend/internal/domain/lookbook"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	// HomepageCacheKey is the cache entry holding the homepage payload.
	HomepageCacheKey = "homepage"

	HomepageFeaturedLimit = 8
	HomepageLookbookLimit = 6
)

// Cache stores JSON-encodable values with a TTL
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// HomepageService assembles the homepage payload and keeps it cached
type HomepageService struct {
	products catalog.ProductRepository
	looks    lookbook.Repository
	usps     content.USPRepository
	keywords content.KeywordRepository
	themes   content.ThemeConfigRepository
	cache    Cache
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger

	// generation counts invalidations. A payload built across an
	// invalidation is served but never left in the cache.
	generation atomic.Uint64
}

// NewHomepageService creates a homepage service. A nil cache disables
// caching.
func NewHomepageService(
	products catalog.ProductRepository,
	looks lookbook.Repository,
	usps content.USPRepository,
	keywords content.KeywordRepository,
	themes content.ThemeConfigRepository,
	cache Cache,
	ttl time.Duration,
	logger *zap.Logger,
) *HomepageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HomepageService{
		products: products,
		looks:    looks,
		usps:     usps,
		keywords: keywords,
		themes:   themes,
		cache:    cache,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// Get returns the cached payload, building and caching it on a miss.
// Cache failures are logged and the payload is built from the database.
func (s *HomepageService) Get(ctx context.Context) (*HomepageResponse, error) {
	if s.cache != nil {
		var cached HomepageResponse
		hit, err := s.cache.Get(ctx, HomepageCacheKey, &cached)
		if err != nil {
			s.logger.Warn("Homepage cache read failed", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	gen := s.generation.Load()
	resp, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.store(ctx, resp, gen)
	}
	return resp, nil
}

// store caches resp unless an invalidation happened since gen was read. An
// invalidation that lands while the write is in flight removes the entry
// again.
func (s *HomepageService) store(ctx context.Context, resp *HomepageResponse, gen uint64) {
	if s.generation.Load() != gen {
		return
	}
	if err := s.cache.Set(ctx, HomepageCacheKey, resp, s.ttl); err != nil {
		s.logger.Warn("Homepage cache write failed", zap.Error(err))
		return
	}
	if s.generation.Load() != gen {
		s.InvalidateHomepage(ctx)
	}
}

// InvalidateHomepage drops the cached payload
func (s *HomepageService) InvalidateHomepage(ctx context.Context) {
	s.generation.Add(1)
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, HomepageCacheKey); err != nil {
		s.logger.Warn("Homepage cache invalidation failed", zap.Error(err))
	}
}

func (s *HomepageService) build(ctx context.Context) (*HomepageResponse, error) {
	featured, err := s.products.FindFeatured(ctx, HomepageFeaturedLimit)
	if err != nil {
		return nil, fmt.Errorf("load featured products: %w", err)
	}
	looks, err := s.looks.FindAll(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("load lookbooks: %w", err)
	}
	if len(looks) > HomepageLookbookLimit {
		looks = looks[:HomepageLookbookLimit]
	}
	usps, err := s.usps.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load usps: %w", err)
	}
	keywords, err := s.keywords.FindAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load trending keywords: %w", err)
	}

	resp := &HomepageResponse{
		FeaturedProducts: appcatalog.ToProductResponses(featured),
		Lookbooks:        applookbook.ToLookbookResponses(looks),
		USPs:             toUSPResponses(usps),
		TrendingKeywords: toKeywordResponses(keywords),
		GeneratedAt:      s.now(),
	}

	hero, err := s.themes.FindByKey(ctx, content.ThemeKeyHomepageHero)
	switch {
	case err == nil:
		resp.Hero = hero.Value
	case !errors.Is(err, shared.ErrNotFound):
		return nil, fmt.Errorf("load homepage hero: %w", err)
	}
	return resp, nil
}
