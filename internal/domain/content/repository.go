package content

import (
	"context"

	"github.com/google/uuid"
)

// KeywordRepository persists trending keywords
type KeywordRepository interface {
	// FindAll lists keywords ordered by sort order; a non-nil category
	// includes global keywords plus those of that category.
	FindAll(ctx context.Context, categoryID *uuid.UUID) ([]TrendingKeyword, error)
	Create(ctx context.Context, k *TrendingKeyword) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// USPRepository persists USP entries
type USPRepository interface {
	FindAll(ctx context.Context) ([]USP, error)
	FindByID(ctx context.Context, id uuid.UUID) (*USP, error)
	Save(ctx context.Context, u *USP) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ThemeConfigRepository persists theme config entries
type ThemeConfigRepository interface {
	FindAll(ctx context.Context) ([]ThemeConfig, error)
	FindByKey(ctx context.Context, key string) (*ThemeConfig, error)
	Upsert(ctx context.Context, c *ThemeConfig) error
}

// SitePageRepository persists site pages
type SitePageRepository interface {
	FindAll(ctx context.Context) ([]SitePage, error)
	FindByID(ctx context.Context, id uuid.UUID) (*SitePage, error)
	FindBySlug(ctx context.Context, slug string) (*SitePage, error)
	Save(ctx context.Context, p *SitePage) error
	Delete(ctx context.Context, id uuid.UUID) error
}
