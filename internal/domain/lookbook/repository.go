package lookbook

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for lookbook persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Lookbook, error)
	// FindBySlug loads the lookbook together with its hotspots.
	FindBySlug(ctx context.Context, slug string) (*Lookbook, error)
	FindAll(ctx context.Context, activeOnly bool) ([]Lookbook, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)

	// SaveWithItems upserts the lookbook by primary key, then replaces its
	// hotspots with look.Items. All writes commit or roll back together.
	SaveWithItems(ctx context.Context, look *Lookbook) error

	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	// Delete removes the lookbook and its hotspots.
	Delete(ctx context.Context, id uuid.UUID) error
}
