// Package shopper holds per-visitor storefront state.
package shopper

import (
	"context"
	"slices"

	"github.com/google/uuid"
)

const (
	// RecentlyViewedCapacity is how many product ids are remembered.
	RecentlyViewedCapacity = 10
	// RecentlyViewedDisplayLimit is how many are shown on a page.
	RecentlyViewedDisplayLimit = 4
)

// RecentlyViewed is a bounded most-recently-used set of product ids,
// most recent first.
type RecentlyViewed struct {
	ids []uuid.UUID
}

// NewRecentlyViewed restores a list from storage, dropping duplicates,
// nil ids and anything past capacity.
func NewRecentlyViewed(ids []uuid.UUID) *RecentlyViewed {
	r := &RecentlyViewed{ids: make([]uuid.UUID, 0, RecentlyViewedCapacity)}
	for _, id := range ids {
		if len(r.ids) == RecentlyViewedCapacity {
			break
		}
		if id == uuid.Nil || slices.Contains(r.ids, id) {
			continue
		}
		r.ids = append(r.ids, id)
	}
	return r
}

// Add records a view: the id moves to the front and the oldest entry is
// evicted once the list is full.
func (r *RecentlyViewed) Add(id uuid.UUID) {
	if id == uuid.Nil {
		return
	}
	if i := slices.Index(r.ids, id); i >= 0 {
		r.ids = slices.Delete(r.ids, i, i+1)
	}
	r.ids = slices.Insert(r.ids, 0, id)
	if len(r.ids) > RecentlyViewedCapacity {
		r.ids = r.ids[:RecentlyViewedCapacity]
	}
}

// IDs returns a copy of the full persisted list.
func (r *RecentlyViewed) IDs() []uuid.UUID {
	return slices.Clone(r.ids)
}

// Candidates returns every remembered id except exclude (typically the
// product currently on screen), most recent first. Callers resolve them and
// show at most RecentlyViewedDisplayLimit, so deleted products do not
// shrink the visible list.
func (r *RecentlyViewed) Candidates(exclude uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(r.ids))
	for _, id := range r.ids {
		if id != exclude {
			out = append(out, id)
		}
	}
	return out
}

// Len returns the number of remembered products.
func (r *RecentlyViewed) Len() int {
	return len(r.ids)
}

// RecentlyViewedStore persists a visitor's list.
type RecentlyViewedStore interface {
	Load(ctx context.Context, visitorID string) ([]uuid.UUID, error)
	Save(ctx context.Context, visitorID string, ids []uuid.UUID) error
}
