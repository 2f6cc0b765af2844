// Package store defines the persistence interface for cards.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
package store

import (
	"context"
	"time"

	"github.com/FawkesguyD/Love/internal/model"
)

// Position is a decoded cursor: the (date, id) composite key of the last
// record returned by a previous page.
type Position struct {
	Date time.Time
	ID   string
}

// ListQuery describes one ordered range scan over cards.
//
// Ordering is always by the composite key (date, id) in the requested
// direction; id is the tie-breaker that makes the order total, so equal-date
// records keep a stable relative order across calls.
//
// After, when set, is an exclusive bound: the scan starts strictly after that
// position in scan direction. Limit callers are expected to ask for one row
// more than the page size to detect whether more records exist.
type ListQuery struct {
	Limit      int
	Order      model.Order
	After      *Position
	From       *time.Time
	To         *time.Time
	Visibility *model.Visibility
}

// Store exposes persistence operations required by services.
type Store interface {
	Cards() Cards

	// HealthPing verifies the backing database is reachable.
	HealthPing(ctx context.Context) error

	Close() error
}

// Cards is the card collection.
//
// Create assigns ID, CreatedAt and UpdatedAt. Update applies a partial patch
// and bumps UpdatedAt. Get, Update and Delete return model.ErrNotFound for a
// missing id.
type Cards interface {
	Create(ctx context.Context, c *model.Card) (*model.Card, error)
	Get(ctx context.Context, id string) (*model.Card, error)
	Update(ctx context.Context, id string, patch model.CardPatch) (*model.Card, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q ListQuery) ([]*model.Card, error)

	// Sample returns one uniformly random card, or model.ErrNotFound when
	// the collection is empty.
	Sample(ctx context.Context) (*model.Card, error)
}
