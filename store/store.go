package store

import (
	"context"
	"errors"

	models "github.com/phillip/charity-ledger-go/models"
)

// ErrNotFound is returned when no campaign is stored under the given id.
var ErrNotFound = errors.New("store: campaign not found")

// ErrUnavailable wraps backend I/O failures. Callers may retry.
var ErrUnavailable = errors.New("store: unavailable")

// CampaignStore persists campaign aggregates. A campaign record carries
// its ordered donation list, so Replace is the atomic commit unit: a
// write either lands the whole aggregate or nothing.
type CampaignStore interface {
	// NextID allocates the next sequential campaign id. Ids are never
	// reused, even after deletion.
	NextID(ctx context.Context) (int64, error)

	// Insert stores a new campaign under its id.
	Insert(ctx context.Context, c models.Campaign) error

	// Get returns the campaign stored under id, including tombstones
	// (Exists == false). Returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id int64) (models.Campaign, error)

	// Replace atomically overwrites the stored aggregate.
	Replace(ctx context.Context, c models.Campaign) error

	// List returns all campaigns, tombstones included, in id order.
	List(ctx context.Context) ([]models.Campaign, error)
}
