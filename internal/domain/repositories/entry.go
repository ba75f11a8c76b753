package repositories

import (
	"context"

	"github.com/rscoates/magic-library/internal/domain/models"
)

// EntryRepository defines data access operations for collection entries.
//
// The ForUpdate variants take row-level locks and must be called inside a
// transaction; they make read-modify-write sequences on quantities race-free.
type EntryRepository interface {
	// Create inserts a new entry and fills in its generated ID
	Create(ctx context.Context, entry *models.CollectionEntry) error

	// GetByID retrieves an entry by ID
	GetByID(ctx context.Context, id int64) (*models.CollectionEntry, error)

	// GetByIDForUpdate retrieves an entry by ID with a row lock
	GetByIDForUpdate(ctx context.Context, id int64) (*models.CollectionEntry, error)

	// GetByKeyForUpdate retrieves the entry matching a merge key with a row
	// lock. Returns (nil, nil) when no entry matches.
	GetByKeyForUpdate(ctx context.Context, key models.MergeKey) (*models.CollectionEntry, error)

	// Update persists all mutable fields of an entry
	Update(ctx context.Context, entry *models.CollectionEntry) error

	// Delete removes an entry
	Delete(ctx context.Context, id int64) error

	// List retrieves entries, optionally filtered by container. Entries in
	// sold containers are excluded unless includeSold is set.
	List(ctx context.Context, containerID *int64, includeSold bool) ([]models.CollectionEntry, error)

	// ListByCardKey retrieves all entries of one card across containers
	ListByCardKey(ctx context.Context, setCode, cardNumber string, includeSold bool) ([]models.CollectionEntry, error)

	// MaxPosition returns the greatest explicit position in a container,
	// zero when no entry has a position.
	MaxPosition(ctx context.Context, containerID int64) (int, error)

	// ListPositioned retrieves entries whose position lies in [from, to],
	// ordered by position, then English language first, then oldest set
	// release date, then id.
	ListPositioned(ctx context.Context, containerID int64, from, to int) ([]models.CollectionEntry, error)

	// ListAtPosition retrieves all entries at one position, in the same
	// representative order as ListPositioned.
	ListAtPosition(ctx context.Context, containerID int64, position int) ([]models.CollectionEntry, error)

	// SetPosition updates one entry's position if the entry belongs to the
	// container. Returns false when no row matched.
	SetPosition(ctx context.Context, entryID, containerID int64, position *int) (bool, error)
}
