package services

import (
	"context"

	"github.com/rscoates/magic-library/internal/domain/models"
)

// BinderService computes paginated slot layouts for binder-capable containers
type BinderService interface {
	// GetPage renders one page of slots; side-effect free
	GetPage(ctx context.Context, containerID int64, page int) (*models.BinderPage, error)

	// UpdatePositions bulk-repositions entries; each update is validated and
	// applied independently. Returns the number of entries updated.
	UpdatePositions(ctx context.Context, containerID int64, updates []PositionUpdate) (int, error)

	// GetPosition lists every entry stacked at one position
	GetPosition(ctx context.Context, containerID int64, position int) (*models.PositionEntries, error)
}

// PositionUpdate assigns one entry a binder position; null removes it from
// the paginated view without deleting the entry.
type PositionUpdate struct {
	EntryID  int64 `json:"entry_id"`
	Position *int  `json:"position"`
}
