package services

import (
	"context"

	"github.com/rscoates/magic-library/internal/domain/models"
	"github.com/rscoates/magic-library/internal/httputil"
)

// InventoryService handles collection entry business logic
type InventoryService interface {
	// Add upserts a quantity into a container, merging into an existing
	// entry with the same merge key
	Add(ctx context.Context, req *AddEntryRequest) (*models.EntryDetail, error)

	// SetFields edits entry fields directly; a (finish, language) edit that
	// collides with another entry in the same container merges the two
	SetFields(ctx context.Context, entryID int64, req *UpdateEntryRequest) (*models.EntryDetail, error)

	// Delete removes an entry outright
	Delete(ctx context.Context, entryID int64) error

	// List retrieves entries with display data, optionally per container
	List(ctx context.Context, containerID *int64, includeSold bool) ([]models.EntryDetail, error)

	// SearchByCardName groups owned entries by card with per-location rows
	SearchByCardName(ctx context.Context, query string, includeSold bool) ([]models.CardSummary, error)

	// Move atomically transfers quantity from one entry to a target container
	Move(ctx context.Context, req *MoveRequest) (*models.MoveResult, error)
}

// AddEntryRequest represents an add-to-collection request
type AddEntryRequest struct {
	SetCode     string  `json:"set_code"`
	CardNumber  string  `json:"card_number"`
	ContainerID int64   `json:"container_id"`
	Quantity    int     `json:"quantity"`
	FinishID    *int64  `json:"finish_id,omitempty"` // null = standard finish
	LanguageID  int64   `json:"language_id"`
	Comments    *string `json:"comments,omitempty"`
	Position    *int    `json:"position,omitempty"`
}

// UpdateEntryRequest represents a direct field edit on an entry.
// FinishID and Position are tri-state: null clears them.
type UpdateEntryRequest struct {
	Quantity   *int                   `json:"quantity,omitempty"`
	FinishID   httputil.OptionalInt64 `json:"finish_id,omitempty"`
	LanguageID *int64                 `json:"language_id,omitempty"`
	Comments   *string                `json:"comments,omitempty"`
	Position   httputil.OptionalInt   `json:"position,omitempty"`
}

// MoveRequest represents a quantity transfer between containers
type MoveRequest struct {
	EntryID           int64 `json:"entry_id"`
	Quantity          int   `json:"quantity"`
	TargetContainerID int64 `json:"target_container_id"`
}
