package models

// MergeKey is the uniqueness tuple for collection entries. At most one entry
// may exist per key; quantity increases merge into the existing row.
type MergeKey struct {
	SetCode     string
	CardNumber  string
	ContainerID int64
	FinishID    *int64 // NULL = standard finish
	LanguageID  int64
}

// CollectionEntry is a quantity of one card variant held in one container.
// An entry never persists at quantity zero; it is deleted instead.
type CollectionEntry struct {
	ID          int64   `json:"id" db:"id"`
	SetCode     string  `json:"set_code" db:"set_code"`
	CardNumber  string  `json:"card_number" db:"card_number"`
	ContainerID int64   `json:"container_id" db:"container_id"`
	Quantity    int     `json:"quantity" db:"quantity"`
	FinishID    *int64  `json:"finish_id" db:"finish_id"` // NULL = standard finish
	LanguageID  int64   `json:"language_id" db:"language_id"`
	Comments    *string `json:"comments,omitempty" db:"comments"`
	Position    *int    `json:"position,omitempty" db:"position"` // binder slot, file containers only
}

// Key returns the entry's merge key.
func (e *CollectionEntry) Key() MergeKey {
	return MergeKey{
		SetCode:     e.SetCode,
		CardNumber:  e.CardNumber,
		ContainerID: e.ContainerID,
		FinishID:    e.FinishID,
		LanguageID:  e.LanguageID,
	}
}

// SameVariant reports whether two merge keys identify the same card variant
// (finish ids compare by value, treating NULL as the standard finish).
func (k MergeKey) SameVariant(other MergeKey) bool {
	if k.SetCode != other.SetCode || k.CardNumber != other.CardNumber {
		return false
	}
	if k.ContainerID != other.ContainerID || k.LanguageID != other.LanguageID {
		return false
	}
	switch {
	case k.FinishID == nil && other.FinishID == nil:
		return true
	case k.FinishID != nil && other.FinishID != nil:
		return *k.FinishID == *other.FinishID
	default:
		return false
	}
}

// EntryDetail is a collection entry joined with its catalog and reference
// data for display.
type EntryDetail struct {
	CollectionEntry
	CardName      string  `json:"card_name"`
	ContainerName string  `json:"container_name"`
	FinishName    *string `json:"finish_name,omitempty"`
	LanguageName  string  `json:"language_name"`
}

// CardLocation is one entry's placement in the per-location breakdown of a
// card search or decklist check.
type CardLocation struct {
	EntryID       int64   `json:"entry_id"`
	ContainerID   int64   `json:"container_id"`
	ContainerName string  `json:"container_name"`
	ContainerPath string  `json:"container_path"`
	SetCode       string  `json:"set_code"`
	CardNumber    string  `json:"card_number"`
	Quantity      int     `json:"quantity"`
	FinishName    *string `json:"finish_name,omitempty"`
	LanguageName  string  `json:"language_name"`
	LanguageID    int64   `json:"-"`
	Comments      *string `json:"comments,omitempty"`
}

// CardSummary groups all entries of one card across containers.
type CardSummary struct {
	SetCode       string         `json:"set_code"`
	CardNumber    string         `json:"card_number"`
	CardName      string         `json:"card_name"`
	Rarity        string         `json:"rarity"`
	TotalQuantity int            `json:"total_quantity"`
	Locations     []CardLocation `json:"locations"`
}

// MoveResult is the post-state of an inventory move.
type MoveResult struct {
	Success                 bool   `json:"success"`
	Message                 string `json:"message"`
	SourceEntryID           int64  `json:"source_entry_id"`
	SourceRemainingQuantity int    `json:"source_remaining_quantity"`
	TargetEntryID           int64  `json:"target_entry_id"`
	TargetQuantity          int    `json:"target_quantity"`
	TargetContainerName     string `json:"target_container_name"`
	TargetContainerPath     string `json:"target_container_path"`
}
