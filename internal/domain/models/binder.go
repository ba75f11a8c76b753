package models

// Binder geometry. Positions are 1-based and need not be contiguous; pages
// are capacity-aligned windows over the position sequence.

// BinderRows returns the number of rows per page for a column count:
// 2 columns use a 2x2 layout, everything else gets 3 rows.
func BinderRows(columns int) int {
	if columns == 2 {
		return 2
	}
	return 3
}

// BinderCapacity returns the number of slots on one page.
func BinderCapacity(columns int) int {
	return columns * BinderRows(columns)
}

// SlotsRemainingInRow returns how many slots remain in the row containing
// position, counting the position itself. Rows are columns-aligned.
func SlotsRemainingInRow(position, columns int) int {
	return columns - ((position - 1) % columns)
}

// FillRowRun computes how many consecutive slots a stack of quantity copies
// fills starting at position, and the overflow that did not fit. A run never
// crosses a row boundary; the excess is reported, not displayed.
func FillRowRun(position, quantity, columns int) (filled, overflow int) {
	remaining := SlotsRemainingInRow(position, columns)
	if quantity <= remaining {
		return quantity, 0
	}
	return remaining, quantity - remaining
}

// BinderSlot is a single slot in a binder page view.
type BinderSlot struct {
	Position      int     `json:"position"`
	EntryID       *int64  `json:"entry_id,omitempty"`
	SetCode       *string `json:"set_code,omitempty"`
	CardNumber    *string `json:"card_number,omitempty"`
	CardName      *string `json:"card_name,omitempty"`
	Quantity      int     `json:"quantity"`
	FinishName    *string `json:"finish_name,omitempty"`
	LanguageName  *string `json:"language_name,omitempty"`
	IsEmpty       bool    `json:"is_empty"`
	OverflowCount *int    `json:"overflow_count,omitempty"` // fill-row: copies that did not fit the row
}

// BinderPage is one page of a binder container.
type BinderPage struct {
	ContainerID   int64        `json:"container_id"`
	ContainerName string       `json:"container_name"`
	Page          int          `json:"page"`
	TotalPages    int          `json:"total_pages"`
	MaxPosition   int          `json:"max_position"`
	BinderColumns int          `json:"binder_columns"`
	BinderFillRow bool         `json:"binder_fill_row"`
	Slots         []BinderSlot `json:"slots"`
}

// PositionEntry is one entry at a binder position, for the detail view.
type PositionEntry struct {
	EntryID      int64   `json:"entry_id"`
	SetCode      string  `json:"set_code"`
	CardNumber   string  `json:"card_number"`
	CardName     string  `json:"card_name"`
	Quantity     int     `json:"quantity"`
	FinishName   *string `json:"finish_name,omitempty"`
	LanguageName string  `json:"language_name"`
	ReleaseDate  *string `json:"release_date,omitempty"`
}

// PositionEntries lists everything stacked at one binder position.
type PositionEntries struct {
	Position      int             `json:"position"`
	CardName      string          `json:"card_name"`
	Entries       []PositionEntry `json:"entries"`
	TotalQuantity int             `json:"total_quantity"`
}
