package models

// Language is a flat reference table row (card print language).
type Language struct {
	ID   int64  `json:"id" db:"id"`
	Code string `json:"code" db:"code"`
	Name string `json:"name" db:"name"`
}

// Finish is a flat reference table row (foil, etched, ...). A NULL finish on
// an entry means the standard non-foil finish.
type Finish struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
