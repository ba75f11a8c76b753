package models

import "time"

// Card is a printing in the static card catalog, keyed by (set_code, number).
// The catalog is read-only from the collection's perspective.
type Card struct {
	ID      int64  `json:"id" db:"id"`
	SetCode string `json:"set_code" db:"set_code"`
	Number  string `json:"number" db:"number"`
	Name    string `json:"name" db:"name"`
	Rarity  string `json:"rarity" db:"rarity"`
}

// Set holds ancillary catalog data for a card set. The release date is used
// to pick the oldest printing when several share a binder position.
type Set struct {
	Code        string     `json:"code" db:"code"`
	Name        string     `json:"name" db:"name"`
	ReleaseDate *time.Time `json:"release_date,omitempty" db:"release_date"`
}
