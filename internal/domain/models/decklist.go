package models

// DecklistCard is the reconciliation result for one unique card name within
// one partition (main deck or sideboard).
type DecklistCard struct {
	CardName          string         `json:"card_name"`
	RequestedQuantity int            `json:"requested_quantity"`
	OwnedQuantity     int            `json:"owned_quantity"`
	MissingQuantity   int            `json:"missing_quantity"`
	IsSideboard       bool           `json:"is_sideboard"`
	Locations         []CardLocation `json:"locations"`
}

// DecklistReport is the full result of checking a pasted decklist against
// owned inventory.
type DecklistReport struct {
	Cards               []DecklistCard `json:"cards"`
	TotalCardsRequested int            `json:"total_cards_requested"`
	TotalCardsOwned     int            `json:"total_cards_owned"`
	TotalCardsMissing   int            `json:"total_cards_missing"`
}
