package repositories

import (
	"context"

	"github.com/rscoates/magic-library/internal/domain/models"
)

// CardCatalog is the read-only card catalog the collection core consumes.
type CardCatalog interface {
	// ResolveCard looks a card up by its (set_code, number) key
	ResolveCard(ctx context.Context, setCode, number string) (*models.Card, error)

	// FindCardsByName returns all printings whose name matches exactly,
	// case-insensitively
	FindCardsByName(ctx context.Context, name string) ([]models.Card, error)

	// SearchCards searches by name, set code, or number substring
	SearchCards(ctx context.Context, query string, limit int) ([]models.Card, error)

	// GetSet retrieves set data by code; (nil, nil) when unknown
	GetSet(ctx context.Context, code string) (*models.Set, error)

	// ListSetCodes lists all distinct set codes
	ListSetCodes(ctx context.Context) ([]string, error)

	// ListNumbersInSet lists all card numbers in a set
	ListNumbersInSet(ctx context.Context, setCode string) ([]string, error)
}

// MetadataRepository serves the flat language and finish reference tables.
type MetadataRepository interface {
	GetLanguage(ctx context.Context, id int64) (*models.Language, error)
	GetFinish(ctx context.Context, id int64) (*models.Finish, error)
	ListLanguages(ctx context.Context) ([]models.Language, error)
	ListFinishes(ctx context.Context) ([]models.Finish, error)
}
