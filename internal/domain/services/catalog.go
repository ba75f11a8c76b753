package services

import (
	"context"

	"github.com/rscoates/magic-library/internal/domain/models"
)

// CatalogService exposes the read-only card catalog and reference tables
type CatalogService interface {
	SearchCards(ctx context.Context, query string, limit int) ([]models.Card, error)
	GetCard(ctx context.Context, setCode, number string) (*models.Card, error)
	ListSetCodes(ctx context.Context) ([]string, error)
	ListNumbersInSet(ctx context.Context, setCode string) ([]string, error)
	ListLanguages(ctx context.Context) ([]models.Language, error)
	ListFinishes(ctx context.Context) ([]models.Finish, error)
}
