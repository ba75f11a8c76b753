package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rscoates/magic-library/internal/domain"
	"github.com/rscoates/magic-library/internal/domain/models"
	"github.com/rscoates/magic-library/internal/domain/repositories"
	"github.com/rscoates/magic-library/internal/domain/services"
)

const defaultSearchLimit = 50

type catalogService struct {
	cardCatalog  repositories.CardCatalog
	metadataRepo repositories.MetadataRepository
	logger       *slog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	cardCatalog repositories.CardCatalog,
	metadataRepo repositories.MetadataRepository,
	logger *slog.Logger,
) services.CatalogService {
	return &catalogService{
		cardCatalog:  cardCatalog,
		metadataRepo: metadataRepo,
		logger:       logger,
	}
}

func (s *catalogService) SearchCards(ctx context.Context, query string, limit int) ([]models.Card, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query cannot be empty", domain.ErrValidation)
	}
	if limit < 1 || limit > 200 {
		limit = defaultSearchLimit
	}
	return s.cardCatalog.SearchCards(ctx, query, limit)
}

func (s *catalogService) GetCard(ctx context.Context, setCode, number string) (*models.Card, error) {
	return s.cardCatalog.ResolveCard(ctx, setCode, number)
}

func (s *catalogService) ListSetCodes(ctx context.Context) ([]string, error) {
	return s.cardCatalog.ListSetCodes(ctx)
}

func (s *catalogService) ListNumbersInSet(ctx context.Context, setCode string) ([]string, error) {
	return s.cardCatalog.ListNumbersInSet(ctx, setCode)
}

func (s *catalogService) ListLanguages(ctx context.Context) ([]models.Language, error) {
	return s.metadataRepo.ListLanguages(ctx)
}

func (s *catalogService) ListFinishes(ctx context.Context) ([]models.Finish, error) {
	return s.metadataRepo.ListFinishes(ctx)
}
