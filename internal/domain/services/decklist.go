package services

import (
	"context"

	"github.com/rscoates/magic-library/internal/domain/models"
)

// DecklistService reconciles a pasted decklist against owned inventory
type DecklistService interface {
	// Check parses the decklist text and reports owned and missing
	// quantities per card, with move-eligible locations
	Check(ctx context.Context, decklist string, includeSold bool) (*models.DecklistReport, error)
}
