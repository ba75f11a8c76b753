package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rscoates/magic-library/internal/domain"
	"github.com/rscoates/magic-library/internal/domain/models"
	"github.com/rscoates/magic-library/internal/domain/repositories"
)

// PostgresCardCatalog implements the CardCatalog interface against the
// read-only cards and sets tables.
type PostgresCardCatalog struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCardCatalog creates a new card catalog
func NewCardCatalog(config *RepositoryConfig) repositories.CardCatalog {
	return &PostgresCardCatalog{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const cardColumns = `id, set_code, number, name, rarity`

// ResolveCard looks a card up by its (set_code, number) key
func (r *PostgresCardCatalog) ResolveCard(ctx context.Context, setCode, number string) (*models.Card, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE UPPER(set_code) = UPPER($1) AND number = $2
	`, cardColumns, r.tables.Cards)

	exec := GetExecutor(ctx, r.pool)
	var card models.Card
	err := exec.QueryRow(ctx, query, setCode, number).Scan(
		&card.ID, &card.SetCode, &card.Number, &card.Name, &card.Rarity,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("card %s %s: %w", setCode, number, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("resolve card: %w", err)
	}

	return &card, nil
}

// FindCardsByName returns all printings matching the name exactly,
// case-insensitively
func (r *PostgresCardCatalog) FindCardsByName(ctx context.Context, name string) ([]models.Card, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE LOWER(name) = LOWER($1) ORDER BY set_code, number
	`, cardColumns, r.tables.Cards)

	return r.queryCards(ctx, query, name)
}

// SearchCards searches by name, set code, or number substring
func (r *PostgresCardCatalog) SearchCards(ctx context.Context, query string, limit int) ([]models.Card, error) {
	sql := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE name ILIKE '%%' || $1 || '%%'
		   OR set_code ILIKE '%%' || $1 || '%%'
		   OR number ILIKE $1 || '%%'
		ORDER BY name, set_code, number
		LIMIT $2
	`, cardColumns, r.tables.Cards)

	return r.queryCards(ctx, sql, query, limit)
}

// GetSet retrieves set data by code; (nil, nil) when unknown
func (r *PostgresCardCatalog) GetSet(ctx context.Context, code string) (*models.Set, error) {
	query := fmt.Sprintf(`
		SELECT code, name, release_date FROM %s WHERE UPPER(code) = UPPER($1)
	`, r.tables.Sets)

	exec := GetExecutor(ctx, r.pool)
	var set models.Set
	err := exec.QueryRow(ctx, query, code).Scan(&set.Code, &set.Name, &set.ReleaseDate)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get set: %w", err)
	}

	return &set, nil
}

// ListSetCodes lists all distinct set codes
func (r *PostgresCardCatalog) ListSetCodes(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT set_code FROM %s ORDER BY set_code`, r.tables.Cards)
	return r.queryStrings(ctx, query)
}

// ListNumbersInSet lists all card numbers in a set
func (r *PostgresCardCatalog) ListNumbersInSet(ctx context.Context, setCode string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT number FROM %s WHERE UPPER(set_code) = UPPER($1) ORDER BY number
	`, r.tables.Cards)

	numbers, err := r.queryStrings(ctx, query, setCode)
	if err != nil {
		return nil, err
	}
	if len(numbers) == 0 {
		return nil, fmt.Errorf("set %s: %w", setCode, domain.ErrNotFound)
	}

	return numbers, nil
}

func (r *PostgresCardCatalog) queryCards(ctx context.Context, query string, args ...interface{}) ([]models.Card, error) {
	exec := GetExecutor(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var card models.Card
		if err := rows.Scan(&card.ID, &card.SetCode, &card.Number, &card.Name, &card.Rarity); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}

	return cards, nil
}

func (r *PostgresCardCatalog) queryStrings(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	exec := GetExecutor(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		values = append(values, value)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}

	return values, nil
}
