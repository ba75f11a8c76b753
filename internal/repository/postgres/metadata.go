package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rscoates/magic-library/internal/domain"
	"github.com/rscoates/magic-library/internal/domain/models"
	"github.com/rscoates/magic-library/internal/domain/repositories"
)

// PostgresMetadataRepository implements the MetadataRepository interface
type PostgresMetadataRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewMetadataRepository creates a new metadata repository
func NewMetadataRepository(config *RepositoryConfig) repositories.MetadataRepository {
	return &PostgresMetadataRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetLanguage retrieves a language by ID
func (r *PostgresMetadataRepository) GetLanguage(ctx context.Context, id int64) (*models.Language, error) {
	query := fmt.Sprintf(`SELECT id, code, name FROM %s WHERE id = $1`, r.tables.Languages)

	exec := GetExecutor(ctx, r.pool)
	var language models.Language
	if err := exec.QueryRow(ctx, query, id).Scan(&language.ID, &language.Code, &language.Name); err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("language %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get language: %w", err)
	}

	return &language, nil
}

// GetFinish retrieves a finish by ID
func (r *PostgresMetadataRepository) GetFinish(ctx context.Context, id int64) (*models.Finish, error) {
	query := fmt.Sprintf(`SELECT id, name FROM %s WHERE id = $1`, r.tables.Finishes)

	exec := GetExecutor(ctx, r.pool)
	var finish models.Finish
	if err := exec.QueryRow(ctx, query, id).Scan(&finish.ID, &finish.Name); err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("finish %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get finish: %w", err)
	}

	return &finish, nil
}

// ListLanguages retrieves all languages ordered by name
func (r *PostgresMetadataRepository) ListLanguages(ctx context.Context) ([]models.Language, error) {
	query := fmt.Sprintf(`SELECT id, code, name FROM %s ORDER BY name ASC`, r.tables.Languages)

	exec := GetExecutor(ctx, r.pool)
	rows, err := exec.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	defer rows.Close()

	var languages []models.Language
	for rows.Next() {
		var language models.Language
		if err := rows.Scan(&language.ID, &language.Code, &language.Name); err != nil {
			return nil, fmt.Errorf("scan language: %w", err)
		}
		languages = append(languages, language)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate languages: %w", err)
	}

	return languages, nil
}

// ListFinishes retrieves all finishes ordered by name
func (r *PostgresMetadataRepository) ListFinishes(ctx context.Context) ([]models.Finish, error) {
	query := fmt.Sprintf(`SELECT id, name FROM %s ORDER BY name ASC`, r.tables.Finishes)

	exec := GetExecutor(ctx, r.pool)
	rows, err := exec.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list finishes: %w", err)
	}
	defer rows.Close()

	var finishes []models.Finish
	for rows.Next() {
		var finish models.Finish
		if err := rows.Scan(&finish.ID, &finish.Name); err != nil {
			return nil, fmt.Errorf("scan finish: %w", err)
		}
		finishes = append(finishes, finish)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate finishes: %w", err)
	}

	return finishes, nil
}
