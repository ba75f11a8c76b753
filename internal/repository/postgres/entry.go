package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rscoates/magic-library/internal/domain"
	"github.com/rscoates/magic-library/internal/domain/models"
	"github.com/rscoates/magic-library/internal/domain/repositories"
)

// PostgresEntryRepository implements the EntryRepository interface
type PostgresEntryRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewEntryRepository creates a new collection entry repository
func NewEntryRepository(config *RepositoryConfig) repositories.EntryRepository {
	return &PostgresEntryRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const entryColumns = `id, set_code, card_number, container_id, quantity, finish_id, language_id, comments, position`

func scanEntry(row interface{ Scan(...interface{}) error }, e *models.CollectionEntry) error {
	return row.Scan(
		&e.ID,
		&e.SetCode,
		&e.CardNumber,
		&e.ContainerID,
		&e.Quantity,
		&e.FinishID,
		&e.LanguageID,
		&e.Comments,
		&e.Position,
	)
}

// Create inserts a new entry and fills in its generated ID
func (r *PostgresEntryRepository) Create(ctx context.Context, entry *models.CollectionEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (set_code, card_number, container_id, quantity, finish_id, language_id, comments, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, r.tables.Entries)

	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query,
		entry.SetCode,
		entry.CardNumber,
		entry.ContainerID,
		entry.Quantity,
		entry.FinishID,
		entry.LanguageID,
		entry.Comments,
		entry.Position,
	).Scan(&entry.ID)

	if err != nil {
		if isPgDuplicateError(err) {
			// Merge-key backstop tripped: a concurrent writer created the
			// same variant first.
			return fmt.Errorf("entry for %s %s: %w", entry.SetCode, entry.CardNumber, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("entry container %d: %w", entry.ContainerID, domain.ErrNotFound)
		}
		return fmt.Errorf("create entry: %w", err)
	}

	return nil
}

// GetByID retrieves an entry by ID
func (r *PostgresEntryRepository) GetByID(ctx context.Context, id int64) (*models.CollectionEntry, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate retrieves an entry by ID with a row lock
func (r *PostgresEntryRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.CollectionEntry, error) {
	return r.getByID(ctx, id, true)
}

func (r *PostgresEntryRepository) getByID(ctx context.Context, id int64, forUpdate bool) (*models.CollectionEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, entryColumns, r.tables.Entries)
	if forUpdate {
		query += ` FOR UPDATE`
	}

	exec := GetExecutor(ctx, r.pool)
	var entry models.CollectionEntry
	if err := scanEntry(exec.QueryRow(ctx, query, id), &entry); err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("entry %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}

	return &entry, nil
}

// GetByKeyForUpdate retrieves the entry matching a merge key with a row lock.
// Returns (nil, nil) when no entry matches.
func (r *PostgresEntryRepository) GetByKeyForUpdate(ctx context.Context, key models.MergeKey) (*models.CollectionEntry, error) {
	// IS NOT DISTINCT FROM treats a NULL finish as a comparable value
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE set_code = $1 AND card_number = $2 AND container_id = $3
		  AND finish_id IS NOT DISTINCT FROM $4 AND language_id = $5
		FOR UPDATE
	`, entryColumns, r.tables.Entries)

	exec := GetExecutor(ctx, r.pool)
	var entry models.CollectionEntry
	err := scanEntry(exec.QueryRow(ctx, query,
		key.SetCode, key.CardNumber, key.ContainerID, key.FinishID, key.LanguageID), &entry)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil // not found, not an error
		}
		return nil, fmt.Errorf("get entry by key: %w", err)
	}

	return &entry, nil
}

// Update persists all mutable fields of an entry
func (r *PostgresEntryRepository) Update(ctx context.Context, entry *models.CollectionEntry) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET container_id = $1, quantity = $2, finish_id = $3, language_id = $4, comments = $5, position = $6
		WHERE id = $7
	`, r.tables.Entries)

	exec := GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query,
		entry.ContainerID,
		entry.Quantity,
		entry.FinishID,
		entry.LanguageID,
		entry.Comments,
		entry.Position,
		entry.ID,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("entry for %s %s: %w", entry.SetCode, entry.CardNumber, domain.ErrConflict)
		}
		return fmt.Errorf("update entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("entry %d: %w", entry.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes an entry
func (r *PostgresEntryRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Entries)

	exec := GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("entry %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// List retrieves entries, optionally filtered by container, excluding sold
// containers unless includeSold is set.
func (r *PostgresEntryRepository) List(ctx context.Context, containerID *int64, includeSold bool) ([]models.CollectionEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s e
		JOIN %s c ON c.id = e.container_id
		WHERE ($1::bigint IS NULL OR e.container_id = $1)
		  AND ($2 OR NOT c.is_sold)
		ORDER BY e.id ASC
	`, entryColumnsQualified("e"), r.tables.Entries, r.tables.Containers)

	return r.queryEntries(ctx, query, containerID, includeSold)
}

// ListByCardKey retrieves all entries of one card across containers
func (r *PostgresEntryRepository) ListByCardKey(ctx context.Context, setCode, cardNumber string, includeSold bool) ([]models.CollectionEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s e
		JOIN %s c ON c.id = e.container_id
		WHERE e.set_code = $1 AND e.card_number = $2
		  AND ($3 OR NOT c.is_sold)
		ORDER BY e.id ASC
	`, entryColumnsQualified("e"), r.tables.Entries, r.tables.Containers)

	return r.queryEntries(ctx, query, setCode, cardNumber, includeSold)
}

// MaxPosition returns the greatest explicit position in a container
func (r *PostgresEntryRepository) MaxPosition(ctx context.Context, containerID int64) (int, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(MAX(position), 0) FROM %s WHERE container_id = $1
	`, r.tables.Entries)

	exec := GetExecutor(ctx, r.pool)
	var max int
	if err := exec.QueryRow(ctx, query, containerID).Scan(&max); err != nil {
		return 0, fmt.Errorf("max position: %w", err)
	}

	return max, nil
}

// ListPositioned retrieves entries with positions in [from, to], ordered by
// position, then English first, then oldest set release date, then id.
func (r *PostgresEntryRepository) ListPositioned(ctx context.Context, containerID int64, from, to int) ([]models.CollectionEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s e
		JOIN %s l ON l.id = e.language_id
		LEFT JOIN %s s ON s.code = e.set_code
		WHERE e.container_id = $1 AND e.position BETWEEN $2 AND $3
		ORDER BY e.position ASC,
		         (LOWER(l.name) <> 'english') ASC,
		         COALESCE(s.release_date, DATE '9999-12-31') ASC,
		         e.id ASC
	`, entryColumnsQualified("e"), r.tables.Entries, r.tables.Languages, r.tables.Sets)

	return r.queryEntries(ctx, query, containerID, from, to)
}

// ListAtPosition retrieves all entries at one position in representative order
func (r *PostgresEntryRepository) ListAtPosition(ctx context.Context, containerID int64, position int) ([]models.CollectionEntry, error) {
	return r.ListPositioned(ctx, containerID, position, position)
}

// SetPosition updates one entry's position if it belongs to the container.
// Returns false when no row matched.
func (r *PostgresEntryRepository) SetPosition(ctx context.Context, entryID, containerID int64, position *int) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET position = $1 WHERE id = $2 AND container_id = $3
	`, r.tables.Entries)

	exec := GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query, position, entryID, containerID)
	if err != nil {
		return false, fmt.Errorf("set entry position: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *PostgresEntryRepository) queryEntries(ctx context.Context, query string, args ...interface{}) ([]models.CollectionEntry, error) {
	exec := GetExecutor(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []models.CollectionEntry
	for rows.Next() {
		var entry models.CollectionEntry
		if err := scanEntry(rows, &entry); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

// entryColumnsQualified prefixes the entry column list with a table alias
func entryColumnsQualified(alias string) string {
	return fmt.Sprintf(`%[1]s.id, %[1]s.set_code, %[1]s.card_number, %[1]s.container_id, %[1]s.quantity, %[1]s.finish_id, %[1]s.language_id, %[1]s.comments, %[1]s.position`, alias)
}
