package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rscoates/magic-library/internal/domain"
	"github.com/rscoates/magic-library/internal/domain/models"
	"github.com/rscoates/magic-library/internal/domain/repositories"
)

// PostgresContainerRepository implements the ContainerRepository interface
type PostgresContainerRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewContainerRepository creates a new container repository
func NewContainerRepository(config *RepositoryConfig) repositories.ContainerRepository {
	return &PostgresContainerRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const containerColumns = `id, name, description, type_id, parent_id, depth, is_sold, binder_columns, binder_fill_row, created_at`

func scanContainer(row interface{ Scan(...interface{}) error }, c *models.Container) error {
	return row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.TypeID,
		&c.ParentID,
		&c.Depth,
		&c.IsSold,
		&c.BinderColumns,
		&c.BinderFillRow,
		&c.CreatedAt,
	)
}

// Create creates a new container
func (r *PostgresContainerRepository) Create(ctx context.Context, container *models.Container) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, description, type_id, parent_id, depth, is_sold, binder_columns, binder_fill_row)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, r.tables.Containers)

	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query,
		container.Name,
		container.Description,
		container.TypeID,
		container.ParentID,
		container.Depth,
		container.IsSold,
		container.BinderColumns,
		container.BinderFillRow,
	).Scan(&container.ID, &container.CreatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("container %q: %w", container.Name, domain.ErrUnknownParent)
		}
		return fmt.Errorf("create container: %w", err)
	}

	return nil
}

// GetByID retrieves a container by ID
func (r *PostgresContainerRepository) GetByID(ctx context.Context, id int64) (*models.Container, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, containerColumns, r.tables.Containers)

	exec := GetExecutor(ctx, r.pool)
	var container models.Container
	if err := scanContainer(exec.QueryRow(ctx, query, id), &container); err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("container %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get container: %w", err)
	}

	return &container, nil
}

// Update persists all mutable fields of a container
func (r *PostgresContainerRepository) Update(ctx context.Context, container *models.Container) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, type_id = $3, parent_id = $4, depth = $5,
		    is_sold = $6, binder_columns = $7, binder_fill_row = $8
		WHERE id = $9
	`, r.tables.Containers)

	exec := GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query,
		container.Name,
		container.Description,
		container.TypeID,
		container.ParentID,
		container.Depth,
		container.IsSold,
		container.BinderColumns,
		container.BinderFillRow,
		container.ID,
	)
	if err != nil {
		return fmt.Errorf("update container: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("container %d: %w", container.ID, domain.ErrNotFound)
	}

	return nil
}

// SetDepth updates only the derived depth of a container
func (r *PostgresContainerRepository) SetDepth(ctx context.Context, id int64, depth int) error {
	query := fmt.Sprintf(`UPDATE %s SET depth = $1 WHERE id = $2`, r.tables.Containers)

	exec := GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query, depth, id)
	if err != nil {
		return fmt.Errorf("set container depth: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("container %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a container; its entries cascade via the foreign key
func (r *PostgresContainerRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Containers)

	exec := GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete container: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("container %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListChildren lists immediate children (parentID nil = root containers)
func (r *PostgresContainerRepository) ListChildren(ctx context.Context, parentID *int64) ([]models.Container, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE parent_id IS NULL ORDER BY name ASC`,
			containerColumns, r.tables.Containers)
	} else {
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE parent_id = $1 ORDER BY name ASC`,
			containerColumns, r.tables.Containers)
		args = append(args, *parentID)
	}

	exec := GetExecutor(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list container children: %w", err)
	}
	defer rows.Close()

	var containers []models.Container
	for rows.Next() {
		var container models.Container
		if err := scanContainer(rows, &container); err != nil {
			return nil, fmt.Errorf("scan container: %w", err)
		}
		containers = append(containers, container)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate containers: %w", err)
	}

	return containers, nil
}

// ListAll retrieves every container (flat list)
func (r *PostgresContainerRepository) ListAll(ctx context.Context) ([]models.Container, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at ASC`,
		containerColumns, r.tables.Containers)

	exec := GetExecutor(ctx, r.pool)
	rows, err := exec.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}
	defer rows.Close()

	var containers []models.Container
	for rows.Next() {
		var container models.Container
		if err := scanContainer(rows, &container); err != nil {
			return nil, fmt.Errorf("scan container: %w", err)
		}
		containers = append(containers, container)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate containers: %w", err)
	}

	return containers, nil
}

// GetPath computes the display path using a recursive CTE, ancestor names
// joined root to leaf with " > ".
func (r *PostgresContainerRepository) GetPath(ctx context.Context, id int64) (string, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE container_path AS (
			SELECT id, name, parent_id, name::text AS path
			FROM %s
			WHERE id = $1
			UNION ALL
			SELECT c.id, c.name, c.parent_id, c.name || ' > ' || cp.path
			FROM %s c
			JOIN container_path cp ON c.id = cp.parent_id
		)
		SELECT path FROM container_path WHERE parent_id IS NULL
	`, r.tables.Containers, r.tables.Containers)

	exec := GetExecutor(ctx, r.pool)
	var path string
	if err := exec.QueryRow(ctx, query, id).Scan(&path); err != nil {
		if isPgNoRowsError(err) {
			return "", fmt.Errorf("container %d: %w", id, domain.ErrNotFound)
		}
		return "", fmt.Errorf("get container path: %w", err)
	}

	return path, nil
}

// SoldContainerIDs returns the ids of containers flagged as sold
func (r *PostgresContainerRepository) SoldContainerIDs(ctx context.Context) (map[int64]bool, error) {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE is_sold`, r.tables.Containers)

	exec := GetExecutor(ctx, r.pool)
	rows, err := exec.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sold containers: %w", err)
	}
	defer rows.Close()

	sold := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan container id: %w", err)
		}
		sold[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sold containers: %w", err)
	}

	return sold, nil
}

// PostgresContainerTypeRepository implements the ContainerTypeRepository interface
type PostgresContainerTypeRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewContainerTypeRepository creates a new container type repository
func NewContainerTypeRepository(config *RepositoryConfig) repositories.ContainerTypeRepository {
	return &PostgresContainerTypeRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new container type label
func (r *PostgresContainerTypeRepository) Create(ctx context.Context, name string) (*models.ContainerType, error) {
	query := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) RETURNING id`, r.tables.ContainerTypes)

	exec := GetExecutor(ctx, r.pool)
	containerType := models.ContainerType{Name: name}
	if err := exec.QueryRow(ctx, query, name).Scan(&containerType.ID); err != nil {
		if isPgDuplicateError(err) {
			return nil, fmt.Errorf("container type %q: %w", name, domain.ErrConflict)
		}
		return nil, fmt.Errorf("create container type: %w", err)
	}

	return &containerType, nil
}

// GetByID retrieves a container type by ID
func (r *PostgresContainerTypeRepository) GetByID(ctx context.Context, id int64) (*models.ContainerType, error) {
	query := fmt.Sprintf(`SELECT id, name FROM %s WHERE id = $1`, r.tables.ContainerTypes)

	exec := GetExecutor(ctx, r.pool)
	var containerType models.ContainerType
	if err := exec.QueryRow(ctx, query, id).Scan(&containerType.ID, &containerType.Name); err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("container type %d: %w", id, domain.ErrUnknownType)
		}
		return nil, fmt.Errorf("get container type: %w", err)
	}

	return &containerType, nil
}

// List retrieves all container types
func (r *PostgresContainerTypeRepository) List(ctx context.Context) ([]models.ContainerType, error) {
	query := fmt.Sprintf(`SELECT id, name FROM %s ORDER BY name ASC`, r.tables.ContainerTypes)

	exec := GetExecutor(ctx, r.pool)
	rows, err := exec.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list container types: %w", err)
	}
	defer rows.Close()

	var types []models.ContainerType
	for rows.Next() {
		var containerType models.ContainerType
		if err := rows.Scan(&containerType.ID, &containerType.Name); err != nil {
			return nil, fmt.Errorf("scan container type: %w", err)
		}
		types = append(types, containerType)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate container types: %w", err)
	}

	return types, nil
}
