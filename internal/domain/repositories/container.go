package repositories

import (
	"context"

	"github.com/rscoates/magic-library/internal/domain/models"
)

// ContainerRepository defines data access operations for storage containers.
type ContainerRepository interface {
	// Create creates a new container
	Create(ctx context.Context, container *models.Container) error

	// GetByID retrieves a container by ID
	GetByID(ctx context.Context, id int64) (*models.Container, error)

	// Update persists all mutable fields of a container
	Update(ctx context.Context, container *models.Container) error

	// SetDepth updates only the derived depth of a container
	SetDepth(ctx context.Context, id int64, depth int) error

	// Delete deletes a container; entries cascade at the storage layer
	Delete(ctx context.Context, id int64) error

	// ListChildren lists immediate children (parentID nil = root containers)
	ListChildren(ctx context.Context, parentID *int64) ([]models.Container, error)

	// ListAll retrieves every container (flat list)
	ListAll(ctx context.Context) ([]models.Container, error)

	// GetPath computes the display path, ancestor names joined root to leaf
	GetPath(ctx context.Context, id int64) (string, error)

	// SoldContainerIDs returns the ids of containers flagged as sold
	SoldContainerIDs(ctx context.Context) (map[int64]bool, error)
}

// ContainerTypeRepository defines data access for the open set of container
// type labels.
type ContainerTypeRepository interface {
	Create(ctx context.Context, name string) (*models.ContainerType, error)
	GetByID(ctx context.Context, id int64) (*models.ContainerType, error)
	List(ctx context.Context) ([]models.ContainerType, error)
}
