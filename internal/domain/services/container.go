package services

import (
	"context"

	"github.com/rscoates/magic-library/internal/domain/models"
	"github.com/rscoates/magic-library/internal/httputil"
)

// ContainerService handles storage hierarchy business logic
type ContainerService interface {
	// Create creates a new container under an optional parent
	Create(ctx context.Context, req *CreateContainerRequest) (*models.Container, error)

	// Get retrieves a container with its computed path
	Get(ctx context.Context, id int64) (*models.Container, error)

	// Update updates a container; re-parenting re-derives depths recursively
	Update(ctx context.Context, id int64, req *UpdateContainerRequest) (*models.Container, error)

	// Delete deletes a container, its descendants, and their entries
	Delete(ctx context.Context, id int64) error

	// ListChildren lists immediate children (nil = root containers)
	ListChildren(ctx context.Context, parentID *int64) ([]models.Container, error)

	// ListAll retrieves every container as a flat list
	ListAll(ctx context.Context) ([]models.Container, error)

	// Tree produces the nested container tree, optionally rooted at one node
	Tree(ctx context.Context, rootID *int64) ([]*models.ContainerNode, error)

	// CreateType adds a new container type label
	CreateType(ctx context.Context, name string) (*models.ContainerType, error)

	// ListTypes lists all container type labels
	ListTypes(ctx context.Context) ([]models.ContainerType, error)
}

// CreateContainerRequest represents a container creation request
type CreateContainerRequest struct {
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	TypeID        int64   `json:"type_id"`
	ParentID      *int64  `json:"parent_id,omitempty"`
	IsSold        bool    `json:"is_sold"`
	BinderColumns int     `json:"binder_columns"` // 0 = default (3)
	BinderFillRow bool    `json:"binder_fill_row"`
}

// UpdateContainerRequest represents a container update request.
// ParentID is tri-state: absent leaves the parent alone, null moves to root.
type UpdateContainerRequest struct {
	Name          *string                 `json:"name,omitempty"`
	Description   *string                 `json:"description,omitempty"`
	TypeID        *int64                  `json:"type_id,omitempty"`
	ParentID      httputil.OptionalInt64  `json:"parent_id,omitempty"`
	IsSold        *bool                   `json:"is_sold,omitempty"`
	BinderColumns *int                    `json:"binder_columns,omitempty"`
	BinderFillRow *bool                   `json:"binder_fill_row,omitempty"`
}
