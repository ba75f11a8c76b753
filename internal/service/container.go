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

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type containerService struct {
	containerRepo repositories.ContainerRepository
	typeRepo      repositories.ContainerTypeRepository
	txManager     repositories.TransactionManager
	logger        *slog.Logger
}

// NewContainerService creates a new container service
func NewContainerService(
	containerRepo repositories.ContainerRepository,
	typeRepo repositories.ContainerTypeRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.ContainerService {
	return &containerService{
		containerRepo: containerRepo,
		typeRepo:      typeRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

// Create creates a new container under an optional parent
func (s *containerService) Create(ctx context.Context, req *services.CreateContainerRequest) (*models.Container, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Verify the type label exists
	if _, err := s.typeRepo.GetByID(ctx, req.TypeID); err != nil {
		return nil, err
	}

	// Depth derives from the resolved parent, never from the client
	depth := 0
	if req.ParentID != nil {
		parent, err := s.containerRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("parent %d: %w", *req.ParentID, domain.ErrUnknownParent)
		}
		depth = parent.Depth + 1
		if depth > models.MaxContainerDepth {
			return nil, fmt.Errorf("depth %d: %w", depth, domain.ErrInvalidDepth)
		}
	}

	columns := req.BinderColumns
	if columns == 0 {
		columns = 3
	}

	container := &models.Container{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		TypeID:        req.TypeID,
		ParentID:      req.ParentID,
		Depth:         depth,
		IsSold:        req.IsSold,
		BinderColumns: columns,
		BinderFillRow: req.BinderFillRow,
	}

	if err := s.containerRepo.Create(ctx, container); err != nil {
		return nil, err
	}

	s.attachPath(ctx, container)

	s.logger.Info("container created",
		"id", container.ID,
		"name", container.Name,
		"parent_id", container.ParentID,
		"depth", container.Depth,
	)

	return container, nil
}

// Get retrieves a container with its computed path
func (s *containerService) Get(ctx context.Context, id int64) (*models.Container, error) {
	container, err := s.containerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.attachPath(ctx, container)
	return container, nil
}

// Update updates a container; re-parenting re-derives depths recursively and
// rejects cycles or depth-bound violations before touching the tree.
func (s *containerService) Update(ctx context.Context, id int64, req *services.UpdateContainerRequest) (*models.Container, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	container, err := s.containerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		container.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		container.Description = req.Description
	}
	if req.TypeID != nil {
		if _, err := s.typeRepo.GetByID(ctx, *req.TypeID); err != nil {
			return nil, err
		}
		container.TypeID = *req.TypeID
	}
	if req.IsSold != nil {
		container.IsSold = *req.IsSold
	}
	if req.BinderColumns != nil {
		container.BinderColumns = *req.BinderColumns
	}
	if req.BinderFillRow != nil {
		container.BinderFillRow = *req.BinderFillRow
	}

	// Tri-state: only touch the parent if the field was present in the request
	depthDelta := 0
	if req.ParentID.Present {
		newDepth, err := s.resolveReparent(ctx, container, req.ParentID.Value)
		if err != nil {
			return nil, err
		}
		depthDelta = newDepth - container.Depth
		container.ParentID = req.ParentID.Value
		container.Depth = newDepth
	}

	// The node update and all descendant depth shifts settle together
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.containerRepo.Update(txCtx, container); err != nil {
			return err
		}
		if depthDelta != 0 {
			return s.shiftDescendantDepths(txCtx, container.ID, depthDelta)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.attachPath(ctx, container)

	s.logger.Info("container updated",
		"id", container.ID,
		"name", container.Name,
		"parent_id", container.ParentID,
		"depth", container.Depth,
	)

	return container, nil
}

// resolveReparent validates a parent change and returns the node's new depth.
// newParentID nil means move to root.
func (s *containerService) resolveReparent(ctx context.Context, container *models.Container, newParentID *int64) (int, error) {
	if newParentID == nil {
		return 0, nil
	}

	if *newParentID == container.ID {
		return 0, fmt.Errorf("container cannot be its own parent: %w", domain.ErrInvalidDepth)
	}

	parent, err := s.containerRepo.GetByID(ctx, *newParentID)
	if err != nil {
		return 0, fmt.Errorf("parent %d: %w", *newParentID, domain.ErrUnknownParent)
	}

	// Walk the ancestor chain of the proposed parent; finding the moving
	// node means the move would create a cycle.
	current := parent
	for current.ParentID != nil {
		if *current.ParentID == container.ID {
			return 0, fmt.Errorf("target parent is a descendant of container %d: %w", container.ID, domain.ErrInvalidDepth)
		}
		current, err = s.containerRepo.GetByID(ctx, *current.ParentID)
		if err != nil {
			return 0, err
		}
	}

	newDepth := parent.Depth + 1
	if newDepth > models.MaxContainerDepth {
		return 0, fmt.Errorf("depth %d: %w", newDepth, domain.ErrInvalidDepth)
	}

	// The whole subtree shifts with the node; the deepest descendant must
	// still fit the bound.
	height, err := s.subtreeHeight(ctx, container.ID)
	if err != nil {
		return 0, err
	}
	if newDepth+height > models.MaxContainerDepth {
		return 0, fmt.Errorf("descendant depth %d: %w", newDepth+height, domain.ErrInvalidDepth)
	}

	return newDepth, nil
}

// subtreeHeight returns the number of levels below the given container
func (s *containerService) subtreeHeight(ctx context.Context, id int64) (int, error) {
	children, err := s.containerRepo.ListChildren(ctx, &id)
	if err != nil {
		return 0, err
	}

	height := 0
	for _, child := range children {
		childHeight, err := s.subtreeHeight(ctx, child.ID)
		if err != nil {
			return 0, err
		}
		if childHeight+1 > height {
			height = childHeight + 1
		}
	}

	return height, nil
}

// shiftDescendantDepths re-derives stored depths below a re-parented node
func (s *containerService) shiftDescendantDepths(ctx context.Context, id int64, delta int) error {
	children, err := s.containerRepo.ListChildren(ctx, &id)
	if err != nil {
		return err
	}

	for _, child := range children {
		if err := s.containerRepo.SetDepth(ctx, child.ID, child.Depth+delta); err != nil {
			return err
		}
		if err := s.shiftDescendantDepths(ctx, child.ID, delta); err != nil {
			return err
		}
	}

	return nil
}

// Delete deletes a container, its descendant containers, and their entries.
// Destructive and irreversible; entries cascade at the storage layer.
func (s *containerService) Delete(ctx context.Context, id int64) error {
	container, err := s.containerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.deleteDescendants(txCtx, id); err != nil {
			return err
		}
		return s.containerRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("container deleted",
		"id", id,
		"name", container.Name,
	)

	return nil
}

// deleteDescendants recursively deletes all child containers, deepest first
func (s *containerService) deleteDescendants(ctx context.Context, id int64) error {
	children, err := s.containerRepo.ListChildren(ctx, &id)
	if err != nil {
		return fmt.Errorf("list children: %w", err)
	}

	for _, child := range children {
		if err := s.deleteDescendants(ctx, child.ID); err != nil {
			return err
		}
		if err := s.containerRepo.Delete(ctx, child.ID); err != nil {
			return fmt.Errorf("delete child container %q: %w", child.Name, err)
		}
		s.logger.Debug("deleted child container", "id", child.ID, "name", child.Name)
	}

	return nil
}

// ListChildren lists immediate children (nil = root containers)
func (s *containerService) ListChildren(ctx context.Context, parentID *int64) ([]models.Container, error) {
	return s.containerRepo.ListChildren(ctx, parentID)
}

// ListAll retrieves every container as a flat list
func (s *containerService) ListAll(ctx context.Context) ([]models.Container, error) {
	return s.containerRepo.ListAll(ctx)
}

// Tree produces the nested container tree using a two-pass map build
func (s *containerService) Tree(ctx context.Context, rootID *int64) ([]*models.ContainerNode, error) {
	all, err := s.containerRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	types, err := s.typeRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	typeNames := make(map[int64]string, len(types))
	for _, t := range types {
		typeNames[t.ID] = t.Name
	}

	// First pass: create all nodes
	nodes := make(map[int64]*models.ContainerNode, len(all))
	for _, container := range all {
		nodes[container.ID] = &models.ContainerNode{
			Container: container,
			TypeName:  typeNames[container.TypeID],
			Children:  []*models.ContainerNode{},
		}
	}

	// Second pass: connect children to parents
	var roots []*models.ContainerNode
	for _, container := range all {
		node := nodes[container.ID]
		if container.ParentID == nil {
			roots = append(roots, node)
		} else if parent, ok := nodes[*container.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		}
	}

	if rootID == nil {
		return roots, nil
	}

	root, ok := nodes[*rootID]
	if !ok {
		return nil, fmt.Errorf("container %d: %w", *rootID, domain.ErrNotFound)
	}
	return []*models.ContainerNode{root}, nil
}

// CreateType adds a new container type label
func (s *containerService) CreateType(ctx context.Context, name string) (*models.ContainerType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: type name cannot be empty", domain.ErrValidation)
	}

	containerType, err := s.typeRepo.Create(ctx, name)
	if err != nil {
		return nil, err
	}

	s.logger.Info("container type created", "id", containerType.ID, "name", containerType.Name)
	return containerType, nil
}

// ListTypes lists all container type labels
func (s *containerService) ListTypes(ctx context.Context) ([]models.ContainerType, error) {
	return s.typeRepo.List(ctx)
}

// attachPath computes the display path, falling back to the bare name
func (s *containerService) attachPath(ctx context.Context, container *models.Container) {
	path, err := s.containerRepo.GetPath(ctx, container.ID)
	if err != nil {
		s.logger.Warn("failed to compute path", "container_id", container.ID, "error", err)
		container.Path = container.Name
		return
	}
	container.Path = path
}

// validateCreateRequest validates a container creation request
func (s *containerService) validateCreateRequest(req *services.CreateContainerRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.TypeID, validation.Required),
		validation.Field(&req.BinderColumns, validation.In(0, 2, 3, 4)),
	)
}

// validateUpdateRequest validates a container update request
func (s *containerService) validateUpdateRequest(req *services.UpdateContainerRequest) error {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if req.BinderColumns != nil {
		switch *req.BinderColumns {
		case 2, 3, 4:
		default:
			return fmt.Errorf("binder_columns must be 2, 3, or 4")
		}
	}
	return nil
}
