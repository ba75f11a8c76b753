package models

import (
	"strings"
	"time"
)

// MaxContainerDepth is the deepest level a container may occupy.
// The root sits at depth 0, so the tree holds at most ten levels.
const MaxContainerDepth = 9

// BinderCapableType is the container type whose contents get a paginated
// binder layout. Type names are an open set; only this one is special.
const BinderCapableType = "file"

// ContainerType labels a kind of physical storage (box, file, deck, ...).
type ContainerType struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// IsBinderCapable reports whether containers of this type use binder layout.
func (t *ContainerType) IsBinderCapable() bool {
	return strings.EqualFold(t.Name, BinderCapableType)
}

// Container is a node in the physical storage hierarchy. Depth is always
// derived from the resolved parent, never supplied by clients.
type Container struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Description   *string   `json:"description,omitempty" db:"description"`
	TypeID        int64     `json:"type_id" db:"type_id"`
	ParentID      *int64    `json:"parent_id" db:"parent_id"` // NULL = root level
	Depth         int       `json:"depth" db:"depth"`
	IsSold        bool      `json:"is_sold" db:"is_sold"`
	BinderColumns int       `json:"binder_columns" db:"binder_columns"`
	BinderFillRow bool      `json:"binder_fill_row" db:"binder_fill_row"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	// Computed display path, not stored in DB
	Path string `json:"path,omitempty"`
}

// ContainerNode is a container with its nested children, as produced by the
// subtree listing.
type ContainerNode struct {
	Container
	TypeName string           `json:"type_name"`
	Children []*ContainerNode `json:"children"`
}
