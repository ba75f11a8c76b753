package domain

import (
	"errors"
)

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")

	// Container tree errors
	ErrInvalidDepth  = errors.New("maximum container depth exceeded")
	ErrUnknownType   = errors.New("unknown container type")
	ErrUnknownParent = errors.New("parent container not found")

	// Inventory errors
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
	ErrSameContainer        = errors.New("source and target containers are the same")
)
