package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup or update matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate")
	// ErrStockConflict is returned when a conditional stock decrement matches no row.
	ErrStockConflict = errors.New("stock changed")
)
