package tilemap

import "errors"

// Errors returned by map operations.
var (
	// ErrOutOfBounds indicates a position outside the map.
	ErrOutOfBounds = errors.New("position out of bounds")

	// ErrInvalidSize indicates a row or column count below one.
	ErrInvalidSize = errors.New("invalid map size")

	// ErrLastRow indicates an attempt to remove the only row.
	ErrLastRow = errors.New("cannot remove the last row")

	// ErrLastColumn indicates an attempt to remove the only column.
	ErrLastColumn = errors.New("cannot remove the last column")

	// ErrEmptyPropertyName indicates a property without a name.
	ErrEmptyPropertyName = errors.New("property name is empty")
)
