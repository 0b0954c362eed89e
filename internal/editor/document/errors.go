package document

import (
	"errors"
	"fmt"
)

// Errors returned by document operations.
var (
	// ErrNoPath indicates Save was called on a document that was never saved.
	ErrNoPath = errors.New("document has no file path")

	// ErrUnsupportedVersion indicates a map file written by a newer format.
	ErrUnsupportedVersion = errors.New("unsupported map file version")

	// ErrPropertyNotFound indicates removal of a property that does not exist.
	ErrPropertyNotFound = errors.New("property not found")
)

// FormatError describes a map file that could not be decoded.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid map file %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
