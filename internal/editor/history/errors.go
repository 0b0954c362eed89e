package history

import "errors"

// Errors returned by stack operations that were called without checking
// CanUndo or CanRedo first.
var (
	// ErrNothingToUndo indicates there is no applied command to revert.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates there is no reverted command to re-apply.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrNotGrouping indicates EndGroup or CancelGroup without BeginGroup.
	ErrNotGrouping = errors.New("no command group in progress")
)
