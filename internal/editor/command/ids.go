// Package command implements the undoable map edits recorded by documents.
//
// Every command operates on a *tilemap.Map and satisfies history.Command.
// Row and column commands implement history.Merger so repeated additions or
// removals collapse into a single undo step. Property edits on the same
// property merge as well.
package command

import "github.com/dshills/tilestorm/internal/editor/history"

// Command kinds.
const (
	AddRowID history.ID = iota + 1
	AddColumnID
	RemoveRowID
	RemoveColumnID
	ResizeID
	StampID
	EraseID
	BucketFillID
	SetPropertyID
	RemovePropertyID
	RenameMapID
)
