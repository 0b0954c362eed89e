package document

import (
	"fmt"

	"github.com/dshills/tilestorm/internal/editor/command"
	"github.com/dshills/tilestorm/internal/editor/history"
	"github.com/dshills/tilestorm/internal/editor/tilemap"
)

// Editor performs validated edits on a locked document.
// It is only valid inside the call that handed it out.
type Editor struct {
	m     *tilemap.Map
	stack *history.Stack
}

// AddRow appends a row.
func (e *Editor) AddRow() {
	e.stack.Push(command.NewAddRow(e.m))
}

// AddColumn appends a column.
func (e *Editor) AddColumn() {
	e.stack.Push(command.NewAddColumn(e.m))
}

// RemoveRow removes the bottom row. The last row cannot be removed.
func (e *Editor) RemoveRow() error {
	if e.m.Rows() <= 1 {
		return tilemap.ErrLastRow
	}
	e.stack.Push(command.NewRemoveRow(e.m))
	return nil
}

// RemoveColumn removes the rightmost column. The last column cannot be removed.
func (e *Editor) RemoveColumn() error {
	if e.m.Columns() <= 1 {
		return tilemap.ErrLastColumn
	}
	e.stack.Push(command.NewRemoveColumn(e.m))
	return nil
}

// Resize changes the map dimensions.
func (e *Editor) Resize(rows, cols int) error {
	if rows < 1 || cols < 1 {
		return fmt.Errorf("%w: %dx%d", tilemap.ErrInvalidSize, rows, cols)
	}
	e.stack.Push(command.NewResize(e.m, rows, cols))
	return nil
}

// SetTile paints a single tile.
func (e *Editor) SetTile(p tilemap.Pos, id tilemap.TileID) error {
	old, err := e.m.Tile(p)
	if err != nil {
		return err
	}
	e.stack.Push(command.NewStamp(e.m, command.Sequence{p: old}, command.Sequence{p: id}))
	return nil
}

// Fill flood-fills the region around p and returns the number of changed cells.
// Filling a region with its own tile records nothing.
func (e *Editor) Fill(p tilemap.Pos, id tilemap.TileID) (int, error) {
	target, err := e.m.Tile(p)
	if err != nil {
		return 0, err
	}
	if target == id {
		return 0, nil
	}

	fill := command.NewBucketFill(e.m, p, id)
	e.stack.Push(fill)
	return fill.Changed(), nil
}

// SetProperty sets a map property.
func (e *Editor) SetProperty(name, value string) error {
	if name == "" {
		return tilemap.ErrEmptyPropertyName
	}
	e.stack.Push(command.NewSetProperty(e.m, name, value))
	return nil
}

// RemoveProperty removes an existing map property.
func (e *Editor) RemoveProperty(name string) error {
	if _, ok := e.m.Property(name); !ok {
		return fmt.Errorf("%w: %s", ErrPropertyNotFound, name)
	}
	e.stack.Push(command.NewRemoveProperty(e.m, name))
	return nil
}

// Rename changes the map name.
func (e *Editor) Rename(name string) {
	e.stack.Push(command.NewRenameMap(e.m, name))
}

// Rows returns the number of map rows.
func (e *Editor) Rows() int {
	return e.m.Rows()
}

// Columns returns the number of map columns.
func (e *Editor) Columns() int {
	return e.m.Columns()
}

// Tile returns the tile at p.
func (e *Editor) Tile(p tilemap.Pos) (tilemap.TileID, error) {
	return e.m.Tile(p)
}
