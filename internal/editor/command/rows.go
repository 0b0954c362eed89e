package command

import (
	"fmt"

	"github.com/dshills/tilestorm/internal/editor/history"
	"github.com/dshills/tilestorm/internal/editor/tilemap"
)

// AddRow appends empty rows to the bottom of a map.
type AddRow struct {
	m     *tilemap.Map
	count int
}

// NewAddRow creates a command that adds one row.
func NewAddRow(m *tilemap.Map) *AddRow {
	return &AddRow{m: m, count: 1}
}

// Redo adds the rows.
func (c *AddRow) Redo() {
	for range c.count {
		c.m.AddRow()
	}
}

// Undo removes the rows.
func (c *AddRow) Undo() {
	for range c.count {
		_, _ = c.m.RemoveRow()
	}
}

// ID returns AddRowID.
func (c *AddRow) ID() history.ID { return AddRowID }

// Text returns a human-readable description.
func (c *AddRow) Text() string {
	return countText("Add", c.count, "Row")
}

// MergeWith absorbs another AddRow on the same map.
func (c *AddRow) MergeWith(other history.Command) bool {
	o, ok := other.(*AddRow)
	if !ok || o.m != c.m {
		return false
	}
	c.count += o.count
	return true
}

// AddColumn appends empty columns to the right of a map.
type AddColumn struct {
	m     *tilemap.Map
	count int
}

// NewAddColumn creates a command that adds one column.
func NewAddColumn(m *tilemap.Map) *AddColumn {
	return &AddColumn{m: m, count: 1}
}

// Redo adds the columns.
func (c *AddColumn) Redo() {
	for range c.count {
		c.m.AddColumn()
	}
}

// Undo removes the columns.
func (c *AddColumn) Undo() {
	for range c.count {
		_, _ = c.m.RemoveColumn()
	}
}

// ID returns AddColumnID.
func (c *AddColumn) ID() history.ID { return AddColumnID }

// Text returns a human-readable description.
func (c *AddColumn) Text() string {
	return countText("Add", c.count, "Column")
}

// MergeWith absorbs another AddColumn on the same map.
func (c *AddColumn) MergeWith(other history.Command) bool {
	o, ok := other.(*AddColumn)
	if !ok || o.m != c.m {
		return false
	}
	c.count += o.count
	return true
}

// RemoveRow removes rows from the bottom of a map.
// The caller must ensure the map keeps at least one row.
type RemoveRow struct {
	m       *tilemap.Map
	count   int
	removed [][]tilemap.TileID // in removal order
}

// NewRemoveRow creates a command that removes one row.
func NewRemoveRow(m *tilemap.Map) *RemoveRow {
	return &RemoveRow{m: m, count: 1}
}

// Redo removes the rows and remembers their tiles.
func (c *RemoveRow) Redo() {
	c.removed = c.removed[:0]
	for range c.count {
		row, err := c.m.RemoveRow()
		if err != nil {
			break
		}
		c.removed = append(c.removed, row)
	}
}

// Undo restores the removed rows.
func (c *RemoveRow) Undo() {
	for i := len(c.removed) - 1; i >= 0; i-- {
		c.m.RestoreRow(c.removed[i])
	}
}

// ID returns RemoveRowID.
func (c *RemoveRow) ID() history.ID { return RemoveRowID }

// Text returns a human-readable description.
func (c *RemoveRow) Text() string {
	return countText("Remove", c.count, "Row")
}

// MergeWith absorbs another RemoveRow on the same map.
func (c *RemoveRow) MergeWith(other history.Command) bool {
	o, ok := other.(*RemoveRow)
	if !ok || o.m != c.m {
		return false
	}
	c.count += o.count
	c.removed = append(c.removed, o.removed...)
	return true
}

// RemoveColumn removes columns from the right of a map.
// The caller must ensure the map keeps at least one column.
type RemoveColumn struct {
	m       *tilemap.Map
	count   int
	removed [][]tilemap.TileID
}

// NewRemoveColumn creates a command that removes one column.
func NewRemoveColumn(m *tilemap.Map) *RemoveColumn {
	return &RemoveColumn{m: m, count: 1}
}

// Redo removes the columns and remembers their tiles.
func (c *RemoveColumn) Redo() {
	c.removed = c.removed[:0]
	for range c.count {
		col, err := c.m.RemoveColumn()
		if err != nil {
			break
		}
		c.removed = append(c.removed, col)
	}
}

// Undo restores the removed columns.
func (c *RemoveColumn) Undo() {
	for i := len(c.removed) - 1; i >= 0; i-- {
		c.m.RestoreColumn(c.removed[i])
	}
}

// ID returns RemoveColumnID.
func (c *RemoveColumn) ID() history.ID { return RemoveColumnID }

// Text returns a human-readable description.
func (c *RemoveColumn) Text() string {
	return countText("Remove", c.count, "Column")
}

// MergeWith absorbs another RemoveColumn on the same map.
func (c *RemoveColumn) MergeWith(other history.Command) bool {
	o, ok := other.(*RemoveColumn)
	if !ok || o.m != c.m {
		return false
	}
	c.count += o.count
	c.removed = append(c.removed, o.removed...)
	return true
}

func countText(verb string, n int, noun string) string {
	if n == 1 {
		return verb + " " + noun
	}
	return fmt.Sprintf("%s %d %ss", verb, n, noun)
}
