package command

import (
	"fmt"

	"github.com/dshills/tilestorm/internal/editor/history"
	"github.com/dshills/tilestorm/internal/editor/tilemap"
)

// Resize changes the dimensions of a map.
type Resize struct {
	m      *tilemap.Map
	rows   int
	cols   int
	before [][]tilemap.TileID
}

// NewResize creates a resize command. Rows and cols must be positive.
func NewResize(m *tilemap.Map, rows, cols int) *Resize {
	return &Resize{m: m, rows: rows, cols: cols}
}

// Redo snapshots the grid and resizes the map.
func (c *Resize) Redo() {
	c.before = c.m.Tiles()
	_ = c.m.Resize(c.rows, c.cols)
}

// Undo restores the grid snapshot.
func (c *Resize) Undo() {
	if c.before != nil {
		_ = c.m.Restore(c.before)
	}
}

// ID returns ResizeID.
func (c *Resize) ID() history.ID { return ResizeID }

// Text returns a human-readable description.
func (c *Resize) Text() string {
	return fmt.Sprintf("Resize Map to %dx%d", c.rows, c.cols)
}
