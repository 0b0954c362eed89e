package command

import (
	"github.com/dshills/tilestorm/internal/editor/history"
	"github.com/dshills/tilestorm/internal/editor/tilemap"
)

// Sequence maps cell positions to tiles.
type Sequence map[tilemap.Pos]tilemap.TileID

// Stamp paints a sequence of tiles.
//
// Interactive stamp strokes are applied while the user drags, so the
// finished stroke is recorded with history.Stack.Store.
type Stamp struct {
	m        *tilemap.Map
	old      Sequence
	sequence Sequence
}

// NewStamp creates a stamp command. old holds the tiles that sequence
// overwrites.
func NewStamp(m *tilemap.Map, old, sequence Sequence) *Stamp {
	return &Stamp{m: m, old: old, sequence: sequence}
}

// Redo paints the sequence.
func (c *Stamp) Redo() {
	apply(c.m, c.sequence)
}

// Undo restores the overwritten tiles.
func (c *Stamp) Undo() {
	apply(c.m, c.old)
}

// ID returns StampID.
func (c *Stamp) ID() history.ID { return StampID }

// Text returns "Stamp Sequence".
func (c *Stamp) Text() string { return "Stamp Sequence" }

// Erase clears a sequence of tiles.
type Erase struct {
	m   *tilemap.Map
	old Sequence
}

// NewErase creates an erase command. old holds the erased tiles.
func NewErase(m *tilemap.Map, old Sequence) *Erase {
	return &Erase{m: m, old: old}
}

// Redo clears the cells.
func (c *Erase) Redo() {
	for p := range c.old {
		_, _ = c.m.SetTile(p, tilemap.Empty)
	}
}

// Undo restores the erased tiles.
func (c *Erase) Undo() {
	apply(c.m, c.old)
}

// ID returns EraseID.
func (c *Erase) ID() history.ID { return EraseID }

// Text returns "Erase Sequence".
func (c *Erase) Text() string { return "Erase Sequence" }

// BucketFill flood-fills a region.
type BucketFill struct {
	m           *tilemap.Map
	origin      tilemap.Pos
	replacement tilemap.TileID
	changes     []tilemap.Change
	filled      bool
}

// NewBucketFill creates a flood fill starting at origin.
func NewBucketFill(m *tilemap.Map, origin tilemap.Pos, replacement tilemap.TileID) *BucketFill {
	return &BucketFill{m: m, origin: origin, replacement: replacement}
}

// Redo fills the region. The region is computed once; later redos
// repaint the same cells.
func (c *BucketFill) Redo() {
	if c.filled {
		c.m.Apply(c.changes, c.replacement)
		return
	}
	c.changes, _ = c.m.Flood(c.origin, c.replacement)
	c.filled = true
}

// Undo restores the filled cells.
func (c *BucketFill) Undo() {
	c.m.Revert(c.changes)
}

// ID returns BucketFillID.
func (c *BucketFill) ID() history.ID { return BucketFillID }

// Text returns "Bucket Fill".
func (c *BucketFill) Text() string { return "Bucket Fill" }

// Changed returns the number of cells the fill modified.
func (c *BucketFill) Changed() int { return len(c.changes) }

func apply(m *tilemap.Map, seq Sequence) {
	for p, id := range seq {
		_, _ = m.SetTile(p, id)
	}
}
