// Package tilemap provides the tile grid model edited through map documents.
package tilemap

import (
	"fmt"
	"maps"
	"slices"
)

// TileID identifies a tile. Empty marks a cell without a tile.
type TileID int32

// Empty is the tile ID of an unpainted cell.
const Empty TileID = 0

// Default tile dimensions in pixels.
const (
	DefaultTileWidth  = 32
	DefaultTileHeight = 32
)

// Pos is a cell position.
type Pos struct {
	Row int
	Col int
}

// String returns the position as "(row, col)".
func (p Pos) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Map is a single-layer grid of tiles with named string properties.
//
// Map is not safe for concurrent use.
type Map struct {
	name       string
	tiles      [][]TileID
	cols       int
	tileWidth  int
	tileHeight int
	props      map[string]string
}

// New creates an empty map with the given dimensions.
func New(rows, cols int) (*Map, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, rows, cols)
	}

	m := &Map{
		cols:       cols,
		tileWidth:  DefaultTileWidth,
		tileHeight: DefaultTileHeight,
		props:      make(map[string]string),
	}
	m.tiles = make([][]TileID, rows)
	for r := range m.tiles {
		m.tiles[r] = make([]TileID, cols)
	}
	return m, nil
}

// FromTiles creates a map from a rectangular grid. The grid is copied.
func FromTiles(tiles [][]TileID) (*Map, error) {
	if len(tiles) == 0 || len(tiles[0]) == 0 {
		return nil, ErrInvalidSize
	}

	cols := len(tiles[0])
	for r, row := range tiles {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidSize, r, len(row), cols)
		}
	}

	m, err := New(len(tiles), cols)
	if err != nil {
		return nil, err
	}
	for r, row := range tiles {
		copy(m.tiles[r], row)
	}
	return m, nil
}

// Name returns the map name.
func (m *Map) Name() string {
	return m.name
}

// SetName changes the map name.
func (m *Map) SetName(name string) {
	m.name = name
}

// Rows returns the number of rows.
func (m *Map) Rows() int {
	return len(m.tiles)
}

// Columns returns the number of columns.
func (m *Map) Columns() int {
	return m.cols
}

// TileSize returns the tile width and height in pixels.
func (m *Map) TileSize() (int, int) {
	return m.tileWidth, m.tileHeight
}

// SetTileSize changes the tile dimensions. Non-positive values are ignored.
func (m *Map) SetTileSize(width, height int) {
	if width > 0 {
		m.tileWidth = width
	}
	if height > 0 {
		m.tileHeight = height
	}
}

// Contains reports whether p is inside the map.
func (m *Map) Contains(p Pos) bool {
	return p.Row >= 0 && p.Row < len(m.tiles) && p.Col >= 0 && p.Col < m.cols
}

// Tile returns the tile at p.
func (m *Map) Tile(p Pos) (TileID, error) {
	if !m.Contains(p) {
		return Empty, fmt.Errorf("%w: %v", ErrOutOfBounds, p)
	}
	return m.tiles[p.Row][p.Col], nil
}

// SetTile sets the tile at p and returns the previous tile.
func (m *Map) SetTile(p Pos, id TileID) (TileID, error) {
	if !m.Contains(p) {
		return Empty, fmt.Errorf("%w: %v", ErrOutOfBounds, p)
	}
	old := m.tiles[p.Row][p.Col]
	m.tiles[p.Row][p.Col] = id
	return old, nil
}

// Tiles returns a copy of the grid.
func (m *Map) Tiles() [][]TileID {
	out := make([][]TileID, len(m.tiles))
	for r, row := range m.tiles {
		out[r] = slices.Clone(row)
	}
	return out
}

// AddRow appends an empty row at the bottom.
func (m *Map) AddRow() {
	m.tiles = append(m.tiles, make([]TileID, m.cols))
}

// AddColumn appends an empty column on the right.
func (m *Map) AddColumn() {
	for r := range m.tiles {
		m.tiles[r] = append(m.tiles[r], Empty)
	}
	m.cols++
}

// RemoveRow removes the bottom row and returns its tiles.
func (m *Map) RemoveRow() ([]TileID, error) {
	if len(m.tiles) <= 1 {
		return nil, ErrLastRow
	}
	last := m.tiles[len(m.tiles)-1]
	m.tiles = m.tiles[:len(m.tiles)-1]
	return last, nil
}

// RemoveColumn removes the rightmost column and returns its tiles, top to bottom.
func (m *Map) RemoveColumn() ([]TileID, error) {
	if m.cols <= 1 {
		return nil, ErrLastColumn
	}
	removed := make([]TileID, len(m.tiles))
	for r, row := range m.tiles {
		removed[r] = row[m.cols-1]
		m.tiles[r] = row[:m.cols-1]
	}
	m.cols--
	return removed, nil
}

// RestoreRow appends a row with the given tiles. Used to undo RemoveRow.
func (m *Map) RestoreRow(tiles []TileID) {
	row := make([]TileID, m.cols)
	copy(row, tiles)
	m.tiles = append(m.tiles, row)
}

// RestoreColumn appends a column with the given tiles. Used to undo RemoveColumn.
func (m *Map) RestoreColumn(tiles []TileID) {
	for r := range m.tiles {
		var id TileID
		if r < len(tiles) {
			id = tiles[r]
		}
		m.tiles[r] = append(m.tiles[r], id)
	}
	m.cols++
}

// Resize changes the dimensions, keeping the top-left tiles.
func (m *Map) Resize(rows, cols int) error {
	if rows < 1 || cols < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, rows, cols)
	}

	tiles := make([][]TileID, rows)
	for r := range tiles {
		tiles[r] = make([]TileID, cols)
		if r < len(m.tiles) {
			copy(tiles[r], m.tiles[r])
		}
	}
	m.tiles = tiles
	m.cols = cols
	return nil
}

// Restore replaces the whole grid with a copy of tiles.
func (m *Map) Restore(tiles [][]TileID) error {
	other, err := FromTiles(tiles)
	if err != nil {
		return err
	}
	m.tiles = other.tiles
	m.cols = other.cols
	return nil
}

// Property returns the value of a property.
func (m *Map) Property(name string) (string, bool) {
	v, ok := m.props[name]
	return v, ok
}

// SetProperty sets a property value.
func (m *Map) SetProperty(name, value string) error {
	if name == "" {
		return ErrEmptyPropertyName
	}
	m.props[name] = value
	return nil
}

// RemoveProperty deletes a property.
func (m *Map) RemoveProperty(name string) {
	delete(m.props, name)
}

// Properties returns a copy of all properties.
func (m *Map) Properties() map[string]string {
	return maps.Clone(m.props)
}
