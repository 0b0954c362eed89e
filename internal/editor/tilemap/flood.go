package tilemap

import "fmt"

// Change records the previous tile of a modified cell.
type Change struct {
	Pos Pos
	Old TileID
}

// Flood replaces the 4-connected region of equal tiles around origin with
// replacement and returns the changed cells.
func (m *Map) Flood(origin Pos, replacement TileID) ([]Change, error) {
	target, err := m.Tile(origin)
	if err != nil {
		return nil, fmt.Errorf("flood: %w", err)
	}
	if target == replacement {
		return nil, nil
	}

	var changes []Change
	queue := []Pos{origin}
	m.tiles[origin.Row][origin.Col] = replacement
	changes = append(changes, Change{Pos: origin, Old: target})

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		for _, n := range [...]Pos{
			{p.Row - 1, p.Col},
			{p.Row + 1, p.Col},
			{p.Row, p.Col - 1},
			{p.Row, p.Col + 1},
		} {
			if !m.Contains(n) || m.tiles[n.Row][n.Col] != target {
				continue
			}
			m.tiles[n.Row][n.Col] = replacement
			changes = append(changes, Change{Pos: n, Old: target})
			queue = append(queue, n)
		}
	}

	return changes, nil
}

// Apply sets every cell in changes to id. Positions outside the map are skipped.
func (m *Map) Apply(changes []Change, id TileID) {
	for _, c := range changes {
		if m.Contains(c.Pos) {
			m.tiles[c.Pos.Row][c.Pos.Col] = id
		}
	}
}

// Revert restores the old tile of every cell in changes, last change first.
func (m *Map) Revert(changes []Change) {
	for i := len(changes) - 1; i >= 0; i-- {
		c := changes[i]
		if m.Contains(c.Pos) {
			m.tiles[c.Pos.Row][c.Pos.Col] = c.Old
		}
	}
}
