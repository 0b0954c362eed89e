package history

import "strconv"

// Position is an optional index into a Stack. The zero value is None.
//
// Positions are comparable with ==, and None equals None.
type Position struct {
	index int
	valid bool
}

// None is the position before the first entry.
var None = Position{}

// At returns the position of the entry at index i.
func At(i int) Position {
	if i < 0 {
		return None
	}
	return Position{index: i, valid: true}
}

// Get returns the index and whether the position refers to an entry.
func (p Position) Get() (int, bool) {
	return p.index, p.valid
}

// IsNone reports whether the position refers to no entry.
func (p Position) IsNone() bool {
	return !p.valid
}

// String returns the index, or "none".
func (p Position) String() string {
	if !p.valid {
		return "none"
	}
	return strconv.Itoa(p.index)
}

// next returns the index that follows p; 0 for None.
func (p Position) next() int {
	if !p.valid {
		return 0
	}
	return p.index + 1
}

// prev returns the position before p. Index 0 steps back to None.
func (p Position) prev() Position {
	if !p.valid || p.index == 0 {
		return None
	}
	return At(p.index - 1)
}

// shifted returns p as seen after the entry at index 0 has been removed.
func (p Position) shifted() Position {
	return p.prev()
}

// atOrAfter reports whether p refers to an index >= i.
func (p Position) atOrAfter(i int) bool {
	return p.valid && p.index >= i
}
