package history

// ID identifies a kind of command. Two commands with the same ID are of the
// same concrete type and may be candidates for merging.
type ID uint32

// Command represents a reversible edit owned by a Stack.
type Command interface {
	// Undo reverts the effects of the most recent Redo.
	Undo()

	// Redo applies the command. The stack calls it once when the command is
	// pushed and again on every redo, never twice without an Undo between.
	Redo()

	// ID returns the identifier of the command's kind.
	ID() ID

	// Text returns a human-readable description, e.g. "Add Row".
	Text() string
}

// Merger is implemented by commands that can absorb a later command of the
// same kind.
//
// MergeWith is only called on the command at the top of the stack, after
// other has already been applied. When it returns true the receiver must
// represent the combined effect of itself followed by other, and other is
// discarded.
type Merger interface {
	MergeWith(other Command) bool
}

// tryMerge merges cmd into top if both are of the same kind and top accepts.
func tryMerge(top, cmd Command) bool {
	if top.ID() != cmd.ID() {
		return false
	}
	m, ok := top.(Merger)
	if !ok {
		return false
	}
	return m.MergeWith(cmd)
}
