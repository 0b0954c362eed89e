package history

import "slices"

// DefaultCapacity is the number of entries kept when no capacity is configured.
const DefaultCapacity = 100

// State is a snapshot of the observable stack state.
// Used to refresh menu items and window titles.
type State struct {
	CanUndo    bool
	CanRedo    bool
	Clean      bool
	UndoText   string
	RedoText   string
	Size       int
	Capacity   int
	Index      Position
	CleanIndex Position
}

// Observer is called with the new state after every stack mutation.
type Observer func(State)

// Stack is a bounded undo/redo history of commands.
type Stack struct {
	entries  []Command
	capacity int

	// cursor is the most recently applied entry; None when nothing is applied.
	cursor Position
	// clean is the position that corresponds to the saved document.
	clean Position

	// Grouping state
	grouping  bool
	groupName string
	groupCmds []Command

	observer Observer
}

// NewStack creates a stack that keeps at most capacity entries.
// A negative capacity is treated as zero.
func NewStack(capacity int) *Stack {
	return &Stack{capacity: max(capacity, 0)}
}

// SetObserver installs fn to be called after every mutation.
// Passing nil removes the observer.
func (s *Stack) SetObserver(fn Observer) {
	s.observer = fn
}

// Push applies cmd by calling its Redo method and records it.
//
// Entries after the cursor are discarded first. If the top entry has the same
// ID and merges cmd, cmd is dropped and the clean index is reset. With a
// capacity of zero the command is applied but not recorded.
func (s *Stack) Push(cmd Command) {
	s.push(cmd, true)
}

// Store records cmd without applying it. Used for edits whose effect was
// already produced interactively, such as a stamp stroke.
func (s *Stack) Store(cmd Command) {
	s.push(cmd, false)
}

func (s *Stack) push(cmd Command, apply bool) {
	if s.grouping {
		if apply {
			cmd.Redo()
		}
		s.groupCmds = append(s.groupCmds, cmd)
		return
	}

	s.record(cmd, apply)
	s.notify()
}

// record performs the eviction, truncation and merge bookkeeping of a push.
func (s *Stack) record(cmd Command, apply bool) {
	if len(s.entries) >= s.capacity {
		s.evictTo(max(s.capacity-1, 0))
	}

	s.truncate()

	if apply {
		cmd.Redo()
	}

	if s.capacity == 0 {
		return
	}

	if n := len(s.entries); n > 0 && tryMerge(s.entries[n-1], cmd) {
		s.clean = None
		return
	}

	s.entries = append(s.entries, cmd)
	s.cursor = At(len(s.entries) - 1)
}

// evictTo removes the oldest entries until at most n remain.
func (s *Stack) evictTo(n int) {
	for len(s.entries) > n {
		s.entries = slices.Delete(s.entries, 0, 1)
		s.cursor = s.cursor.shifted()
		s.clean = s.clean.shifted()
	}
}

// truncate discards the redo branch.
func (s *Stack) truncate() {
	from := s.cursor.next()
	if from >= len(s.entries) {
		return
	}
	if s.clean.atOrAfter(from) {
		s.clean = None
	}
	s.entries = slices.Delete(s.entries, from, len(s.entries))
}

// Undo reverts the command at the cursor and moves the cursor back.
// Returns ErrNothingToUndo if CanUndo is false.
func (s *Stack) Undo() error {
	i, ok := s.cursor.Get()
	if !ok {
		return ErrNothingToUndo
	}

	s.entries[i].Undo()
	s.cursor = s.cursor.prev()
	s.notify()
	return nil
}

// Redo re-applies the command after the cursor and advances the cursor.
// Returns ErrNothingToRedo if CanRedo is false.
func (s *Stack) Redo() error {
	next := s.cursor.next()
	if next >= len(s.entries) {
		return ErrNothingToRedo
	}

	s.entries[next].Redo()
	s.cursor = At(next)
	s.notify()
	return nil
}

// CanUndo returns true if undo is available.
func (s *Stack) CanUndo() bool {
	return !s.cursor.IsNone()
}

// CanRedo returns true if redo is available.
func (s *Stack) CanRedo() bool {
	return s.cursor.next() < len(s.entries)
}

// MarkAsClean records the current position as the saved state.
func (s *Stack) MarkAsClean() {
	s.clean = s.cursor
	s.notify()
}

// ResetCleanIndex forgets the saved state.
func (s *Stack) ResetCleanIndex() {
	s.clean = None
	s.notify()
}

// IsClean reports whether the cursor is at the saved position.
func (s *Stack) IsClean() bool {
	return s.clean == s.cursor
}

// SetCapacity changes the maximum number of entries.
// If the stack is larger, the oldest entries are evicted.
func (s *Stack) SetCapacity(capacity int) {
	s.capacity = max(capacity, 0)
	s.evictTo(s.capacity)
	s.notify()
}

// Clear removes all entries and the clean marker. Capacity is unchanged.
func (s *Stack) Clear() {
	s.entries = nil
	s.cursor = None
	s.clean = None
	s.grouping = false
	s.groupName = ""
	s.groupCmds = nil
	s.notify()
}

// Size returns the number of recorded entries.
func (s *Stack) Size() int {
	return len(s.entries)
}

// Capacity returns the maximum number of entries.
func (s *Stack) Capacity() int {
	return s.capacity
}

// Index returns the cursor.
func (s *Stack) Index() Position {
	return s.cursor
}

// CleanIndex returns the saved position.
func (s *Stack) CleanIndex() Position {
	return s.clean
}

// UndoText returns the text of the command that Undo would revert.
func (s *Stack) UndoText() (string, error) {
	i, ok := s.cursor.Get()
	if !ok {
		return "", ErrNothingToUndo
	}
	return s.entries[i].Text(), nil
}

// RedoText returns the text of the command that Redo would apply.
func (s *Stack) RedoText() (string, error) {
	next := s.cursor.next()
	if next >= len(s.entries) {
		return "", ErrNothingToRedo
	}
	return s.entries[next].Text(), nil
}

// Texts returns the text of every entry, oldest first.
func (s *Stack) Texts() []string {
	result := make([]string, len(s.entries))
	for i, cmd := range s.entries {
		result[i] = cmd.Text()
	}
	return result
}

// State returns a snapshot of the current state.
func (s *Stack) State() State {
	st := State{
		CanUndo:    s.CanUndo(),
		CanRedo:    s.CanRedo(),
		Clean:      s.IsClean(),
		Size:       len(s.entries),
		Capacity:   s.capacity,
		Index:      s.cursor,
		CleanIndex: s.clean,
	}
	st.UndoText, _ = s.UndoText()
	st.RedoText, _ = s.RedoText()
	return st
}

func (s *Stack) notify() {
	if s.observer != nil {
		s.observer(s.State())
	}
}
