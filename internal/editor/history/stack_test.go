package history

import (
	"errors"
	"testing"
)

const (
	cmd1ID ID = 1
	cmd2ID ID = 2
	sumID  ID = 3
)

// recorder counts how often a command was applied and reverted.
type recorder struct {
	id     ID
	text   string
	redos  int
	undos  int
	events *[]string
}

func (c *recorder) Undo() {
	c.undos++
	if c.events != nil {
		*c.events = append(*c.events, "undo "+c.text)
	}
}

func (c *recorder) Redo() {
	c.redos++
	if c.events != nil {
		*c.events = append(*c.events, "redo "+c.text)
	}
}

func (c *recorder) ID() ID       { return c.id }
func (c *recorder) Text() string { return c.text }

func c1() *recorder { return &recorder{id: cmd1ID, text: "C1"} }
func c2() *recorder { return &recorder{id: cmd2ID, text: "C2"} }

// addCmd adds delta to a shared total and merges with other addCmds.
type addCmd struct {
	total *int
	delta int
}

func (c *addCmd) Undo()        { *c.total -= c.delta }
func (c *addCmd) Redo()        { *c.total += c.delta }
func (c *addCmd) ID() ID       { return sumID }
func (c *addCmd) Text() string { return "Add" }

func (c *addCmd) MergeWith(other Command) bool {
	o, ok := other.(*addCmd)
	if !ok || o.total != c.total {
		return false
	}
	c.delta += o.delta
	return true
}

type expectState struct {
	size    int
	index   Position
	clean   Position
	canUndo bool
	canRedo bool
}

func checkState(t *testing.T, s *Stack, want expectState) {
	t.Helper()

	if got := s.Size(); got != want.size {
		t.Errorf("Size() = %d, want %d", got, want.size)
	}
	if got := s.Index(); got != want.index {
		t.Errorf("Index() = %v, want %v", got, want.index)
	}
	if got := s.CleanIndex(); got != want.clean {
		t.Errorf("CleanIndex() = %v, want %v", got, want.clean)
	}
	if got := s.CanUndo(); got != want.canUndo {
		t.Errorf("CanUndo() = %v, want %v", got, want.canUndo)
	}
	if got := s.CanRedo(); got != want.canRedo {
		t.Errorf("CanRedo() = %v, want %v", got, want.canRedo)
	}
}

func mustUndo(t *testing.T, s *Stack) {
	t.Helper()
	if err := s.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
}

func mustRedo(t *testing.T, s *Stack) {
	t.Helper()
	if err := s.Redo(); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
}

func TestNewStack(t *testing.T) {
	s := NewStack(64)

	if s.Capacity() != 64 {
		t.Errorf("Capacity() = %d, want 64", s.Capacity())
	}
	if !s.IsClean() {
		t.Error("new stack should be clean")
	}
	checkState(t, s, expectState{index: None, clean: None})
}

func TestNewStackNegativeCapacity(t *testing.T) {
	s := NewStack(-5)
	if s.Capacity() != 0 {
		t.Errorf("Capacity() = %d, want 0", s.Capacity())
	}
}

func TestStackMixedUsage(t *testing.T) {
	s := NewStack(64)

	// [] -push-> [ current:C1 ]
	s.Push(c1())
	checkState(t, s, expectState{size: 1, index: At(0), clean: None, canUndo: true})

	// [ current:C1 ] -push-> [ C1, current:C2 ]
	s.Push(c2())
	checkState(t, s, expectState{size: 2, index: At(1), clean: None, canUndo: true})

	// -undo-> [ current:C1, C2 ]
	mustUndo(t, s)
	checkState(t, s, expectState{size: 2, index: At(0), clean: None, canUndo: true, canRedo: true})

	// -undo-> [ C1, C2 ]
	mustUndo(t, s)
	checkState(t, s, expectState{size: 2, index: None, clean: None, canRedo: true})

	// -redo-> [ current:C1, C2 ]
	mustRedo(t, s)
	checkState(t, s, expectState{size: 2, index: At(0), clean: None, canUndo: true, canRedo: true})

	// -redo-> [ C1, current:C2 ]
	mustRedo(t, s)
	checkState(t, s, expectState{size: 2, index: At(1), clean: None, canUndo: true})

	// -push-> [ C1, C2, current:C1 ]
	s.Push(c1())
	checkState(t, s, expectState{size: 3, index: At(2), clean: None, canUndo: true})

	// -undo x3-> [ C1, C2, C1 ]
	mustUndo(t, s)
	mustUndo(t, s)
	mustUndo(t, s)
	checkState(t, s, expectState{size: 3, index: None, clean: None, canRedo: true})

	// -push-> [ current:C2 ]
	s.Push(c2())
	checkState(t, s, expectState{size: 1, index: At(0), clean: None, canUndo: true})

	if s.Capacity() != 64 {
		t.Errorf("Capacity() = %d, want 64", s.Capacity())
	}
}

func TestStackCleanIndexManagement(t *testing.T) {
	s := NewStack(32)

	// No-op on an empty stack.
	s.MarkAsClean()
	if s.CleanIndex() != None || !s.IsClean() {
		t.Fatalf("empty stack: CleanIndex() = %v, IsClean() = %v", s.CleanIndex(), s.IsClean())
	}

	s.Push(c1())
	if s.IsClean() {
		t.Error("push should make the stack dirty")
	}

	// No clean index is set, but the cursor is back at none.
	mustUndo(t, s)
	if !s.IsClean() {
		t.Error("undo back to none should be clean")
	}

	s.Push(c1())
	s.Push(c2())
	if s.IsClean() {
		t.Error("expected dirty stack")
	}

	s.MarkAsClean()
	if s.CleanIndex() != At(1) || !s.IsClean() {
		t.Errorf("after MarkAsClean: CleanIndex() = %v, IsClean() = %v", s.CleanIndex(), s.IsClean())
	}

	mustUndo(t, s)
	if s.Index() != At(0) || s.CleanIndex() != At(1) || s.IsClean() {
		t.Errorf("after undo: Index() = %v, CleanIndex() = %v, IsClean() = %v", s.Index(), s.CleanIndex(), s.IsClean())
	}

	mustRedo(t, s)
	if s.Index() != At(1) || !s.IsClean() {
		t.Errorf("after redo: Index() = %v, IsClean() = %v", s.Index(), s.IsClean())
	}

	// Pushing over the clean entry invalidates it.
	mustUndo(t, s)
	s.Push(c1())
	checkState(t, s, expectState{size: 2, index: At(1), clean: None, canUndo: true})
	if s.IsClean() {
		t.Error("expected dirty stack after truncating the clean entry")
	}

	s.MarkAsClean()
	if s.CleanIndex() != At(1) || !s.IsClean() {
		t.Errorf("CleanIndex() = %v, want 1", s.CleanIndex())
	}

	s.ResetCleanIndex()
	if s.CleanIndex() != None || s.IsClean() {
		t.Errorf("after reset: CleanIndex() = %v, IsClean() = %v", s.CleanIndex(), s.IsClean())
	}
}

func TestStackOverflowWithCleanIndex(t *testing.T) {
	s := NewStack(4)

	s.Push(c1())
	s.Push(c2())
	s.MarkAsClean()
	s.Push(c1())
	s.Push(c2())

	if s.Size() != s.Capacity() {
		t.Fatalf("Size() = %d, want %d", s.Size(), s.Capacity())
	}
	if s.CleanIndex() != At(1) || s.Index() != At(3) || s.IsClean() {
		t.Fatalf("CleanIndex() = %v, Index() = %v", s.CleanIndex(), s.Index())
	}

	// [ C1, clean:C2, C1, current:C2 ] -push-> [ clean:C2, C1, C2, current:C1 ]
	s.Push(c1())
	if s.Size() != 4 || s.CleanIndex() != At(0) || s.Index() != At(3) || s.IsClean() {
		t.Errorf("after first eviction: Size() = %d, CleanIndex() = %v, Index() = %v",
			s.Size(), s.CleanIndex(), s.Index())
	}
	want := []string{"C2", "C1", "C2", "C1"}
	for i, text := range s.Texts() {
		if text != want[i] {
			t.Errorf("Texts()[%d] = %q, want %q", i, text, want[i])
		}
	}

	// The clean entry is evicted.
	s.Push(c2())
	if s.Size() != 4 || s.CleanIndex() != None || s.Index() != At(3) || s.IsClean() {
		t.Errorf("after second eviction: Size() = %d, CleanIndex() = %v, Index() = %v",
			s.Size(), s.CleanIndex(), s.Index())
	}
}

func TestStackSimpleOverflow(t *testing.T) {
	s := NewStack(100)

	for i := 0; i < s.Capacity()+10; i++ {
		s.Push(c1())
	}

	if s.Size() != s.Capacity() {
		t.Errorf("Size() = %d, want %d", s.Size(), s.Capacity())
	}
	if s.Index() != At(s.Capacity()-1) {
		t.Errorf("Index() = %v, want %d", s.Index(), s.Capacity()-1)
	}
}

func TestStackEvictionReleasesOldest(t *testing.T) {
	s := NewStack(2)
	first := c1()
	s.Push(first)
	s.Push(c2())
	s.Push(c1())

	got := s.Texts()
	if len(got) != 2 || got[0] != "C2" || got[1] != "C1" {
		t.Errorf("Texts() = %v, want [C2 C1]", got)
	}
	if first.undos != 0 {
		t.Error("evicted command must not be undone")
	}
}

func TestStackSetCapacity(t *testing.T) {
	s := NewStack(50)
	for i := 0; i < s.Capacity(); i++ {
		s.Push(c1())
	}

	s.SetCapacity(20)
	if s.Size() != 20 || s.Capacity() != 20 {
		t.Errorf("Size() = %d, Capacity() = %d, want 20, 20", s.Size(), s.Capacity())
	}
	if s.Index() != At(19) {
		t.Errorf("Index() = %v, want 19", s.Index())
	}

	s.SetCapacity(25)
	if s.Size() != 20 || s.Capacity() != 25 {
		t.Errorf("Size() = %d, Capacity() = %d, want 20, 25", s.Size(), s.Capacity())
	}
}

func TestStackSetCapacityShiftsCleanIndex(t *testing.T) {
	s := NewStack(10)
	for i := 0; i < 6; i++ {
		s.Push(c1())
	}
	mustUndo(t, s)
	mustUndo(t, s)
	s.MarkAsClean() // clean = cursor = 3

	s.SetCapacity(3)
	checkState(t, s, expectState{size: 3, index: At(0), clean: At(0), canUndo: true, canRedo: true})
	if !s.IsClean() {
		t.Error("expected clean stack")
	}

	s.SetCapacity(2)
	checkState(t, s, expectState{size: 2, index: None, clean: None, canRedo: true})
	if !s.IsClean() {
		t.Error("none == none should be clean")
	}
}

func TestStackZeroCapacity(t *testing.T) {
	s := NewStack(3)
	s.Push(c1())
	s.Push(c1())

	s.SetCapacity(0)
	checkState(t, s, expectState{size: 0, index: None, clean: None})

	cmd := c2()
	s.Push(cmd)
	if cmd.redos != 1 {
		t.Errorf("command applied %d times, want 1", cmd.redos)
	}
	checkState(t, s, expectState{size: 0, index: None, clean: None})
}

func TestStackPushAppliesOnce(t *testing.T) {
	s := NewStack(8)
	cmd := c1()

	s.Push(cmd)
	mustUndo(t, s)
	mustRedo(t, s)

	if cmd.redos != 2 || cmd.undos != 1 {
		t.Errorf("redos = %d, undos = %d, want 2, 1", cmd.redos, cmd.undos)
	}
}

func TestStackStoreDoesNotApply(t *testing.T) {
	s := NewStack(8)
	cmd := c1()

	s.Store(cmd)
	if cmd.redos != 0 {
		t.Errorf("Store applied the command %d times", cmd.redos)
	}
	checkState(t, s, expectState{size: 1, index: At(0), clean: None, canUndo: true})

	mustUndo(t, s)
	mustRedo(t, s)
	if cmd.redos != 1 || cmd.undos != 1 {
		t.Errorf("redos = %d, undos = %d, want 1, 1", cmd.redos, cmd.undos)
	}
}

func TestStackUndoRedoOrder(t *testing.T) {
	var events []string
	s := NewStack(8)
	s.Push(&recorder{id: cmd1ID, text: "a", events: &events})
	s.Push(&recorder{id: cmd1ID, text: "b", events: &events})
	mustUndo(t, s)
	mustUndo(t, s)
	mustRedo(t, s)

	want := []string{"redo a", "redo b", "undo b", "undo a", "redo a"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, events[i], want[i])
		}
	}
}

func TestStackBranchTruncation(t *testing.T) {
	s := NewStack(8)
	a := &recorder{id: cmd1ID, text: "A"}
	b := &recorder{id: cmd1ID, text: "B"}
	c := &recorder{id: cmd1ID, text: "C"}

	s.Push(a)
	s.Push(b)
	mustUndo(t, s)
	s.Push(c)

	got := s.Texts()
	if len(got) != 2 || got[0] != "A" || got[1] != "C" {
		t.Errorf("Texts() = %v, want [A C]", got)
	}
	if s.Index() != At(1) {
		t.Errorf("Index() = %v, want 1", s.Index())
	}
}

func TestStackErrors(t *testing.T) {
	s := NewStack(4)

	if err := s.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo() error = %v, want ErrNothingToUndo", err)
	}
	if err := s.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo() error = %v, want ErrNothingToRedo", err)
	}
	if _, err := s.UndoText(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("UndoText() error = %v, want ErrNothingToUndo", err)
	}
	if _, err := s.RedoText(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("RedoText() error = %v, want ErrNothingToRedo", err)
	}

	s.Push(c1())
	if err := s.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo() error = %v, want ErrNothingToRedo", err)
	}
	checkState(t, s, expectState{size: 1, index: At(0), clean: None, canUndo: true})
}

func TestStackTexts(t *testing.T) {
	s := NewStack(4)
	s.Push(c1())
	s.Push(c2())

	if text, err := s.UndoText(); err != nil || text != "C2" {
		t.Errorf("UndoText() = %q, %v, want C2", text, err)
	}

	mustUndo(t, s)
	if text, err := s.UndoText(); err != nil || text != "C1" {
		t.Errorf("UndoText() = %q, %v, want C1", text, err)
	}
	if text, err := s.RedoText(); err != nil || text != "C2" {
		t.Errorf("RedoText() = %q, %v, want C2", text, err)
	}

	mustUndo(t, s)
	if text, err := s.RedoText(); err != nil || text != "C1" {
		t.Errorf("RedoText() = %q, %v, want C1", text, err)
	}
}

func TestStackMerge(t *testing.T) {
	total := 0
	s := NewStack(8)

	s.Push(&addCmd{total: &total, delta: 1})
	s.MarkAsClean()
	s.Push(&addCmd{total: &total, delta: 2})
	s.Push(&addCmd{total: &total, delta: 3})

	if total != 6 {
		t.Errorf("total = %d, want 6", total)
	}
	checkState(t, s, expectState{size: 1, index: At(0), clean: None, canUndo: true})
	if s.IsClean() {
		t.Error("merging into the clean entry should invalidate it")
	}

	mustUndo(t, s)
	if total != 0 {
		t.Errorf("total after undo = %d, want 0", total)
	}

	mustRedo(t, s)
	if total != 6 {
		t.Errorf("total after redo = %d, want 6", total)
	}
}

func TestStackMergeInvalidatesEarlierCleanIndex(t *testing.T) {
	total := 0
	s := NewStack(8)

	s.Push(c1())
	s.MarkAsClean()
	s.Push(&addCmd{total: &total, delta: 1})
	s.Push(&addCmd{total: &total, delta: 2})

	checkState(t, s, expectState{size: 2, index: At(1), clean: None, canUndo: true})

	mustUndo(t, s)
	if s.IsClean() {
		t.Error("undoing back to the saved entry after a merge should not be clean")
	}
	if total != 0 {
		t.Errorf("total after undo = %d, want 0", total)
	}
}

func TestStackMergeAtCapacity(t *testing.T) {
	total := 0
	s := NewStack(2)

	s.Push(&addCmd{total: &total, delta: 1})
	s.Push(c1())
	s.Push(&addCmd{total: &total, delta: 1})

	// Full: C1 is evicted before the add merges into the top entry, so the
	// stack ends at capacity-1.
	s.Push(&addCmd{total: &total, delta: 1})

	checkState(t, s, expectState{size: 1, index: At(0), clean: None, canUndo: true})
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}

	mustUndo(t, s)
	if total != 1 {
		t.Errorf("total after undo = %d, want 1", total)
	}
	checkState(t, s, expectState{size: 1, index: None, clean: None, canRedo: true})
}

func TestStackMergeRequiresSameID(t *testing.T) {
	total := 0
	s := NewStack(8)

	s.Push(&addCmd{total: &total, delta: 1})
	s.Push(c1())
	s.Push(&addCmd{total: &total, delta: 1})

	if s.Size() != 3 {
		t.Errorf("Size() = %d, want 3", s.Size())
	}
}

func TestStackMergeAfterUndoUsesCursorEntry(t *testing.T) {
	total := 0
	s := NewStack(8)

	s.Push(&addCmd{total: &total, delta: 1})
	s.Push(c1())
	mustUndo(t, s)

	// C1 is truncated, so the add merges into the first entry.
	s.Push(&addCmd{total: &total, delta: 4})
	if s.Size() != 1 || total != 5 {
		t.Errorf("Size() = %d, total = %d, want 1, 5", s.Size(), total)
	}
}

func TestStackNoMergeIntoEmptyStack(t *testing.T) {
	total := 0
	s := NewStack(8)

	s.Push(&addCmd{total: &total, delta: 1})
	mustUndo(t, s)
	s.Push(&addCmd{total: &total, delta: 2})

	checkState(t, s, expectState{size: 1, index: At(0), clean: None, canUndo: true})
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
}

func TestStackClear(t *testing.T) {
	s := NewStack(16)
	s.Push(c1())
	s.Push(c2())
	s.MarkAsClean()

	s.Clear()
	checkState(t, s, expectState{index: None, clean: None})
	if s.Capacity() != 16 {
		t.Errorf("Capacity() = %d, want 16", s.Capacity())
	}
	if !s.IsClean() {
		t.Error("cleared stack should be clean")
	}
}

func TestStackObserver(t *testing.T) {
	s := NewStack(4)

	var states []State
	s.SetObserver(func(st State) { states = append(states, st) })

	s.Push(c1())
	s.MarkAsClean()
	mustUndo(t, s)

	if len(states) != 3 {
		t.Fatalf("observer called %d times, want 3", len(states))
	}

	last := states[2]
	if last.CanUndo || !last.CanRedo || last.Clean {
		t.Errorf("last state = %+v", last)
	}
	if last.RedoText != "C1" || last.UndoText != "" {
		t.Errorf("UndoText = %q, RedoText = %q", last.UndoText, last.RedoText)
	}
	if !states[1].Clean {
		t.Error("state after MarkAsClean should be clean")
	}

	s.SetObserver(nil)
	s.Push(c2())
	if len(states) != 3 {
		t.Error("removed observer was called")
	}
}
