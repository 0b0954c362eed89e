package history

import "fmt"

// GroupID is the ID of commands created by EndGroup.
const GroupID ID = 0xFFFF_FFFF

// Group is a sequence of commands undone and redone as one unit.
type Group struct {
	Name     string
	Commands []Command
}

// NewGroup creates a new group command.
func NewGroup(name string, commands ...Command) *Group {
	return &Group{
		Name:     name,
		Commands: commands,
	}
}

// Redo applies all commands in order.
func (g *Group) Redo() {
	for _, cmd := range g.Commands {
		cmd.Redo()
	}
}

// Undo reverts all commands in reverse order.
func (g *Group) Undo() {
	for i := len(g.Commands) - 1; i >= 0; i-- {
		g.Commands[i].Undo()
	}
}

// ID returns GroupID. Groups never merge.
func (g *Group) ID() ID {
	return GroupID
}

// Text returns the group's name.
func (g *Group) Text() string {
	if g.Name != "" {
		return g.Name
	}
	if len(g.Commands) == 1 {
		return g.Commands[0].Text()
	}
	return fmt.Sprintf("%d operations", len(g.Commands))
}

// BeginGroup starts a command group.
// Commands pushed while grouping are applied immediately and recorded as a
// single undo unit by EndGroup. Nested calls are ignored.
func (s *Stack) BeginGroup(name string) {
	if s.grouping {
		return
	}

	s.grouping = true
	s.groupName = name
	s.groupCmds = nil
}

// EndGroup records all commands since BeginGroup as one entry.
// An empty group records nothing.
func (s *Stack) EndGroup() error {
	if !s.grouping {
		return ErrNotGrouping
	}

	cmds := s.groupCmds
	name := s.groupName
	s.grouping = false
	s.groupName = ""
	s.groupCmds = nil

	if len(cmds) == 0 {
		return nil
	}

	s.record(NewGroup(name, cmds...), false)
	s.notify()
	return nil
}

// CancelGroup reverts every command pushed since BeginGroup and discards
// them without touching the history.
func (s *Stack) CancelGroup() error {
	if !s.grouping {
		return ErrNotGrouping
	}

	for i := len(s.groupCmds) - 1; i >= 0; i-- {
		s.groupCmds[i].Undo()
	}

	s.grouping = false
	s.groupName = ""
	s.groupCmds = nil
	return nil
}

// IsGrouping returns true if a command group is in progress.
func (s *Stack) IsGrouping() bool {
	return s.grouping
}

// GroupScope closes a command group exactly once. Use with defer:
//
//	scope := s.GroupScope("Paste")
//	defer scope.Cancel()
//	// ... pushes ...
//	return scope.End()
type GroupScope struct {
	stack  *Stack
	active bool
}

// GroupScope starts a group and returns its scope. Inside an existing
// group the scope is inert and pushes join the outer group.
func (s *Stack) GroupScope(name string) *GroupScope {
	if s.grouping {
		return &GroupScope{stack: s}
	}
	s.BeginGroup(name)
	return &GroupScope{stack: s, active: true}
}

// End records the group. Only the first End or Cancel has effect.
func (g *GroupScope) End() error {
	if !g.active {
		return nil
	}
	g.active = false
	return g.stack.EndGroup()
}

// Cancel reverts the group's commands. Only the first End or Cancel has
// effect.
func (g *GroupScope) Cancel() error {
	if !g.active {
		return nil
	}
	g.active = false
	return g.stack.CancelGroup()
}

// Transaction runs fn inside a command group.
// If fn returns an error or panics the group is cancelled.
// Inside an existing group fn simply joins it.
func (s *Stack) Transaction(name string, fn func() error) error {
	scope := s.GroupScope(name)
	defer scope.Cancel()

	if err := fn(); err != nil {
		return err
	}
	return scope.End()
}
