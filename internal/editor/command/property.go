package command

import (
	"github.com/dshills/tilestorm/internal/editor/history"
	"github.com/dshills/tilestorm/internal/editor/tilemap"
)

// previous is a property value before an edit.
type previous struct {
	value   string
	existed bool
}

func (p previous) restore(m *tilemap.Map, name string) {
	if p.existed {
		_ = m.SetProperty(name, p.value)
		return
	}
	m.RemoveProperty(name)
}

func capture(m *tilemap.Map, name string) previous {
	v, ok := m.Property(name)
	return previous{value: v, existed: ok}
}

// SetProperty assigns a map property.
type SetProperty struct {
	m     *tilemap.Map
	name  string
	value string
	old   previous
	saved bool
}

// NewSetProperty creates a command that sets name to value.
func NewSetProperty(m *tilemap.Map, name, value string) *SetProperty {
	return &SetProperty{m: m, name: name, value: value}
}

// Redo sets the property. The previous value is captured on first use.
func (c *SetProperty) Redo() {
	if !c.saved {
		c.old = capture(c.m, c.name)
		c.saved = true
	}
	_ = c.m.SetProperty(c.name, c.value)
}

// Undo restores the previous value, or removes a property that did not exist.
func (c *SetProperty) Undo() {
	c.old.restore(c.m, c.name)
}

// ID returns SetPropertyID.
func (c *SetProperty) ID() history.ID { return SetPropertyID }

// Text returns "Update Property".
func (c *SetProperty) Text() string { return "Update Property" }

// MergeWith absorbs a later assignment to the same property.
// The merged command keeps the oldest previous value.
func (c *SetProperty) MergeWith(other history.Command) bool {
	o, ok := other.(*SetProperty)
	if !ok || o.m != c.m || o.name != c.name {
		return false
	}
	c.value = o.value
	return true
}

// RemoveProperty deletes a map property.
type RemoveProperty struct {
	m    *tilemap.Map
	name string
	old  previous
}

// NewRemoveProperty creates a command that removes name.
func NewRemoveProperty(m *tilemap.Map, name string) *RemoveProperty {
	return &RemoveProperty{m: m, name: name}
}

// Redo removes the property.
func (c *RemoveProperty) Redo() {
	c.old = capture(c.m, c.name)
	c.m.RemoveProperty(c.name)
}

// Undo restores the property.
func (c *RemoveProperty) Undo() {
	c.old.restore(c.m, c.name)
}

// ID returns RemovePropertyID.
func (c *RemoveProperty) ID() history.ID { return RemovePropertyID }

// Text returns "Remove Property".
func (c *RemoveProperty) Text() string { return "Remove Property" }

// RenameMap changes the map name.
type RenameMap struct {
	m    *tilemap.Map
	name string
	old  string
}

// NewRenameMap creates a command that renames the map.
func NewRenameMap(m *tilemap.Map, name string) *RenameMap {
	return &RenameMap{m: m, name: name}
}

// Redo renames the map.
func (c *RenameMap) Redo() {
	c.old = c.m.Name()
	c.m.SetName(c.name)
}

// Undo restores the previous name.
func (c *RenameMap) Undo() {
	c.m.SetName(c.old)
}

// ID returns RenameMapID.
func (c *RenameMap) ID() history.ID { return RenameMapID }

// Text returns "Rename Map".
func (c *RenameMap) Text() string { return "Rename Map" }
