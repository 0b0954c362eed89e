// Package document ties a tile map to its undo history and file.
//
// A Document owns a *tilemap.Map and a *history.Stack and guards both with a
// single mutex, so every edit, undo and redo is serialized with the model it
// mutates. Edit methods construct commands from the command package and
// push them onto the stack.
package document

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/tilestorm/internal/editor/command"
	"github.com/dshills/tilestorm/internal/editor/history"
	"github.com/dshills/tilestorm/internal/editor/tilemap"
)

// Logger is the logging interface used by documents.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Document is an editable map with undo history.
type Document struct {
	mu sync.Mutex

	id    uuid.UUID
	path  string
	m     *tilemap.Map
	stack *history.Stack

	logger   Logger
	observer history.Observer
}

// Option configures a Document.
type Option func(*Document)

// WithCapacity sets the undo history capacity.
func WithCapacity(n int) Option {
	return func(d *Document) {
		d.stack.SetCapacity(n)
	}
}

// WithTileSize sets the tile dimensions of the map in pixels.
func WithTileSize(width, height int) Option {
	return func(d *Document) {
		d.m.SetTileSize(width, height)
	}
}

// WithLogger sets the document logger.
func WithLogger(l Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithObserver installs a callback invoked after every history change.
// The callback runs with the document locked and must not call back into
// the document.
func WithObserver(fn history.Observer) Option {
	return func(d *Document) {
		d.observer = fn
	}
}

// New creates an unsaved document with an empty map.
func New(rows, cols int, opts ...Option) (*Document, error) {
	m, err := tilemap.New(rows, cols)
	if err != nil {
		return nil, err
	}
	return newDocument(m, "", uuid.New(), opts...), nil
}

func newDocument(m *tilemap.Map, path string, id uuid.UUID, opts ...Option) *Document {
	d := &Document{
		id:     id,
		path:   path,
		m:      m,
		stack:  history.NewStack(history.DefaultCapacity),
		logger: nopLogger{},
	}
	for _, opt := range opts {
		opt(d)
	}
	d.stack.SetObserver(d.notify)
	return d
}

func (d *Document) notify(st history.State) {
	if d.observer != nil {
		d.observer(st)
	}
}

// ID returns the document identifier.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// Path returns the file path, or "" if the document was never saved.
func (d *Document) Path() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.path
}

// Name returns the map name.
func (d *Document) Name() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.m.Name()
}

// Rows returns the number of map rows.
func (d *Document) Rows() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.m.Rows()
}

// Columns returns the number of map columns.
func (d *Document) Columns() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.m.Columns()
}

// Tile returns the tile at p.
func (d *Document) Tile(p tilemap.Pos) (tilemap.TileID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.m.Tile(p)
}

// Tiles returns a copy of the tile grid.
func (d *Document) Tiles() [][]tilemap.TileID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.m.Tiles()
}

// Property returns a map property.
func (d *Document) Property(name string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.m.Property(name)
}

// Edits

func (d *Document) edit() *Editor {
	return &Editor{m: d.m, stack: d.stack}
}

// AddRow appends a row. Consecutive calls merge into one undo step.
func (d *Document) AddRow() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.edit().AddRow()
}

// AddColumn appends a column. Consecutive calls merge into one undo step.
func (d *Document) AddColumn() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.edit().AddColumn()
}

// RemoveRow removes the bottom row.
func (d *Document) RemoveRow() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.edit().RemoveRow()
}

// RemoveColumn removes the rightmost column.
func (d *Document) RemoveColumn() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.edit().RemoveColumn()
}

// Resize changes the map dimensions.
func (d *Document) Resize(rows, cols int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.edit().Resize(rows, cols)
}

// SetTile paints a single tile.
func (d *Document) SetTile(p tilemap.Pos, id tilemap.TileID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.edit().SetTile(p, id)
}

// AddStampSequence records a stamp stroke that has already been painted.
func (d *Document) AddStampSequence(old, sequence command.Sequence) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stack.Store(command.NewStamp(d.m, old, sequence))
}

// AddEraseSequence records an eraser stroke that has already been applied.
func (d *Document) AddEraseSequence(old command.Sequence) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stack.Store(command.NewErase(d.m, old))
}

// Paint sets tiles directly without recording history and returns the
// previous tiles. Interactive tools paint with it and finish the stroke with
// AddStampSequence.
func (d *Document) Paint(sequence command.Sequence) (command.Sequence, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	old := make(command.Sequence, len(sequence))
	for p, id := range sequence {
		prev, err := d.m.SetTile(p, id)
		if err != nil {
			d.revertPaint(old)
			return nil, err
		}
		old[p] = prev
	}
	return old, nil
}

func (d *Document) revertPaint(old command.Sequence) {
	for p, id := range old {
		_, _ = d.m.SetTile(p, id)
	}
}

// Fill flood-fills the region around p and returns the number of changed cells.
func (d *Document) Fill(p tilemap.Pos, id tilemap.TileID) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.edit().Fill(p, id)
}

// SetProperty sets a map property. Repeated updates of the same property
// merge into one undo step.
func (d *Document) SetProperty(name, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.edit().SetProperty(name, value)
}

// RemoveProperty removes a map property.
func (d *Document) RemoveProperty(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.edit().RemoveProperty(name)
}

// Rename changes the map name.
func (d *Document) Rename(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.edit().Rename(name)
}

// Transaction runs fn with every edit it makes recorded as one undo step.
// fn must use the *Editor it receives rather than the document.
func (d *Document) Transaction(name string, fn func(e *Editor) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.stack.Transaction(name, func() error {
		return fn(d.edit())
	})
}

// History

// Undo reverts the most recent edit.
func (d *Document) Undo() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	text, _ := d.stack.UndoText()
	if err := d.stack.Undo(); err != nil {
		return err
	}
	d.logger.Debug("undo %q", text)
	return nil
}

// Redo re-applies the most recently reverted edit.
func (d *Document) Redo() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	text, _ := d.stack.RedoText()
	if err := d.stack.Redo(); err != nil {
		return err
	}
	d.logger.Debug("redo %q", text)
	return nil
}

// CanUndo returns true if undo is available.
func (d *Document) CanUndo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stack.CanUndo()
}

// CanRedo returns true if redo is available.
func (d *Document) CanRedo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stack.CanRedo()
}

// UndoText returns the description of the edit Undo would revert.
func (d *Document) UndoText() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stack.UndoText()
}

// RedoText returns the description of the edit Redo would apply.
func (d *Document) RedoText() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stack.RedoText()
}

// IsClean reports whether the document matches its file on disk.
// A document that was never saved is never clean.
func (d *Document) IsClean() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.path != "" && d.stack.IsClean()
}

// HistoryState returns a snapshot of the undo history.
func (d *Document) HistoryState() history.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stack.State()
}

// SetCapacity changes the undo history capacity.
func (d *Document) SetCapacity(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stack.Capacity() == n {
		return
	}
	d.stack.SetCapacity(n)
	d.logger.Info("history capacity set to %d", d.stack.Capacity())
}

// ClearHistory drops all undo history and treats the current map as the
// saved state. The map itself is unchanged.
func (d *Document) ClearHistory() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stack.Clear()
}
