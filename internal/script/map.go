package script

import (
	"errors"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/tilestorm/internal/editor/document"
	"github.com/dshills/tilestorm/internal/editor/tilemap"
)

// editor is the edit surface shared by *document.Document and
// *document.Editor.
type editor interface {
	Rows() int
	Columns() int
	Tile(p tilemap.Pos) (tilemap.TileID, error)
	AddRow()
	AddColumn()
	RemoveRow() error
	RemoveColumn() error
	Resize(rows, cols int) error
	SetTile(p tilemap.Pos, id tilemap.TileID) error
	Fill(p tilemap.Pos, id tilemap.TileID) (int, error)
	SetProperty(name, value string) error
	RemoveProperty(name string) error
	Rename(name string)
}

// MapModule implements the global map table.
//
// Rows and columns are 1-indexed on the Lua side.
type MapModule struct {
	doc *document.Document

	// tx is the editor of the running transaction, if any.
	tx *document.Editor
}

// NewMapModule creates a map module bound to doc.
func NewMapModule(doc *document.Document) *MapModule {
	return &MapModule{doc: doc}
}

// Register installs the map table into L.
func (m *MapModule) Register(L *lua.LState) error {
	if m.doc == nil {
		return errors.New("map module: no document")
	}

	mod := L.NewTable()

	L.SetField(mod, "rows", L.NewFunction(m.rows))
	L.SetField(mod, "columns", L.NewFunction(m.columns))
	L.SetField(mod, "tile", L.NewFunction(m.tile))
	L.SetField(mod, "add_row", L.NewFunction(m.addRow))
	L.SetField(mod, "add_column", L.NewFunction(m.addColumn))
	L.SetField(mod, "remove_row", L.NewFunction(m.removeRow))
	L.SetField(mod, "remove_column", L.NewFunction(m.removeColumn))
	L.SetField(mod, "resize", L.NewFunction(m.resize))
	L.SetField(mod, "set_tile", L.NewFunction(m.setTile))
	L.SetField(mod, "fill", L.NewFunction(m.fill))
	L.SetField(mod, "set_property", L.NewFunction(m.setProperty))
	L.SetField(mod, "remove_property", L.NewFunction(m.removeProperty))
	L.SetField(mod, "property", L.NewFunction(m.property))
	L.SetField(mod, "rename", L.NewFunction(m.rename))
	L.SetField(mod, "name", L.NewFunction(m.name))
	L.SetField(mod, "transaction", L.NewFunction(m.transaction))
	L.SetField(mod, "undo", L.NewFunction(m.undo))
	L.SetField(mod, "redo", L.NewFunction(m.redo))
	L.SetField(mod, "can_undo", L.NewFunction(m.canUndo))
	L.SetField(mod, "can_redo", L.NewFunction(m.canRedo))
	L.SetField(mod, "undo_text", L.NewFunction(m.undoText))
	L.SetField(mod, "redo_text", L.NewFunction(m.redoText))
	L.SetField(mod, "is_clean", L.NewFunction(m.isClean))
	L.SetField(mod, "save", L.NewFunction(m.save))
	L.SetField(mod, "status", L.NewFunction(m.status))

	L.SetGlobal("map", mod)
	return nil
}

// ed returns the transaction editor while one runs, else the document.
func (m *MapModule) ed() editor {
	if m.tx != nil {
		return m.tx
	}
	return m.doc
}

// noTx raises an error for operations that are not allowed inside a
// transaction.
func (m *MapModule) noTx(L *lua.LState, name string) {
	if m.tx != nil {
		L.RaiseError("%s: not allowed inside a transaction", name)
	}
}

// checkPos reads a 1-indexed row and column starting at argument n.
func checkPos(L *lua.LState, n int) tilemap.Pos {
	return tilemap.Pos{Row: L.CheckInt(n) - 1, Col: L.CheckInt(n+1) - 1}
}

// rows() -> number
func (m *MapModule) rows(L *lua.LState) int {
	L.Push(lua.LNumber(m.ed().Rows()))
	return 1
}

// columns() -> number
func (m *MapModule) columns(L *lua.LState) int {
	L.Push(lua.LNumber(m.ed().Columns()))
	return 1
}

// tile(row, col) -> id
func (m *MapModule) tile(L *lua.LState) int {
	id, err := m.ed().Tile(checkPos(L, 1))
	if err != nil {
		L.RaiseError("tile: %v", err)
		return 0
	}
	L.Push(lua.LNumber(id))
	return 1
}

// add_row()
func (m *MapModule) addRow(L *lua.LState) int {
	m.ed().AddRow()
	return 0
}

// add_column()
func (m *MapModule) addColumn(L *lua.LState) int {
	m.ed().AddColumn()
	return 0
}

// remove_row()
func (m *MapModule) removeRow(L *lua.LState) int {
	if err := m.ed().RemoveRow(); err != nil {
		L.RaiseError("remove_row: %v", err)
	}
	return 0
}

// remove_column()
func (m *MapModule) removeColumn(L *lua.LState) int {
	if err := m.ed().RemoveColumn(); err != nil {
		L.RaiseError("remove_column: %v", err)
	}
	return 0
}

// resize(rows, cols)
func (m *MapModule) resize(L *lua.LState) int {
	rows := L.CheckInt(1)
	cols := L.CheckInt(2)
	if err := m.ed().Resize(rows, cols); err != nil {
		L.RaiseError("resize: %v", err)
	}
	return 0
}

// set_tile(row, col, id)
func (m *MapModule) setTile(L *lua.LState) int {
	p := checkPos(L, 1)
	id := L.CheckInt(3)
	if id < 0 {
		L.ArgError(3, "tile id must be non-negative")
		return 0
	}
	if err := m.ed().SetTile(p, tilemap.TileID(id)); err != nil {
		L.RaiseError("set_tile: %v", err)
	}
	return 0
}

// fill(row, col, id) -> changed
func (m *MapModule) fill(L *lua.LState) int {
	p := checkPos(L, 1)
	id := L.CheckInt(3)
	if id < 0 {
		L.ArgError(3, "tile id must be non-negative")
		return 0
	}
	n, err := m.ed().Fill(p, tilemap.TileID(id))
	if err != nil {
		L.RaiseError("fill: %v", err)
		return 0
	}
	L.Push(lua.LNumber(n))
	return 1
}

// set_property(name, value)
func (m *MapModule) setProperty(L *lua.LState) int {
	name := L.CheckString(1)
	value := L.CheckString(2)
	if err := m.ed().SetProperty(name, value); err != nil {
		L.RaiseError("set_property: %v", err)
	}
	return 0
}

// remove_property(name)
func (m *MapModule) removeProperty(L *lua.LState) int {
	if err := m.ed().RemoveProperty(L.CheckString(1)); err != nil {
		L.RaiseError("remove_property: %v", err)
	}
	return 0
}

// property(name) -> string or nil
func (m *MapModule) property(L *lua.LState) int {
	m.noTx(L, "property")
	v, ok := m.doc.Property(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(v))
	return 1
}

// rename(name)
func (m *MapModule) rename(L *lua.LState) int {
	m.ed().Rename(L.CheckString(1))
	return 0
}

// name() -> string
func (m *MapModule) name(L *lua.LState) int {
	m.noTx(L, "name")
	L.Push(lua.LString(m.doc.Name()))
	return 1
}

// transaction(name, fn)
// Runs fn with every edit recorded as one undo step. If fn raises an error
// the edits are reverted and the error is raised again.
func (m *MapModule) transaction(L *lua.LState) int {
	m.noTx(L, "transaction")
	name := L.CheckString(1)
	fn := L.CheckFunction(2)

	err := m.doc.Transaction(name, func(e *document.Editor) error {
		m.tx = e
		defer func() { m.tx = nil }()
		return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	})
	if err != nil {
		L.RaiseError("transaction %q: %v", name, err)
	}
	return 0
}

// undo() -> bool
// Returns false when there is nothing to undo.
func (m *MapModule) undo(L *lua.LState) int {
	m.noTx(L, "undo")
	L.Push(lua.LBool(m.doc.Undo() == nil))
	return 1
}

// redo() -> bool
// Returns false when there is nothing to redo.
func (m *MapModule) redo(L *lua.LState) int {
	m.noTx(L, "redo")
	L.Push(lua.LBool(m.doc.Redo() == nil))
	return 1
}

// can_undo() -> bool
func (m *MapModule) canUndo(L *lua.LState) int {
	m.noTx(L, "can_undo")
	L.Push(lua.LBool(m.doc.CanUndo()))
	return 1
}

// can_redo() -> bool
func (m *MapModule) canRedo(L *lua.LState) int {
	m.noTx(L, "can_redo")
	L.Push(lua.LBool(m.doc.CanRedo()))
	return 1
}

// undo_text() -> string or nil
func (m *MapModule) undoText(L *lua.LState) int {
	m.noTx(L, "undo_text")
	return pushText(L, m.doc.UndoText)
}

// redo_text() -> string or nil
func (m *MapModule) redoText(L *lua.LState) int {
	m.noTx(L, "redo_text")
	return pushText(L, m.doc.RedoText)
}

func pushText(L *lua.LState, get func() (string, error)) int {
	text, err := get()
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(text))
	return 1
}

// is_clean() -> bool
func (m *MapModule) isClean(L *lua.LState) int {
	m.noTx(L, "is_clean")
	L.Push(lua.LBool(m.doc.IsClean()))
	return 1
}

// save([path])
// Saves to path when given, else to the document's current path.
func (m *MapModule) save(L *lua.LState) int {
	m.noTx(L, "save")
	var err error
	if path := L.OptString(1, ""); path != "" {
		err = m.doc.SaveAs(path)
	} else {
		err = m.doc.Save()
	}
	if err != nil {
		L.RaiseError("save: %v", err)
	}
	return 0
}

// status() -> string
// Returns the document status as JSON.
func (m *MapModule) status(L *lua.LState) int {
	m.noTx(L, "status")
	js, err := m.doc.Status()
	if err != nil {
		L.RaiseError("status: %v", err)
		return 0
	}
	L.Push(lua.LString(js))
	return 1
}
