package document

import (
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/dshills/tilestorm/internal/editor/history"
)

// Status returns a JSON summary of the document and its undo history.
//
//	{"id":"...","path":"","name":"","rows":5,"columns":5,"clean":false,
//	 "history":{"canUndo":true,"canRedo":false,"undoText":"Add Row",
//	 "redoText":"","size":1,"capacity":100,"index":0,"cleanIndex":null,
//	 "entries":["Add Row"]}}
func (d *Document) Status() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	st := d.stack.State()
	fields := []struct {
		path  string
		value any
	}{
		{"id", d.id.String()},
		{"path", d.path},
		{"name", d.m.Name()},
		{"rows", d.m.Rows()},
		{"columns", d.m.Columns()},
		{"clean", d.path != "" && st.Clean},
		{"history.canUndo", st.CanUndo},
		{"history.canRedo", st.CanRedo},
		{"history.undoText", st.UndoText},
		{"history.redoText", st.RedoText},
		{"history.size", st.Size},
		{"history.capacity", st.Capacity},
		{"history.index", positionValue(st.Index)},
		{"history.cleanIndex", positionValue(st.CleanIndex)},
		{"history.entries", d.stack.Texts()},
	}

	json := "{}"
	for _, f := range fields {
		var err error
		json, err = sjson.Set(json, f.path, f.value)
		if err != nil {
			return "", fmt.Errorf("status field %s: %w", f.path, err)
		}
	}
	return json, nil
}

// positionValue maps None to JSON null.
func positionValue(p history.Position) any {
	if i, ok := p.Get(); ok {
		return i
	}
	return nil
}
