// Package history provides undo/redo functionality for map documents.
//
// The history system uses the Command pattern to encapsulate edits so they
// can be applied, reverted and re-applied. Key concepts:
//
// # Commands
//
// A Command implements Undo, Redo, ID and Text. Commands that can absorb a
// later command of the same kind also implement Merger; consecutive row
// insertions, for example, collapse into a single undo step.
//
// # Command Stack
//
// The Stack owns a bounded, ordered list of commands and a cursor pointing
// at the most recently applied entry:
//
//	stack := NewStack(100) // keep at most 100 entries
//
//	stack.Push(cmd) // applies cmd and records it
//	stack.Undo()
//	stack.Redo()
//
// Pushing after an undo discards the redo branch. Pushing into a full stack
// evicts the oldest entry.
//
// # Clean State
//
// MarkAsClean remembers the current cursor as the saved position. IsClean
// reports whether the cursor is back at that position. Evicting, truncating
// or merging into the clean entry makes the clean state unreachable.
//
// # Grouping
//
// Multiple commands can be recorded as a single undo unit:
//
//	stack.BeginGroup("Paste Region")
//	// ... several pushes ...
//	stack.EndGroup()
//
// The stack is not safe for concurrent use. Callers that share it between
// goroutines must guard it, together with the model its commands mutate, by
// a single mutex.
package history
