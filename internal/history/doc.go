// Package history provides the undo/redo timeline used by the undoable reducer.
//
// A History is an immutable value holding the present state, the states
// behind it (past, oldest first) and the states ahead of it (future,
// nearest first). Every operation returns a new History and leaves its
// receiver untouched:
//
//	h := history.New(initial, false)
//	h = h.Insert(next, 10) // checkpoint, keep at most 10 states
//	h = h.Undo()
//	h = h.Redo()
//
// # Navigation
//
// Undo and Redo are the boundary cases of JumpToPast and JumpToFuture.
// Jump(n) moves n steps forward (n > 0) or backward (n < 0). Navigation
// never creates or destroys states: len(Past)+len(Future) is unchanged by
// a successful jump. Indices outside the timeline are ignored and the
// History is returned as is.
//
// # Latest unfiltered state
//
// Besides the present, a History remembers the most recent state that was
// committed or navigated to. When an action is filtered out, the present
// changes but the latest unfiltered state does not, so the next undo or
// redo files the last committed state rather than the filtered one.
//
// # Limit
//
// Insert takes a limit on the number of states tracked behind and including
// the present. When the limit is reached the oldest past state is dropped.
// A limit of zero or less means unbounded.
package history
