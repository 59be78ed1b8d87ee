// Package undoable adds undo/redo history to a pure reducer.
//
// New wraps a Reducer and returns an Undoable whose Reduce method takes the
// same action stream as the wrapped reducer but threads a history.History
// through it:
//
//	u := undoable.New(counter, undoable.DefaultConfig[int]().WithLimit(50))
//
//	h := u.Reduce(undoable.Absent[int](), undoable.Action{Type: "inc"}, nil)
//	h = u.Step(h, undoable.Action{Type: "inc"}, nil)
//	h = u.Step(h, undoable.Undo(), nil)
//
// # Routing
//
// Actions are matched in order against the probe (empty type), undo, redo,
// jump-to-past, jump-to-future, jump and clear-history types. Anything else
// goes to the wrapped reducer. If the action is an init type the cached
// initial history is returned. If the reducer left the present unchanged
// the history is returned as is. Otherwise the Filter decides between a
// checkpoint (Insert) and an in-place update of the present.
//
// # Initialization
//
// The first Reduce call fixes the initial history of the instance: from the
// wrapped reducer when the input is Absent, from a plain state, or from a
// prebuilt history. Later Absent inputs resolve to that cached history.
//
// # Observability
//
// Debug records go to Config.Logger. Hooks, including Metrics and
// AuditHook, see every transition except probes and ignored actions.
package undoable
