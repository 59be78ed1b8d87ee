package undoable

import "github.com/dshills/undoable/internal/history"

type inputKind int

const (
	inputAbsent inputKind = iota
	inputState
	inputHistory
)

// Input is the state handed to Reduce: nothing, a plain state, or a
// history built earlier.
type Input[S any] struct {
	kind    inputKind
	state   S
	history history.History[S]
}

// Absent returns an input carrying no state.
// The first Reduce call bootstraps the history from the wrapped reducer;
// later calls use the cached initial history.
func Absent[S any]() Input[S] {
	return Input[S]{kind: inputAbsent}
}

// FromState returns an input carrying a plain state.
func FromState[S any](state S) Input[S] {
	return Input[S]{kind: inputState, state: state}
}

// FromHistory returns an input carrying a history.
func FromHistory[S any](h history.History[S]) Input[S] {
	return Input[S]{kind: inputHistory, history: h}
}

// IsAbsent returns true if the input carries no state.
func (in Input[S]) IsAbsent() bool {
	return in.kind == inputAbsent
}

// IsHistory returns true if the input carries a history.
func (in Input[S]) IsHistory() bool {
	return in.kind == inputHistory
}
