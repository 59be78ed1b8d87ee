package undoable

// Default control action types.
const (
	UndoType         = "@@undoable/UNDO"
	RedoType         = "@@undoable/REDO"
	JumpToPastType   = "@@undoable/JUMP_TO_PAST"
	JumpToFutureType = "@@undoable/JUMP_TO_FUTURE"
	JumpType         = "@@undoable/JUMP"
	ClearHistoryType = "@@undoable/CLEAR_HISTORY"

	// InitType is the default init type; it resets the history.
	InitType = "@@undoable/INIT"

	// CreateHistoryType is sent to the wrapped reducer when no initial
	// state was supplied.
	CreateHistoryType = "@@undoable/CREATE_HISTORY"
)

// Action is a state transition request.
type Action struct {
	// Type identifies the action. An empty type is a probe and leaves the
	// history untouched.
	Type string `json:"type"`

	// Index is the target of jump actions.
	Index int `json:"index,omitempty"`

	// Payload is passed through to the wrapped reducer.
	Payload any `json:"payload,omitempty"`
}

// IsProbe returns true if the action has no type.
func (a Action) IsProbe() bool {
	return a.Type == ""
}

// Undo returns an undo action with the default type.
func Undo() Action {
	return Action{Type: UndoType}
}

// Redo returns a redo action with the default type.
func Redo() Action {
	return Action{Type: RedoType}
}

// JumpToPast returns an action jumping to past index i.
func JumpToPast(i int) Action {
	return Action{Type: JumpToPastType, Index: i}
}

// JumpToFuture returns an action jumping to future index i.
func JumpToFuture(i int) Action {
	return Action{Type: JumpToFutureType, Index: i}
}

// Jump returns an action moving n steps; negative n moves into the past.
func Jump(n int) Action {
	return Action{Type: JumpType, Index: n}
}

// ClearHistory returns a clear-history action with the default type.
func ClearHistory() Action {
	return Action{Type: ClearHistoryType}
}
