package history

// History is the undo/redo timeline around a present state.
//
// The zero value and struct literals carry no latest unfiltered state; use
// New or Build to get one.
type History[S any] struct {
	// Present is the current state.
	Present S

	// Past holds earlier states, oldest first.
	Past []S

	// Future holds undone states, nearest first.
	Future []S

	// latest is the most recent unfiltered state, nil when omitted.
	latest *S
}

// New creates a History with an empty past and future.
// If ignoreInitialState is true the initial state is not remembered, so it
// can never be restored by undo.
func New[S any](state S, ignoreInitialState bool) History[S] {
	h := History[S]{Present: state}
	if !ignoreInitialState {
		h.latest = ptr(state)
	}
	return h
}

// Build creates a History from an existing timeline.
// The slices are copied and the present becomes the latest unfiltered state.
func Build[S any](past []S, present S, future []S) History[S] {
	return History[S]{
		Present: present,
		Past:    concat(past),
		Future:  concat(future),
		latest:  ptr(present),
	}
}

// LatestUnfiltered returns the latest unfiltered state.
// Returns false if it was omitted.
func (h History[S]) LatestUnfiltered() (S, bool) {
	if h.latest == nil {
		var zero S
		return zero, false
	}
	return *h.latest, true
}

// Insert commits state as the new present.
// The previous latest unfiltered state is appended to the past, the future
// is discarded, and the oldest past state is dropped when limit is reached.
func (h History[S]) Insert(state S, limit int) History[S] {
	past := h.Past
	if limit > 0 && h.lengthWithoutFuture() >= limit && len(past) > 0 {
		past = past[1:]
	}
	if h.latest != nil {
		past = concat(past, []S{*h.latest})
	} else {
		past = concat(past)
	}

	return History[S]{
		Present: state,
		Past:    past,
		Future:  nil,
		latest:  ptr(state),
	}
}

// Undo steps back to the most recent past state.
// Returns h unchanged if there is nothing to undo.
func (h History[S]) Undo() History[S] {
	if len(h.Past) == 0 {
		return h
	}

	present := h.Past[len(h.Past)-1]
	future := concat(h.Future)
	if h.latest != nil {
		future = concat([]S{*h.latest}, h.Future)
	}

	return History[S]{
		Present: present,
		Past:    concat(h.Past[:len(h.Past)-1]),
		Future:  future,
		latest:  ptr(present),
	}
}

// Redo steps forward to the nearest future state.
// Returns h unchanged if there is nothing to redo.
func (h History[S]) Redo() History[S] {
	if len(h.Future) == 0 {
		return h
	}

	present := h.Future[0]
	past := concat(h.Past)
	if h.latest != nil {
		past = concat(h.Past, []S{*h.latest})
	}

	return History[S]{
		Present: present,
		Past:    past,
		Future:  concat(h.Future[1:]),
		latest:  ptr(present),
	}
}

// JumpToFuture makes Future[index] the present.
// Index 0 is a redo. Out-of-range indices return h unchanged.
func (h History[S]) JumpToFuture(index int) History[S] {
	if index == 0 {
		return h.Redo()
	}
	if index < 0 || index >= len(h.Future) {
		return h
	}

	present := h.Future[index]

	return History[S]{
		Present: present,
		Past:    concat(h.Past, h.latestSlice(), h.Future[:index]),
		Future:  concat(h.Future[index+1:]),
		latest:  ptr(present),
	}
}

// JumpToPast makes Past[index] the present.
// The last past index is an undo. Out-of-range indices return h unchanged.
func (h History[S]) JumpToPast(index int) History[S] {
	if index == len(h.Past)-1 {
		return h.Undo()
	}
	if index < 0 || index >= len(h.Past) {
		return h
	}

	present := h.Past[index]

	return History[S]{
		Present: present,
		Past:    concat(h.Past[:index]),
		Future:  concat(h.Past[index+1:], h.latestSlice(), h.Future),
		latest:  ptr(present),
	}
}

// Jump moves n steps through the timeline.
// Positive n moves into the future, negative n into the past, and zero is
// a no-op.
func (h History[S]) Jump(n int) History[S] {
	switch {
	case n > 0:
		return h.JumpToFuture(n - 1)
	case n < 0:
		return h.JumpToPast(len(h.Past) + n)
	default:
		return h
	}
}

// WithPresent replaces the present without recording a checkpoint.
// Past, future and the latest unfiltered state are kept.
func (h History[S]) WithPresent(state S) History[S] {
	h.Present = state
	return h
}

// Restamp records the present as the latest unfiltered state.
func (h History[S]) Restamp() History[S] {
	h.latest = ptr(h.Present)
	return h
}

// Clear re-anchors the history on the present, dropping past and future.
func (h History[S]) Clear() History[S] {
	return New(h.Present, false)
}

// CanUndo returns true if undo is available.
func (h History[S]) CanUndo() bool {
	return len(h.Past) > 0
}

// CanRedo returns true if redo is available.
func (h History[S]) CanRedo() bool {
	return len(h.Future) > 0
}

// UndoCount returns the number of undo steps available.
func (h History[S]) UndoCount() int {
	return len(h.Past)
}

// RedoCount returns the number of redo steps available.
func (h History[S]) RedoCount() int {
	return len(h.Future)
}

// Len returns the number of states in the timeline, present included.
func (h History[S]) Len() int {
	return len(h.Past) + 1 + len(h.Future)
}

// Timeline returns past, present and future as one slice along with the
// index of the present in it.
func (h History[S]) Timeline() ([]S, int) {
	return concat(h.Past, []S{h.Present}, h.Future), len(h.Past)
}

func (h History[S]) lengthWithoutFuture() int {
	return len(h.Past) + 1
}

func (h History[S]) latestSlice() []S {
	if h.latest == nil {
		return nil
	}
	return []S{*h.latest}
}

// concat joins slices into a freshly allocated slice.
func concat[S any](parts ...[]S) []S {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	if n == 0 {
		return nil
	}
	out := make([]S, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func ptr[S any](v S) *S {
	return &v
}
