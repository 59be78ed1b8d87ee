package undoable

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/undoable/internal/history"
)

// Reducer is a pure state transition function.
// ctx carries caller-defined auxiliary data and is passed through unchanged.
type Reducer[S, C any] func(state S, action Action, ctx C) S

// Undoable wraps a Reducer with undo/redo history.
type Undoable[S, C any] struct {
	reducer Reducer[S, C]
	config  Config[S]
	id      string

	// initial is written once, by the first Reduce call.
	mu      sync.Mutex
	initial *history.History[S]
}

// New wraps reducer with history tracking.
// The config is resolved once here; later changes to it have no effect.
func New[S, C any](reducer Reducer[S, C], config Config[S]) *Undoable[S, C] {
	u := &Undoable[S, C]{
		reducer: reducer,
		config:  config.resolve(),
		id:      uuid.NewString(),
	}
	u.config.Logger = u.config.Logger.With("instance", u.id)
	return u
}

// NewWithDefaults wraps reducer using the default configuration.
func NewWithDefaults[S, C any](reducer Reducer[S, C]) *Undoable[S, C] {
	return New(reducer, DefaultConfig[S]())
}

// ID returns the instance id used in logs and transitions.
func (u *Undoable[S, C]) ID() string {
	return u.id
}

// Config returns the resolved configuration.
func (u *Undoable[S, C]) Config() Config[S] {
	return u.config
}

// Initial returns the cached initial history.
// Returns false until the first Reduce call.
func (u *Undoable[S, C]) Initial() (history.History[S], bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.initial == nil {
		return history.History[S]{}, false
	}
	return *u.initial, true
}

// Reduce applies action to the history carried by in.
func (u *Undoable[S, C]) Reduce(in Input[S], action Action, ctx C) history.History[S] {
	start := time.Now()
	log := u.config.Logger

	log.Debug("dispatch start", "action", action.Type, "index", action.Index)

	h := u.normalize(in, ctx)

	var res history.History[S]
	var kind Kind

	switch {
	case action.IsProbe():
		return h

	case action.Type == u.config.UndoType:
		res, kind = h.Undo(), KindUndo
		log.Debug("perform undo")

	case action.Type == u.config.RedoType:
		res, kind = h.Redo(), KindRedo
		log.Debug("perform redo")

	case action.Type == u.config.JumpToPastType:
		res, kind = h.JumpToPast(action.Index), KindJumpToPast
		log.Debug("perform jumpToPast", "index", action.Index)

	case action.Type == u.config.JumpToFutureType:
		res, kind = h.JumpToFuture(action.Index), KindJumpToFuture
		log.Debug("perform jumpToFuture", "index", action.Index)

	case action.Type == u.config.JumpType:
		res, kind = h.Jump(action.Index), KindJump
		log.Debug("perform jump", "index", action.Index)

	case u.isClearHistory(action.Type):
		res, kind = h.Clear(), KindClearHistory
		log.Debug("perform clearHistory")

	default:
		return u.reduceDefault(h, action, ctx, start)
	}

	res = u.skipReducer(res, action, ctx)
	u.end(kind, action, res, start)
	return res
}

// Step applies action to h. It is Reduce with a history input.
func (u *Undoable[S, C]) Step(h history.History[S], action Action, ctx C) history.History[S] {
	return u.Reduce(FromHistory(h), action, ctx)
}

// reduceDefault runs the wrapped reducer and applies the filter policy.
func (u *Undoable[S, C]) reduceDefault(h history.History[S], action Action, ctx C, start time.Time) history.History[S] {
	log := u.config.Logger
	candidate := u.reducer(h.Present, action, ctx)

	if slices.Contains(u.config.InitTypes, action.Type) {
		initial, _ := u.Initial()
		log.Debug("reset history due to init action")
		u.end(KindInit, action, initial, start)
		return initial
	}

	if u.config.Equal(candidate, h.Present) {
		// Ignored by the wrapped reducer: no checkpoint, no hooks.
		return h
	}

	if u.config.Filter != nil && !u.config.Filter(action, candidate, h) {
		res := h.WithPresent(candidate)
		log.Debug("filter prevented action, not storing it")
		u.end(KindFiltered, action, res, start)
		return res
	}

	log.Debug("inserting", "limit", u.config.Limit, "free", u.config.Limit-(len(h.Past)+1))
	res := h.Insert(candidate, u.config.Limit)
	log.Debug("inserted new state into history")
	u.end(KindInsert, action, res, start)
	return res
}

// normalize turns the input into a history, initializing the cache on
// the first call.
func (u *Undoable[S, C]) normalize(in Input[S], ctx C) history.History[S] {
	initial, cached := u.initialize(in, ctx)
	if !cached {
		return initial
	}

	switch in.kind {
	case inputHistory:
		return in.history
	case inputState:
		return history.New(in.state, u.config.IgnoreInitialState)
	default:
		return initial
	}
}

// initialize returns the cached initial history and true, or bootstraps
// it from in and returns false. A panicking reducer leaves the cell empty.
func (u *Undoable[S, C]) initialize(in Input[S], ctx C) (history.History[S], bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.initial != nil {
		return *u.initial, true
	}
	h := u.bootstrap(in, ctx)
	u.initial = &h
	return h, false
}

// bootstrap derives the initial history. Called with u.mu held.
func (u *Undoable[S, C]) bootstrap(in Input[S], ctx C) history.History[S] {
	log := u.config.Logger
	log.Debug("history is uninitialized")

	switch in.kind {
	case inputHistory:
		h := in.history
		if !u.config.IgnoreInitialState {
			h = h.Restamp()
		}
		log.Debug("initial history initialized: initial state is a history",
			"past", len(h.Past), "future", len(h.Future))
		return h

	case inputState:
		log.Debug("initial history initialized: initial state is not a history")
		return history.New(in.state, u.config.IgnoreInitialState)

	default:
		var zero S
		state := u.reducer(zero, Action{Type: CreateHistoryType}, ctx)
		log.Debug("initial history created by the wrapped reducer")
		return history.New(state, u.config.IgnoreInitialState)
	}
}

// isClearHistory checks the configured clear-history types in order.
func (u *Undoable[S, C]) isClearHistory(actionType string) bool {
	for _, t := range u.config.ClearHistoryTypes {
		if t == actionType {
			return true
		}
	}
	return false
}

// skipReducer re-runs the wrapped reducer over a navigation result when
// NeverSkipReducer is set.
func (u *Undoable[S, C]) skipReducer(res history.History[S], action Action, ctx C) history.History[S] {
	if !u.config.NeverSkipReducer {
		return res
	}
	return res.WithPresent(u.reducer(res.Present, action, ctx))
}

// end logs the result and notifies hooks.
func (u *Undoable[S, C]) end(kind Kind, action Action, res history.History[S], start time.Time) {
	t := Transition{
		Instance:  u.id,
		Kind:      kind,
		Action:    action,
		PastLen:   len(res.Past),
		FutureLen: len(res.Future),
		Duration:  time.Since(start),
	}

	u.config.Logger.Debug("dispatch end",
		"kind", kind.String(),
		"past", t.PastLen,
		"future", t.FutureLen,
	)

	for _, h := range u.config.Hooks {
		h.OnTransition(t)
	}
}
