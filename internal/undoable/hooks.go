package undoable

import (
	"log/slog"
	"time"
)

// Kind identifies the transition a Reduce call performed.
type Kind int

const (
	KindUndo Kind = iota
	KindRedo
	KindJumpToPast
	KindJumpToFuture
	KindJump
	KindClearHistory
	KindInit
	KindFiltered
	KindInsert
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindUndo:
		return "undo"
	case KindRedo:
		return "redo"
	case KindJumpToPast:
		return "jumpToPast"
	case KindJumpToFuture:
		return "jumpToFuture"
	case KindJump:
		return "jump"
	case KindClearHistory:
		return "clearHistory"
	case KindInit:
		return "init"
	case KindFiltered:
		return "filtered"
	case KindInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// IsNavigation returns true for undo, redo and jump transitions.
func (k Kind) IsNavigation() bool {
	switch k {
	case KindUndo, KindRedo, KindJumpToPast, KindJumpToFuture, KindJump:
		return true
	}
	return false
}

// Transition describes a completed Reduce call.
type Transition struct {
	// Instance is the id of the Undoable that performed the transition.
	Instance string

	Kind   Kind
	Action Action

	// PastLen and FutureLen describe the resulting history.
	PastLen   int
	FutureLen int

	Duration time.Duration
}

// Hook observes transitions.
// Probes and actions the wrapped reducer ignored do not reach hooks.
type Hook interface {
	// Name returns a unique identifier for this hook.
	Name() string

	// OnTransition is called after the transition completes.
	OnTransition(t Transition)
}

// HookFunc wraps a function as a Hook.
type HookFunc struct {
	name string
	fn   func(t Transition)
}

// NewHookFunc creates a new HookFunc.
func NewHookFunc(name string, fn func(t Transition)) *HookFunc {
	return &HookFunc{name: name, fn: fn}
}

// Name implements Hook.
func (f *HookFunc) Name() string { return f.name }

// OnTransition implements Hook.
func (f *HookFunc) OnTransition(t Transition) {
	if f.fn != nil {
		f.fn(t)
	}
}

// AuditHook logs every transition at info level.
type AuditHook struct {
	logger *slog.Logger
}

// NewAuditHook creates an audit hook with the given logger.
func NewAuditHook(logger *slog.Logger) *AuditHook {
	return &AuditHook{logger: logger}
}

// Name implements Hook.
func (h *AuditHook) Name() string { return "audit" }

// OnTransition implements Hook.
func (h *AuditHook) OnTransition(t Transition) {
	if h.logger == nil {
		return
	}
	h.logger.Info("history transition",
		"instance", t.Instance,
		"kind", t.Kind.String(),
		"action", t.Action.Type,
		"past", t.PastLen,
		"future", t.FutureLen,
		"duration", t.Duration,
	)
}
