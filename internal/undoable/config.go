package undoable

import (
	"log/slog"
	"reflect"
	"slices"
)

// Config holds undoable reducer configuration.
type Config[S any] struct {
	// Limit bounds the number of states kept behind and including the
	// present. Zero means unbounded.
	Limit int

	// Filter decides whether a new state is committed to the history.
	// Nil keeps every state.
	Filter Filter[S]

	// Control action types.
	UndoType         string
	RedoType         string
	JumpToPastType   string
	JumpToFutureType string
	JumpType         string

	// ClearHistoryTypes lists the action types that clear the history.
	ClearHistoryTypes []string

	// InitTypes lists the action types that reset the history to its
	// initial value.
	InitTypes []string

	// NeverSkipReducer runs the wrapped reducer again after undo, redo,
	// jump and clear actions.
	NeverSkipReducer bool

	// IgnoreInitialState keeps the initial state out of the history.
	IgnoreInitialState bool

	// Equal reports whether the wrapped reducer left the state unchanged.
	// Defaults to reflect.DeepEqual.
	Equal func(a, b S) bool

	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger

	// Hooks are notified after every transition.
	Hooks []Hook
}

// DefaultConfig returns a configuration with the default action types.
func DefaultConfig[S any]() Config[S] {
	return Config[S]{
		UndoType:          UndoType,
		RedoType:          RedoType,
		JumpToPastType:    JumpToPastType,
		JumpToFutureType:  JumpToFutureType,
		JumpType:          JumpType,
		ClearHistoryTypes: []string{ClearHistoryType},
		InitTypes:         []string{InitType},
	}
}

// WithLimit returns a copy of the config with the history limit set.
func (c Config[S]) WithLimit(limit int) Config[S] {
	c.Limit = limit
	return c
}

// WithFilter returns a copy of the config with the filter set.
func (c Config[S]) WithFilter(filter Filter[S]) Config[S] {
	c.Filter = filter
	return c
}

// WithClearHistoryTypes returns a copy of the config with the clear-history types set.
func (c Config[S]) WithClearHistoryTypes(types ...string) Config[S] {
	c.ClearHistoryTypes = append([]string{}, types...)
	return c
}

// WithInitTypes returns a copy of the config with the init types set.
// Calling it with no types disables the init reset.
func (c Config[S]) WithInitTypes(types ...string) Config[S] {
	c.InitTypes = append([]string{}, types...)
	return c
}

// WithNeverSkipReducer returns a copy of the config with NeverSkipReducer set.
func (c Config[S]) WithNeverSkipReducer(v bool) Config[S] {
	c.NeverSkipReducer = v
	return c
}

// WithIgnoreInitialState returns a copy of the config with IgnoreInitialState set.
func (c Config[S]) WithIgnoreInitialState(v bool) Config[S] {
	c.IgnoreInitialState = v
	return c
}

// WithEqual returns a copy of the config with the equality function set.
func (c Config[S]) WithEqual(equal func(a, b S) bool) Config[S] {
	c.Equal = equal
	return c
}

// WithLogger returns a copy of the config with the debug logger set.
func (c Config[S]) WithLogger(logger *slog.Logger) Config[S] {
	c.Logger = logger
	return c
}

// WithHooks returns a copy of the config with hooks appended.
func (c Config[S]) WithHooks(hooks ...Hook) Config[S] {
	c.Hooks = append(slices.Clone(c.Hooks), hooks...)
	return c
}

// resolve fills unset fields with defaults and detaches shared slices.
func (c Config[S]) resolve() Config[S] {
	def := DefaultConfig[S]()

	if c.Limit < 0 {
		c.Limit = 0
	}
	c.UndoType = orDefault(c.UndoType, def.UndoType)
	c.RedoType = orDefault(c.RedoType, def.RedoType)
	c.JumpToPastType = orDefault(c.JumpToPastType, def.JumpToPastType)
	c.JumpToFutureType = orDefault(c.JumpToFutureType, def.JumpToFutureType)
	c.JumpType = orDefault(c.JumpType, def.JumpType)

	// A nil list means "use the default"; an empty one disables the action.
	if c.ClearHistoryTypes == nil {
		c.ClearHistoryTypes = def.ClearHistoryTypes
	}
	c.ClearHistoryTypes = compact(c.ClearHistoryTypes)
	if c.InitTypes == nil {
		c.InitTypes = def.InitTypes
	}
	c.InitTypes = compact(c.InitTypes)

	if c.Equal == nil {
		c.Equal = func(a, b S) bool { return reflect.DeepEqual(a, b) }
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	c.Hooks = slices.Clone(c.Hooks)
	return c
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// compact copies types without empty entries.
func compact(types []string) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
