// Package script compiles Lua filter predicates for undoable histories.
//
// A script defines a global function
//
//	function filter(action, state, history)
//	  return action.type ~= "cursor"
//	end
//
// where action is a table {type, index, payload}, state is the candidate
// state and history is a table {present, past, future} holding the current
// present and the past and future lengths. A truthy return commits the
// candidate to the history.
package script

import (
	"context"
	"errors"
	"log/slog"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/undoable/internal/history"
	"github.com/dshills/undoable/internal/undoable"
)

// FilterFunc is the name of the global function a script must define.
const FilterFunc = "filter"

// Converter turns a state into a value ToLua understands.
// A nil Converter passes the state through unchanged.
type Converter[S any] func(S) any

// Option configures Compile.
type Option func(*options)

type options struct {
	name    string
	timeout time.Duration
	logger  *slog.Logger
}

// WithName sets the chunk name used in Lua error messages.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithTimeout bounds each filter call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithLogger sets the logger that receives runtime errors.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Script is a compiled filter script.
type Script[S any] struct {
	state  *state
	conv   Converter[S]
	name   string
	logger *slog.Logger
}

// Compile loads source into a fresh sandboxed state and checks that it
// defines the filter function.
func Compile[S any](source string, conv Converter[S], opts ...Option) (*Script[S], error) {
	o := options{
		name:    "filter",
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	st := newState(o.timeout)
	if err := st.doString(o.name, source); err != nil {
		st.close()
		return nil, &CompileError{Name: o.name, Err: err}
	}
	if st.L.GetGlobal(FilterFunc).Type() != lua.LTFunction {
		st.close()
		return nil, &CompileError{Name: o.name, Err: ErrNoFilterFunction}
	}

	return &Script[S]{
		state:  st,
		conv:   conv,
		name:   o.name,
		logger: o.logger,
	}, nil
}

// Name returns the chunk name.
func (s *Script[S]) Name() string {
	return s.name
}

// Eval runs the filter function.
func (s *Script[S]) Eval(action undoable.Action, candidate S, h history.History[S]) (bool, error) {
	ret, err := s.state.call(FilterFunc, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{
			s.actionTable(L, action),
			ToLua(L, s.convert(candidate)),
			s.historyTable(L, h),
		}
	})
	if err != nil {
		return true, err
	}
	return lua.LVAsBool(ret), nil
}

// Filter returns the script as an undoable.Filter.
// A call that fails keeps the candidate and logs the error.
func (s *Script[S]) Filter() undoable.Filter[S] {
	return func(action undoable.Action, candidate S, h history.History[S]) bool {
		keep, err := s.Eval(action, candidate, h)
		if err != nil {
			level := slog.LevelWarn
			if errors.Is(err, ErrStateClosed) {
				level = slog.LevelError
			}
			s.logger.Log(context.Background(), level, "filter script failed, keeping state",
				"script", s.name,
				"action", action.Type,
				"error", err,
			)
		}
		return keep
	}
}

// Close releases the Lua state.
func (s *Script[S]) Close() error {
	s.state.close()
	return nil
}

func (s *Script[S]) convert(v S) any {
	if s.conv == nil {
		return v
	}
	return s.conv(v)
}

func (s *Script[S]) actionTable(L *lua.LState, action undoable.Action) *lua.LTable {
	t := L.CreateTable(0, 3)
	t.RawSetString("type", lua.LString(action.Type))
	t.RawSetString("index", lua.LNumber(action.Index))
	t.RawSetString("payload", ToLua(L, action.Payload))
	return t
}

func (s *Script[S]) historyTable(L *lua.LState, h history.History[S]) *lua.LTable {
	t := L.CreateTable(0, 3)
	t.RawSetString("present", ToLua(L, s.convert(h.Present)))
	t.RawSetString("past", lua.LNumber(len(h.Past)))
	t.RawSetString("future", lua.LNumber(len(h.Future)))
	return t
}
