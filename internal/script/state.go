package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single filter call.
const DefaultTimeout = 100 * time.Millisecond

// state wraps a sandboxed LState.
//
// LState is not goroutine-safe; every call takes mu.
type state struct {
	L       *lua.LState
	mu      sync.Mutex
	timeout time.Duration
	closed  bool
}

func newState(timeout time.Duration) *state {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	openSafeLibraries(L)
	installSandbox(L)

	return &state{L: L, timeout: timeout}
}

// openSafeLibraries opens only the base, table, string and math libraries.
// io, os, debug and package stay closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// installSandbox removes the loaders the base library exposes.
func installSandbox(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// doString runs a chunk under the state lock.
func (s *state) doString(name, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	fn, err := s.L.Load(strings.NewReader(code), name)
	if err != nil {
		return err
	}
	return s.withRecovery(func() error {
		s.L.Push(fn)
		return s.L.PCall(0, lua.MultRet, nil)
	})
}

// call invokes the global function fn with the arguments built by args
// and returns its first result.
func (s *state) call(fn string, args func(L *lua.LState) []lua.LValue) (lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil, ErrStateClosed
	}

	fnVal := s.L.GetGlobal(fn)
	if fnVal.Type() != lua.LTFunction {
		return lua.LNil, fmt.Errorf("%q is not a function (got %s)", fn, fnVal.Type())
	}

	if s.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()
	}

	top := s.L.GetTop()
	err := s.withRecovery(func() error {
		return s.L.CallByParam(lua.P{Fn: fnVal, NRet: 1, Protect: true}, args(s.L)...)
	})
	if err != nil {
		s.L.SetTop(top)
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return lua.LNil, fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
		}
		return lua.LNil, err
	}

	ret := s.L.Get(-1)
	s.L.SetTop(top)
	return ret, nil
}

func (s *state) withRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

func (s *state) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}

// isTimeout reports whether err came from an expired call context.
// gopher-lua raises the context error as a Lua error string.
func isTimeout(err error) bool {
	return strings.Contains(err.Error(), context.DeadlineExceeded.Error())
}
