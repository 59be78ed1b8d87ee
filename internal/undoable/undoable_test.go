package undoable_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/dshills/undoable/internal/history"
	"github.com/dshills/undoable/internal/undoable"
)

type env struct {
	Step int
}

// counter is the wrapped reducer used throughout the tests.
func counter(state int, action undoable.Action, _ env) int {
	switch action.Type {
	case undoable.CreateHistoryType:
		return 100
	case "inc":
		return state + 1
	case "dec":
		return state - 1
	case "set":
		return action.Payload.(int)
	default:
		return state
	}
}

func inc() undoable.Action { return undoable.Action{Type: "inc"} }

func set(v int) undoable.Action { return undoable.Action{Type: "set", Payload: v} }

func assertHistory(t *testing.T, h history.History[int], past []int, present int, future []int) {
	t.Helper()
	if h.Present != present {
		t.Errorf("Present = %d, want %d", h.Present, present)
	}
	if !sameInts(h.Past, past) {
		t.Errorf("Past = %v, want %v", h.Past, past)
	}
	if !sameInts(h.Future, future) {
		t.Errorf("Future = %v, want %v", h.Future, future)
	}
}

func sameInts(a, b []int) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

// run applies actions starting from in.
func run(u *undoable.Undoable[int, env], in undoable.Input[int], actions ...undoable.Action) history.History[int] {
	h := u.Reduce(in, undoable.Action{}, env{})
	for _, a := range actions {
		h = u.Step(h, a, env{})
	}
	return h
}

// Initialization Tests

func TestInitializeAbsentUsesReducer(t *testing.T) {
	u := undoable.NewWithDefaults(counter)

	h := u.Reduce(undoable.Absent[int](), undoable.Action{}, env{})
	assertHistory(t, h, nil, 100, nil)

	initial, ok := u.Initial()
	if !ok {
		t.Fatal("initial history should be cached")
	}
	assertHistory(t, initial, nil, 100, nil)
}

func TestInitializeFromState(t *testing.T) {
	u := undoable.NewWithDefaults(counter)

	h := run(u, undoable.FromState(5), inc(), inc())
	assertHistory(t, h, []int{5, 6}, 7, nil)
}

func TestInitializeFromHistory(t *testing.T) {
	u := undoable.NewWithDefaults(counter)
	seed := history.History[int]{Present: 3, Past: []int{1, 2}}

	h := u.Reduce(undoable.FromHistory(seed), undoable.Undo(), env{})

	// The present was restamped, so it is recoverable by redo
	assertHistory(t, h, []int{1}, 2, []int{3})
}

func TestInitializeFromHistoryIgnoreInitialState(t *testing.T) {
	cfg := undoable.DefaultConfig[int]().WithIgnoreInitialState(true)
	u := undoable.New(counter, cfg)
	seed := history.History[int]{Present: 3, Past: []int{1, 2}}

	h := u.Reduce(undoable.FromHistory(seed), undoable.Undo(), env{})

	// Adopted as is: no latest unfiltered state to push to the future
	assertHistory(t, h, []int{1}, 2, nil)
}

func TestIgnoreInitialState(t *testing.T) {
	cfg := undoable.DefaultConfig[int]().WithIgnoreInitialState(true)
	u := undoable.New(counter, cfg)

	h := run(u, undoable.Absent[int](), inc(), inc())
	assertHistory(t, h, []int{101}, 102, nil)
}

func TestAbsentAfterInitUsesCache(t *testing.T) {
	u := undoable.NewWithDefaults(counter)
	_ = run(u, undoable.FromState(1), inc())

	h := u.Reduce(undoable.Absent[int](), inc(), env{})
	assertHistory(t, h, []int{1}, 2, nil)
}

func TestInitializationHappensOnce(t *testing.T) {
	calls := 0
	reducer := func(state int, action undoable.Action, ctx env) int {
		if action.Type == undoable.CreateHistoryType {
			calls++
		}
		return counter(state, action, ctx)
	}
	u := undoable.NewWithDefaults(reducer)

	for i := 0; i < 3; i++ {
		_ = u.Reduce(undoable.Absent[int](), inc(), env{})
	}

	if calls != 1 {
		t.Errorf("bootstrap calls = %d, want 1", calls)
	}
}

func TestBootstrapPanicDoesNotWedgeInstance(t *testing.T) {
	fail := true
	reducer := func(state int, action undoable.Action, ctx env) int {
		if action.Type == undoable.CreateHistoryType && fail {
			fail = false
			panic("reducer failed")
		}
		return counter(state, action, ctx)
	}
	u := undoable.NewWithDefaults(reducer)

	func() {
		defer func() {
			if r := recover(); r != "reducer failed" {
				t.Errorf("recovered %v, want reducer panic", r)
			}
		}()
		u.Reduce(undoable.Absent[int](), inc(), env{})
	}()

	if _, ok := u.Initial(); ok {
		t.Fatal("failed bootstrap should leave the initial history unset")
	}

	done := make(chan history.History[int], 1)
	go func() {
		done <- u.Reduce(undoable.Absent[int](), inc(), env{})
	}()

	select {
	case h := <-done:
		assertHistory(t, h, []int{100}, 101, nil)
	case <-time.After(2 * time.Second):
		t.Fatal("Reduce blocked after a reducer panic")
	}

	initial, ok := u.Initial()
	if !ok {
		t.Fatal("second call should bootstrap")
	}
	assertHistory(t, initial, nil, 100, nil)
}

func TestStateSeedHonorsIgnoreInitialState(t *testing.T) {
	cfg := undoable.DefaultConfig[int]().WithIgnoreInitialState(true)
	u := undoable.New(counter, cfg)

	// No latest unfiltered state: the seed is not pushed into the past
	h := run(u, undoable.FromState(5), inc(), inc())
	assertHistory(t, h, []int{6}, 7, nil)
}

// Routing Tests

func TestProbeReturnsHistoryUnchanged(t *testing.T) {
	u := undoable.NewWithDefaults(counter)
	h := run(u, undoable.FromState(0), inc(), inc())

	got := u.Step(h, undoable.Action{}, env{})
	if !reflect.DeepEqual(got, h) {
		t.Errorf("probe changed history: %+v", got)
	}
}

func TestUndoRedo(t *testing.T) {
	u := undoable.NewWithDefaults(counter)
	h := run(u, undoable.FromState(0), inc(), inc(), inc())

	h = u.Step(h, undoable.Undo(), env{})
	assertHistory(t, h, []int{0, 1}, 2, []int{3})

	h = u.Step(h, undoable.Undo(), env{})
	assertHistory(t, h, []int{0}, 1, []int{2, 3})

	h = u.Step(h, undoable.Redo(), env{})
	assertHistory(t, h, []int{0, 1}, 2, []int{3})
}

func TestJumpActions(t *testing.T) {
	u := undoable.NewWithDefaults(counter)
	base := run(u, undoable.FromState(0), inc(), inc(), inc())

	tests := []struct {
		name    string
		action  undoable.Action
		past    []int
		present int
		future  []int
	}{
		{"jump to past 0", undoable.JumpToPast(0), nil, 0, []int{1, 2, 3}},
		{"jump to past 1", undoable.JumpToPast(1), []int{0}, 1, []int{2, 3}},
		{"jump back 2", undoable.Jump(-2), []int{0}, 1, []int{2, 3}},
		{"jump zero", undoable.Jump(0), []int{0, 1, 2}, 3, nil},
		{"jump to future out of range", undoable.JumpToFuture(0), []int{0, 1, 2}, 3, nil},
		{"jump to past out of range", undoable.JumpToPast(7), []int{0, 1, 2}, 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := u.Step(base, tt.action, env{})
			assertHistory(t, h, tt.past, tt.present, tt.future)
		})
	}
}

func TestJumpForward(t *testing.T) {
	u := undoable.NewWithDefaults(counter)
	h := run(u, undoable.FromState(0), inc(), inc(), inc(), undoable.JumpToPast(0))

	h = u.Step(h, undoable.Jump(2), env{})
	assertHistory(t, h, []int{0, 1}, 2, []int{3})

	h = u.Step(h, undoable.JumpToFuture(0), env{})
	assertHistory(t, h, []int{0, 1, 2}, 3, nil)
}

func TestClearHistory(t *testing.T) {
	u := undoable.NewWithDefaults(counter)
	h := run(u, undoable.FromState(0), inc(), inc(), undoable.Undo())

	h = u.Step(h, undoable.ClearHistory(), env{})
	assertHistory(t, h, nil, 1, nil)

	// The cleared present is a valid undo target again
	h = u.Step(h, inc(), env{})
	assertHistory(t, h, []int{1}, 2, nil)
}

func TestCustomClearHistoryTypes(t *testing.T) {
	cfg := undoable.DefaultConfig[int]().WithClearHistoryTypes("wipe", "reset-history")
	u := undoable.New(counter, cfg)

	for _, typ := range []string{"wipe", "reset-history"} {
		h := run(u, undoable.FromState(0), inc(), inc())
		h = u.Step(h, undoable.Action{Type: typ}, env{})
		assertHistory(t, h, nil, 2, nil)
	}

	// The default type no longer clears; the reducer ignores it
	h := run(u, undoable.FromState(0), inc())
	h = u.Step(h, undoable.ClearHistory(), env{})
	assertHistory(t, h, []int{0}, 1, nil)
}

func TestCustomControlTypes(t *testing.T) {
	cfg := undoable.DefaultConfig[int]()
	cfg.UndoType = "u"
	cfg.RedoType = "r"
	u := undoable.New(counter, cfg)

	h := run(u, undoable.FromState(0), inc(), undoable.Action{Type: "u"})
	assertHistory(t, h, nil, 0, []int{1})

	h = u.Step(h, undoable.Action{Type: "r"}, env{})
	assertHistory(t, h, []int{0}, 1, nil)
}

func TestInitTypeResetsToInitialHistory(t *testing.T) {
	u := undoable.NewWithDefaults(counter)
	h := run(u, undoable.FromState(0), inc(), inc(), inc(), undoable.Undo())

	h = u.Step(h, undoable.Action{Type: undoable.InitType}, env{})

	initial, _ := u.Initial()
	if !reflect.DeepEqual(h, initial) {
		t.Errorf("got %+v, want initial %+v", h, initial)
	}
	assertHistory(t, h, nil, 0, nil)
}

func TestEmptyInitTypesDisableReset(t *testing.T) {
	cfg := undoable.DefaultConfig[int]().WithInitTypes()
	u := undoable.New(counter, cfg)

	h := run(u, undoable.FromState(0), inc(), undoable.Action{Type: undoable.InitType})
	assertHistory(t, h, []int{0}, 1, nil)
}

func TestUnchangedStateIsNotRecorded(t *testing.T) {
	u := undoable.NewWithDefaults(counter)
	h := run(u, undoable.FromState(0), inc())

	got := u.Step(h, undoable.Action{Type: "unknown"}, env{})
	if !reflect.DeepEqual(got, h) {
		t.Errorf("unknown action changed history: %+v", got)
	}

	got = u.Step(h, set(1), env{})
	if !reflect.DeepEqual(got, h) {
		t.Errorf("setting the same value changed history: %+v", got)
	}
}

func TestLimit(t *testing.T) {
	u := undoable.New(counter, undoable.DefaultConfig[int]().WithLimit(3))
	h := run(u, undoable.FromState(0), inc(), inc())
	assertHistory(t, h, []int{0, 1}, 2, nil)

	h = u.Step(h, inc(), env{})
	assertHistory(t, h, []int{1, 2}, 3, nil)

	h = u.Step(h, inc(), env{})
	assertHistory(t, h, []int{2, 3}, 4, nil)
}

func TestReducerReceivesContext(t *testing.T) {
	var seen []int
	reducer := func(state int, action undoable.Action, ctx env) int {
		seen = append(seen, ctx.Step)
		return counter(state, action, ctx)
	}
	u := undoable.NewWithDefaults(reducer)

	h := u.Reduce(undoable.FromState(0), inc(), env{Step: 7})
	_ = u.Step(h, inc(), env{Step: 8})

	if !reflect.DeepEqual(seen, []int{7, 8}) {
		t.Errorf("contexts seen = %v, want [7 8]", seen)
	}
}

// Filter Tests

func TestFilteredActionOnlyUpdatesPresent(t *testing.T) {
	cfg := undoable.DefaultConfig[int]().WithFilter(undoable.ExcludeAction[int]("set"))
	u := undoable.New(counter, cfg)
	h := run(u, undoable.FromState(0), inc(), inc())

	got := u.Step(h, set(50), env{})
	assertHistory(t, got, []int{0, 1}, 50, nil)

	wantLatest, _ := h.LatestUnfiltered()
	gotLatest, _ := got.LatestUnfiltered()
	if gotLatest != wantLatest {
		t.Errorf("latest unfiltered = %d, want %d", gotLatest, wantLatest)
	}
}

func TestFilteredStateIsNotRecoverable(t *testing.T) {
	cfg := undoable.DefaultConfig[int]().WithFilter(undoable.ExcludeAction[int]("set"))
	u := undoable.New(counter, cfg)

	h := run(u, undoable.FromState(0), inc(), set(50), undoable.Undo())
	assertHistory(t, h, nil, 0, []int{1})

	h = u.Step(h, undoable.Redo(), env{})
	assertHistory(t, h, []int{0}, 1, nil)
}

func TestFilteredThenCommitted(t *testing.T) {
	cfg := undoable.DefaultConfig[int]().WithFilter(undoable.ExcludeAction[int]("set"))
	u := undoable.New(counter, cfg)

	// The committed checkpoint is the last unfiltered state, not the filtered present
	h := run(u, undoable.FromState(0), set(50), inc())
	assertHistory(t, h, []int{0}, 51, nil)
}

func TestFilterSeesCandidateAndHistory(t *testing.T) {
	var gotCandidate, gotPast int
	filter := func(action undoable.Action, candidate int, h history.History[int]) bool {
		gotCandidate = candidate
		gotPast = len(h.Past)
		return true
	}
	u := undoable.New(counter, undoable.DefaultConfig[int]().WithFilter(filter))

	_ = run(u, undoable.FromState(0), inc(), inc())

	if gotCandidate != 2 || gotPast != 1 {
		t.Errorf("filter saw candidate=%d past=%d, want 2 and 1", gotCandidate, gotPast)
	}
}

// NeverSkipReducer Tests

func TestNeverSkipReducer(t *testing.T) {
	// The reducer doubles the state on undo, standing in for derived fields
	reducer := func(state int, action undoable.Action, ctx env) int {
		if action.Type == undoable.UndoType {
			return state * 2
		}
		return counter(state, action, ctx)
	}

	plain := undoable.NewWithDefaults(reducer)
	h := run(plain, undoable.FromState(1), inc(), undoable.Undo())
	assertHistory(t, h, nil, 1, []int{2})

	cfg := undoable.DefaultConfig[int]().WithNeverSkipReducer(true)
	rerun := undoable.New(reducer, cfg)
	h = run(rerun, undoable.FromState(1), inc(), undoable.Undo())
	assertHistory(t, h, nil, 2, []int{2})

	// The navigated state stays the latest unfiltered one
	latest, _ := h.LatestUnfiltered()
	if latest != 1 {
		t.Errorf("latest unfiltered = %d, want 1", latest)
	}
}

// Hook Tests

func TestHooksSeeTransitions(t *testing.T) {
	var kinds []undoable.Kind
	hook := undoable.NewHookFunc("record", func(tr undoable.Transition) {
		kinds = append(kinds, tr.Kind)
	})
	cfg := undoable.DefaultConfig[int]().
		WithFilter(undoable.ExcludeAction[int]("set")).
		WithHooks(hook)
	u := undoable.New(counter, cfg)

	_ = run(u, undoable.FromState(0),
		inc(),
		set(9),
		undoable.Action{Type: "unknown"},
		undoable.Undo(),
		undoable.Redo(),
		undoable.Jump(-1),
		undoable.ClearHistory(),
		undoable.Action{Type: undoable.InitType},
	)

	want := []undoable.Kind{
		undoable.KindInsert,
		undoable.KindFiltered,
		undoable.KindUndo,
		undoable.KindRedo,
		undoable.KindJump,
		undoable.KindClearHistory,
		undoable.KindInit,
	}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("kinds = %v, want %v", kinds, want)
	}
}

func TestTransitionCarriesInstanceAndLengths(t *testing.T) {
	var last undoable.Transition
	hook := undoable.NewHookFunc("last", func(tr undoable.Transition) { last = tr })
	u := undoable.New(counter, undoable.DefaultConfig[int]().WithHooks(hook))

	_ = run(u, undoable.FromState(0), inc(), inc(), undoable.Undo())

	if last.Instance != u.ID() {
		t.Errorf("Instance = %q, want %q", last.Instance, u.ID())
	}
	if last.PastLen != 1 || last.FutureLen != 1 {
		t.Errorf("lengths = (%d, %d), want (1, 1)", last.PastLen, last.FutureLen)
	}
	if last.Action.Type != undoable.UndoType {
		t.Errorf("Action = %q, want %q", last.Action.Type, undoable.UndoType)
	}
}

func TestConfigResolvesDefaults(t *testing.T) {
	u := undoable.New(counter, undoable.Config[int]{Limit: -4})
	cfg := u.Config()

	if cfg.Limit != 0 {
		t.Errorf("Limit = %d, want 0", cfg.Limit)
	}
	if cfg.UndoType != undoable.UndoType || cfg.JumpType != undoable.JumpType {
		t.Errorf("control types not defaulted: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.ClearHistoryTypes, []string{undoable.ClearHistoryType}) {
		t.Errorf("ClearHistoryTypes = %v", cfg.ClearHistoryTypes)
	}
	if !reflect.DeepEqual(cfg.InitTypes, []string{undoable.InitType}) {
		t.Errorf("InitTypes = %v", cfg.InitTypes)
	}
	if cfg.Equal == nil || cfg.Logger == nil {
		t.Error("Equal and Logger should be set")
	}
}
