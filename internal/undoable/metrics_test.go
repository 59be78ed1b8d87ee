package undoable

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	m.OnTransition(Transition{Kind: KindInsert, Action: Action{Type: "a"}, PastLen: 1, Duration: 2 * time.Millisecond})
	m.OnTransition(Transition{Kind: KindInsert, Action: Action{Type: "b"}, PastLen: 2, Duration: 4 * time.Millisecond})
	m.OnTransition(Transition{Kind: KindUndo, Action: Undo(), PastLen: 1, FutureLen: 1, Duration: time.Millisecond})

	if m.TotalTransitions() != 3 {
		t.Errorf("TotalTransitions = %d, want 3", m.TotalTransitions())
	}
	if m.Count(KindInsert) != 2 {
		t.Errorf("Count(insert) = %d, want 2", m.Count(KindInsert))
	}
	if m.Count(KindRedo) != 0 {
		t.Errorf("Count(redo) = %d, want 0", m.Count(KindRedo))
	}

	stats := m.KindStats(KindInsert)
	if stats == nil {
		t.Fatal("KindStats(insert) = nil")
	}
	if stats.MinDuration != 2*time.Millisecond || stats.MaxDuration != 4*time.Millisecond {
		t.Errorf("durations = (%v, %v)", stats.MinDuration, stats.MaxDuration)
	}
	if stats.AverageDuration() != 3*time.Millisecond {
		t.Errorf("AverageDuration = %v, want 3ms", stats.AverageDuration())
	}
	if stats.LastAction != "b" {
		t.Errorf("LastAction = %q, want b", stats.LastAction)
	}
	if m.KindStats(KindJump) != nil {
		t.Error("KindStats(jump) should be nil")
	}

	snap := m.Snapshot()
	if snap.MaxPast != 2 || snap.MaxFuture != 1 || snap.Kinds != 2 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.TotalDuration != 7*time.Millisecond {
		t.Errorf("TotalDuration = %v, want 7ms", snap.TotalDuration)
	}

	top := m.TopKinds(5)
	if len(top) != 2 || top[0].Kind != KindInsert {
		t.Errorf("TopKinds = %+v", top)
	}
	if top := m.TopKinds(1); len(top) != 1 || top[0].Kind != KindInsert {
		t.Errorf("TopKinds(1) = %+v", top)
	}
	if top := m.TopKinds(-1); len(top) != 0 {
		t.Errorf("TopKinds(-1) = %+v, want none", top)
	}

	m.Reset()
	if m.TotalTransitions() != 0 || m.Snapshot().Kinds != 0 {
		t.Error("Reset should clear metrics")
	}
}

func TestMetricsAsHook(t *testing.T) {
	m := NewMetrics()
	reducer := func(state int, action Action, _ struct{}) int {
		if action.Type == "inc" {
			return state + 1
		}
		return state
	}
	u := New(reducer, DefaultConfig[int]().WithHooks(m))

	h := u.Reduce(FromState(0), Action{Type: "inc"}, struct{}{})
	h = u.Step(h, Action{Type: "inc"}, struct{}{})
	h = u.Step(h, Undo(), struct{}{})
	_ = u.Step(h, Action{Type: "noop"}, struct{}{})

	if m.Count(KindInsert) != 2 || m.Count(KindUndo) != 1 {
		t.Errorf("counts = insert %d undo %d", m.Count(KindInsert), m.Count(KindUndo))
	}
	if m.TotalTransitions() != 3 {
		t.Errorf("TotalTransitions = %d, want 3", m.TotalTransitions())
	}
}

func TestAuditHook(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	hook := NewAuditHook(logger)

	hook.OnTransition(Transition{Instance: "abc", Kind: KindRedo, Action: Redo(), PastLen: 3})

	out := buf.String()
	for _, want := range []string{"history transition", "instance=abc", "kind=redo", "past=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("audit output %q missing %q", out, want)
		}
	}

	// A nil logger is a no-op
	NewAuditHook(nil).OnTransition(Transition{})
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	reducer := func(state int, action Action, _ struct{}) int { return state + 1 }
	u := New(reducer, DefaultConfig[int]().WithLogger(logger))

	_ = u.Reduce(Absent[int](), Action{Type: "inc"}, struct{}{})

	out := buf.String()
	for _, want := range []string{"dispatch start", "history is uninitialized", "inserted new state into history", "instance=" + u.ID()} {
		if !strings.Contains(out, want) {
			t.Errorf("debug output missing %q", want)
		}
	}
}
