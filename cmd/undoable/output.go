package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/undoable/internal/docstate"
	"github.com/dshills/undoable/internal/history"
	"github.com/dshills/undoable/internal/undoable"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type historyView struct {
	Past    []docstate.Document `json:"past"`
	Present docstate.Document   `json:"present"`
	Future  []docstate.Document `json:"future"`
	Stats   statsView           `json:"stats"`
}

type statsView struct {
	Transitions uint64            `json:"transitions"`
	MaxPast     int               `json:"max_past"`
	MaxFuture   int               `json:"max_future"`
	Kinds       map[string]uint64 `json:"kinds,omitempty"`
}

func newStatsView(m *undoable.Metrics) statsView {
	snap := m.Snapshot()
	kinds := make(map[string]uint64)
	for _, km := range m.TopKinds(snap.Kinds) {
		kinds[km.Kind.String()] = km.Count
	}
	return statsView{
		Transitions: snap.TotalTransitions,
		MaxPast:     snap.MaxPast,
		MaxFuture:   snap.MaxFuture,
		Kinds:       kinds,
	}
}

func (env *appEnv) printHistory(format string, h history.History[docstate.Document], m *undoable.Metrics) error {
	env.outMu.Lock()
	defer env.outMu.Unlock()
	return writeHistory(env.stdout, format, h, m)
}

func writeHistory(w io.Writer, format string, h history.History[docstate.Document], m *undoable.Metrics) error {
	switch format {
	case formatJSON:
		view := historyView{
			Past:    nonNil(h.Past),
			Present: h.Present,
			Future:  nonNil(h.Future),
			Stats:   newStatsView(m),
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)

	default:
		timeline, current := h.Timeline()
		for i, doc := range timeline {
			marker := " "
			if i == current {
				marker = ">"
			}
			if _, err := fmt.Fprintf(w, "%s %3d  %s\n", marker, i-current, doc); err != nil {
				return err
			}
		}
		stats := newStatsView(m)
		_, err := fmt.Fprintf(w, "past=%d future=%d transitions=%d\n", h.UndoCount(), h.RedoCount(), stats.Transitions)
		return err
	}
}

func nonNil(docs []docstate.Document) []docstate.Document {
	if docs == nil {
		return []docstate.Document{}
	}
	return docs
}
