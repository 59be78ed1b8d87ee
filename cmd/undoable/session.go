package main

import (
	"log/slog"
	"sync"

	"github.com/dshills/undoable/internal/config"
	"github.com/dshills/undoable/internal/docstate"
	"github.com/dshills/undoable/internal/history"
	"github.com/dshills/undoable/internal/undoable"
)

type docUndoable = undoable.Undoable[docstate.Document, struct{}]

// session owns an undoable document and the history threaded through it.
type session struct {
	mu sync.Mutex

	logger  *slog.Logger
	metrics *undoable.Metrics

	u           *docUndoable
	closeScript func() error
	h           history.History[docstate.Document]
	started     bool
}

func newSession(opts config.Options, logger *slog.Logger) *session {
	s := &session{
		logger:  logger,
		metrics: undoable.NewMetrics(),
	}
	s.configure(opts)
	return s
}

// configure rebuilds the reducer from opts. Once actions were applied the
// new reducer adopts the current history.
func (s *session) configure(opts config.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, closeScript := config.Resolve[docstate.Document](opts, s.logger, docstate.LuaValue)
	cfg = cfg.WithHooks(s.metrics, undoable.NewAuditHook(s.logger))

	if s.closeScript != nil {
		_ = s.closeScript()
	}
	s.u = undoable.New(docstate.Reduce, cfg)
	s.closeScript = closeScript

	in := undoable.Absent[docstate.Document]()
	if s.started {
		in = undoable.FromHistory(s.h)
	}
	s.h = s.u.Reduce(in, undoable.Action{}, struct{}{})
	s.started = true

	s.logger.Debug("reducer configured",
		"instance", s.u.ID(),
		"limit", cfg.Limit,
		"filtered", cfg.Filter != nil,
	)
}

func (s *session) apply(actions []undoable.Action) history.History[docstate.Document] {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range actions {
		s.h = s.u.Step(s.h, a, struct{}{})
	}
	return s.h
}

func (s *session) history() history.History[docstate.Document] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h
}

func (s *session) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closeScript == nil {
		return nil
	}
	err := s.closeScript()
	s.closeScript = nil
	return err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
