package config

import (
	"log/slog"

	"github.com/dshills/undoable/internal/script"
	"github.com/dshills/undoable/internal/undoable"
)

// Resolve builds an undoable.Config from opts.
//
// Include, exclude and script filters are combined; a state is recorded
// only if all of them keep it. A script that fails to compile is logged and
// ignored. The returned function releases the script state.
func Resolve[S any](opts Options, logger *slog.Logger, conv script.Converter[S]) (undoable.Config[S], func() error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	closeFn := func() error { return nil }

	cfg := undoable.DefaultConfig[S]().
		WithLimit(opts.Limit).
		WithNeverSkipReducer(opts.NeverSkipReducer).
		WithIgnoreInitialState(opts.IgnoreInitialState).
		WithLogger(logger)

	if opts.UndoType != "" {
		cfg.UndoType = opts.UndoType
	}
	if opts.RedoType != "" {
		cfg.RedoType = opts.RedoType
	}
	if opts.JumpType != "" {
		cfg.JumpType = opts.JumpType
	}
	if opts.JumpToPastType != "" {
		cfg.JumpToPastType = opts.JumpToPastType
	}
	if opts.JumpToFutureType != "" {
		cfg.JumpToFutureType = opts.JumpToFutureType
	}
	if opts.ClearHistoryTypes != nil {
		cfg = cfg.WithClearHistoryTypes(opts.ClearHistoryTypes...)
	}
	if opts.InitTypes != nil {
		cfg = cfg.WithInitTypes(opts.InitTypes...)
	}

	var filters []undoable.Filter[S]
	if len(opts.Filter.Include) > 0 {
		filters = append(filters, undoable.IncludeAction[S](opts.Filter.Include...))
	}
	if len(opts.Filter.Exclude) > 0 {
		filters = append(filters, undoable.ExcludeAction[S](opts.Filter.Exclude...))
	}

	if opts.Filter.Script != "" {
		name := opts.Filter.ScriptName()
		s, err := script.Compile(opts.Filter.Script, conv,
			script.WithName(name),
			script.WithLogger(logger),
		)
		if err != nil {
			logger.Warn("filter script failed to compile, ignoring it",
				"script", name,
				"error", err,
			)
		} else {
			filters = append(filters, s.Filter())
			closeFn = s.Close
		}
	}

	cfg = cfg.WithFilter(undoable.CombineFilters(filters...))
	return cfg, closeFn
}
