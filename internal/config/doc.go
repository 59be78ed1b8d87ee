// Package config resolves undoable configuration from files and the
// environment.
//
// Settings are layered with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← UNDOABLE_*, highest priority
//	├─────────────────────────────┤
//	│  2. Config File             │  ← undoable.toml / undoable.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← lowest priority
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: TOML, YAML and environment variable loading
//   - watcher: file watching for live reload
//
// # Basic Usage
//
//	opts, err := config.Load("undoable.toml")
//	if err != nil {
//	    return err
//	}
//	cfg, closeFn := config.Resolve[Doc](opts, logger, nil)
//	defer closeFn()
//	u := undoable.New(reduce, cfg)
//
// # File Format
//
//	limit = 50
//	undo_type = "@@app/UNDO"
//	clear_history_type = ["@@app/CLEAR", "@@app/LOAD"]
//	init_types = "@@app/INIT"
//	never_skip_reducer = false
//	ignore_initial_state = false
//
//	[filter]
//	exclude = ["doc/select"]
//	script_file = "filter.lua"
//
//	[logging]
//	level = "debug"
//
// Action type lists accept a single string or an array of strings.
package config
