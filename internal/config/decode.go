package config

import (
	"errors"
	"math"
	"slices"

	"github.com/dshills/undoable/internal/config/loader"
	"github.com/dshills/undoable/internal/logging"
)

// Decode converts a merged configuration map into Options.
// Unknown keys are ignored. Every type error is reported.
func Decode(m map[string]any) (Options, error) {
	d := decoder{m: m}
	var opts Options

	opts.Limit = d.int("limit")
	opts.UndoType = d.string("undo_type")
	opts.RedoType = d.string("redo_type")
	opts.JumpType = d.string("jump_type")
	opts.JumpToPastType = d.string("jump_to_past_type")
	opts.JumpToFutureType = d.string("jump_to_future_type")
	opts.ClearHistoryTypes = d.actions("clear_history_type")
	opts.InitTypes = d.actions("init_types")
	opts.NeverSkipReducer = d.bool("never_skip_reducer")
	opts.IgnoreInitialState = d.bool("ignore_initial_state")

	opts.Filter = FilterOptions{
		Include:    d.actions("filter.include"),
		Exclude:    d.actions("filter.exclude"),
		Script:     d.string("filter.script"),
		ScriptFile: d.string("filter.script_file"),
	}

	opts.Logging = logging.Config{
		Level:      d.stringPtr("logging.level"),
		Format:     d.stringPtr("logging.format"),
		Sink:       d.stringPtr("logging.sink"),
		File:       d.stringPtr("logging.file"),
		MaxSizeMB:  d.intPtr("logging.max_size_mb"),
		MaxBackups: d.intPtr("logging.max_backups"),
		MaxAgeDays: d.intPtr("logging.max_age_days"),
		Compress:   d.boolPtr("logging.compress"),
	}

	if opts.Limit < 0 {
		d.fail(valueError("limit", opts.Limit, "is negative"))
	}

	if err := errors.Join(d.errs...); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// ParseActions normalizes an action type setting into a list.
// A non-empty string becomes a one-element list, a list of strings is
// copied, and anything else, the empty string included, yields defaults.
func ParseActions(raw any, defaults []string) []string {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return defaults
		}
		return []string{v}
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return defaults
			}
			out = append(out, s)
		}
		return out
	default:
		return defaults
	}
}

// decoder reads typed values from a nested map and collects type errors.
type decoder struct {
	m    map[string]any
	errs []error
}

func (d *decoder) fail(err error) {
	d.errs = append(d.errs, err)
}

func (d *decoder) lookup(path string) (any, bool) {
	v, ok := loader.GetByPath(d.m, path)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (d *decoder) string(path string) string {
	if p := d.stringPtr(path); p != nil {
		return *p
	}
	return ""
}

func (d *decoder) stringPtr(path string) *string {
	v, ok := d.lookup(path)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		d.fail(typeError(path, "string", v))
		return nil
	}
	return &s
}

func (d *decoder) int(path string) int {
	if p := d.intPtr(path); p != nil {
		return *p
	}
	return 0
}

func (d *decoder) intPtr(path string) *int {
	v, ok := d.lookup(path)
	if !ok {
		return nil
	}

	var n int
	switch val := v.(type) {
	case int:
		n = val
	case int64:
		n = int(val)
	case int32:
		n = int(val)
	case uint64:
		n = int(val)
	case float64:
		if val != math.Trunc(val) {
			d.fail(typeError(path, "integer", v))
			return nil
		}
		n = int(val)
	default:
		d.fail(typeError(path, "integer", v))
		return nil
	}
	return &n
}

func (d *decoder) bool(path string) bool {
	if p := d.boolPtr(path); p != nil {
		return *p
	}
	return false
}

func (d *decoder) boolPtr(path string) *bool {
	v, ok := d.lookup(path)
	if !ok {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		d.fail(typeError(path, "boolean", v))
		return nil
	}
	return &b
}

// actions decodes a string or list of strings. Unset yields nil.
func (d *decoder) actions(path string) []string {
	v, ok := loader.GetByPath(d.m, path)
	if !ok {
		return nil
	}

	switch val := v.(type) {
	case string, []string:
		return ParseActions(val, nil)
	case []any:
		for _, item := range val {
			if _, ok := item.(string); !ok {
				d.fail(typeError(path, "list of strings", item))
				return nil
			}
		}
		return ParseActions(val, nil)
	case nil:
		// An explicit null (YAML ~) disables the action.
		return []string{}
	default:
		d.fail(typeError(path, "string or list of strings", v))
		return nil
	}
}
