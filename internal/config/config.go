package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/dshills/undoable/internal/config/loader"
	"github.com/dshills/undoable/internal/logging"
)

// Options is the decoded configuration.
type Options struct {
	// Limit bounds past plus present. Zero means unbounded.
	Limit int

	UndoType         string
	RedoType         string
	JumpType         string
	JumpToPastType   string
	JumpToFutureType string

	// ClearHistoryTypes and InitTypes are nil when unset, which selects
	// the defaults. An empty list disables the action.
	ClearHistoryTypes []string
	InitTypes         []string

	NeverSkipReducer   bool
	IgnoreInitialState bool

	Filter  FilterOptions
	Logging logging.Config
}

// FilterOptions selects which actions are recorded in the history.
// All configured filters must keep an action for it to be recorded.
type FilterOptions struct {
	// Include keeps only these action types.
	Include []string
	// Exclude drops these action types.
	Exclude []string
	// Script is Lua source defining filter(action, state, history).
	Script string
	// ScriptFile is read into Script by Loader.Load when Script is empty.
	// Relative paths are resolved against the config file's directory.
	ScriptFile string
}

// ScriptName names the script in logs and Lua error messages.
func (f FilterOptions) ScriptName() string {
	if f.ScriptFile != "" {
		return filepath.Base(f.ScriptFile)
	}
	return "filter"
}

// Loader reads Options from a config file and the environment.
type Loader struct {
	fs  loader.FileSystem
	env loader.Loader
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFS sets the file system config files are read from.
func WithFS(fsys loader.FileSystem) LoaderOption {
	return func(l *Loader) {
		l.fs = fsys
	}
}

// WithEnvLoader replaces the environment layer. Nil disables it.
func WithEnvLoader(env loader.Loader) LoaderOption {
	return func(l *Loader) {
		l.env = env
	}
}

// NewLoader creates a Loader reading the OS file system and UNDOABLE_*
// environment variables.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:  loader.DefaultFS(),
		env: loader.NewEnvLoader(loader.DefaultEnvPrefix),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the config file at path, layers the environment over it and
// decodes the result. An empty path skips the file layer.
func (l *Loader) Load(path string) (Options, error) {
	merged := make(map[string]any)

	if path != "" {
		data, err := l.loadFile(path)
		if err != nil {
			return Options{}, err
		}
		merged = loader.DeepMerge(merged, data)
	}

	if l.env != nil {
		data, err := l.env.Load()
		if err != nil {
			return Options{}, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, data)
	}

	opts, err := Decode(merged)
	if err != nil {
		return Options{}, err
	}

	if opts.Filter.ScriptFile != "" && path != "" && !filepath.IsAbs(opts.Filter.ScriptFile) {
		opts.Filter.ScriptFile = filepath.Join(filepath.Dir(path), opts.Filter.ScriptFile)
	}
	if opts.Filter.Script == "" && opts.Filter.ScriptFile != "" {
		data, err := l.fs.ReadFile(opts.Filter.ScriptFile)
		if err != nil {
			return Options{}, fmt.Errorf("reading filter script %s: %w", opts.Filter.ScriptFile, err)
		}
		opts.Filter.Script = string(data)
	}
	return opts, nil
}

func (l *Loader) loadFile(path string) (map[string]any, error) {
	if _, err := l.fs.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("stat config file %s: %w", path, err)
	}

	fl, err := loader.ForPath(l.fs, path)
	if err != nil {
		return nil, err
	}
	return fl.Load()
}

// Load reads Options using the default Loader.
func Load(path string) (Options, error) {
	return NewLoader().Load(path)
}
