// Package logging builds the slog logger used by the command line tool.
//
// Records go to stderr, to a size-rotated file, or nowhere, as text or JSON.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultFileName is the log file used by the file sink when Config.File is unset.
const DefaultFileName = "undoable.log"

// New builds a logger from cfg layered over DefaultConfig and the
// environment. The returned function releases the sink.
func New(cfg Config) (*slog.Logger, func() error, error) {
	cfg = DefaultConfig().Merge(cfg).WithEnv()
	normalized, err := cfg.Normalize()
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	if normalized.Level != nil {
		level, _ = ParseLevel(*normalized.Level)
	}
	format := FormatText
	if normalized.Format != nil {
		format = Format(*normalized.Format)
	}
	sink := SinkStderr
	if normalized.Sink != nil {
		sink = Sink(*normalized.Sink)
	}

	writer, closeFn, err := resolveWriter(normalized, sink)
	if err != nil {
		return nil, nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(writer, opts)
	default:
		handler = slog.NewTextHandler(writer, opts)
	}

	return slog.New(handler), closeFn, nil
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logging.level: invalid %q", s)
	}
}

func resolveWriter(cfg Config, sink Sink) (io.Writer, func() error, error) {
	noop := func() error { return nil }

	switch sink {
	case SinkNone:
		return io.Discard, noop, nil
	case SinkStderr:
		return os.Stderr, noop, nil
	case SinkFile:
		path, err := filePath(cfg)
		if err != nil {
			return nil, nil, err
		}
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, nil, fmt.Errorf("logging: create log dir: %w", err)
			}
		}

		rot := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    derefInt(cfg.MaxSizeMB, 20),
			MaxBackups: derefInt(cfg.MaxBackups, 5),
			MaxAge:     derefInt(cfg.MaxAgeDays, 7),
			Compress:   derefBool(cfg.Compress, true),
		}
		return rot, rot.Close, nil
	default:
		return nil, nil, fmt.Errorf("logging: unknown sink %q", sink)
	}
}

func filePath(cfg Config) (string, error) {
	if cfg.File != nil && *cfg.File != "" {
		return *cfg.File, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("logging: resolve cache dir: %w", err)
	}
	return filepath.Join(dir, "undoable", DefaultFileName), nil
}

func derefInt(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func derefBool(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
