package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestNormalizeValidates(t *testing.T) {
	_, err := Config{Format: strPtr("xml")}.Normalize()
	require.Error(t, err)

	_, err = Config{Sink: strPtr("syslog")}.Normalize()
	require.Error(t, err)

	neg := -3
	cfg, err := Config{Level: strPtr(" DEBUG "), File: strPtr("  "), MaxBackups: &neg}.Normalize()
	require.NoError(t, err)
	require.Equal(t, "debug", *cfg.Level)
	require.Nil(t, cfg.File)
	require.Equal(t, 0, *cfg.MaxBackups)
}

func TestMergeKeepsBaseForNilFields(t *testing.T) {
	base := DefaultConfig()
	merged := base.Merge(Config{Level: strPtr("debug")})

	require.Equal(t, "debug", *merged.Level)
	require.Equal(t, *base.Sink, *merged.Sink)
	require.Equal(t, *base.MaxSizeMB, *merged.MaxSizeMB)
}

func TestWithEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogSink, "none")
	t.Setenv(EnvLogMaxAgeDays, "30")
	t.Setenv(EnvLogCompress, "off")
	t.Setenv(EnvLogMaxBackups, "many")

	cfg := DefaultConfig().WithEnv()
	require.Equal(t, "error", *cfg.Level)
	require.Equal(t, "none", *cfg.Sink)
	require.Equal(t, 30, *cfg.MaxAgeDays)
	require.False(t, *cfg.Compress)
	require.Equal(t, 5, *cfg.MaxBackups)
}

func TestNewFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "test.log")

	logger, closeFn, err := New(Config{
		Level:  strPtr("info"),
		Format: strPtr("json"),
		Sink:   strPtr("file"),
		File:   &path,
	})
	require.NoError(t, err)

	logger.Info("hello", "answer", 42)
	logger.Debug("hidden")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"hello"`)
	require.Contains(t, string(data), `"answer":42`)
	require.NotContains(t, string(data), "hidden")
}

func TestNewNoneSink(t *testing.T) {
	logger, closeFn, err := New(Config{Sink: strPtr("none")})
	require.NoError(t, err)
	require.NotNil(t, logger)
	require.NoError(t, closeFn())
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, _, err := New(Config{Level: strPtr("chatty")})
	require.Error(t, err)
}
