package logging

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Sink selects where records are written.
type Sink string

const (
	SinkStderr Sink = "stderr"
	SinkFile   Sink = "file"
	SinkNone   Sink = "none"
)

const (
	EnvLogLevel      = "UNDOABLE_LOG_LEVEL"
	EnvLogFormat     = "UNDOABLE_LOG_FORMAT"
	EnvLogSink       = "UNDOABLE_LOG_SINK"
	EnvLogFile       = "UNDOABLE_LOG_FILE"
	EnvLogMaxSizeMB  = "UNDOABLE_LOG_MAX_SIZE_MB"
	EnvLogMaxBackups = "UNDOABLE_LOG_MAX_BACKUPS"
	EnvLogMaxAgeDays = "UNDOABLE_LOG_MAX_AGE_DAYS"
	EnvLogCompress   = "UNDOABLE_LOG_COMPRESS"
)

// Config describes the logger. Nil fields fall back to DefaultConfig.
type Config struct {
	Level  *string `toml:"level,omitempty" yaml:"level,omitempty"`
	Format *string `toml:"format,omitempty" yaml:"format,omitempty"`
	Sink   *string `toml:"sink,omitempty" yaml:"sink,omitempty"`
	File   *string `toml:"file,omitempty" yaml:"file,omitempty"`

	MaxSizeMB  *int  `toml:"max_size_mb,omitempty" yaml:"max_size_mb,omitempty"`
	MaxBackups *int  `toml:"max_backups,omitempty" yaml:"max_backups,omitempty"`
	MaxAgeDays *int  `toml:"max_age_days,omitempty" yaml:"max_age_days,omitempty"`
	Compress   *bool `toml:"compress,omitempty" yaml:"compress,omitempty"`
}

// DefaultConfig is quiet: warnings and errors as text on stderr.
func DefaultConfig() Config {
	level := "warn"
	sink := string(SinkStderr)
	format := string(FormatText)
	maxSizeMB := 20
	maxBackups := 5
	maxAgeDays := 7
	compress := true

	return Config{
		Level:      &level,
		Format:     &format,
		Sink:       &sink,
		MaxSizeMB:  &maxSizeMB,
		MaxBackups: &maxBackups,
		MaxAgeDays: &maxAgeDays,
		Compress:   &compress,
	}
}

// Merge returns c with every non-nil field of override applied.
func (c Config) Merge(override Config) Config {
	if override.Level != nil {
		c.Level = override.Level
	}
	if override.Format != nil {
		c.Format = override.Format
	}
	if override.Sink != nil {
		c.Sink = override.Sink
	}
	if override.File != nil {
		c.File = override.File
	}
	if override.MaxSizeMB != nil {
		c.MaxSizeMB = override.MaxSizeMB
	}
	if override.MaxBackups != nil {
		c.MaxBackups = override.MaxBackups
	}
	if override.MaxAgeDays != nil {
		c.MaxAgeDays = override.MaxAgeDays
	}
	if override.Compress != nil {
		c.Compress = override.Compress
	}
	return c
}

// WithEnv applies the UNDOABLE_LOG_* environment variables.
func (c Config) WithEnv() Config {
	applyString := func(dst **string, env string) {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*dst = &v
		}
	}
	applyBool := func(dst **bool, env string) {
		raw := strings.TrimSpace(os.Getenv(env))
		if raw == "" {
			return
		}
		v := !isDisabledString(raw)
		*dst = &v
	}
	applyInt := func(dst **int, env string) {
		raw := strings.TrimSpace(os.Getenv(env))
		if raw == "" {
			return
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return
		}
		*dst = &n
	}

	applyString(&c.Level, EnvLogLevel)
	applyString(&c.Format, EnvLogFormat)
	applyString(&c.Sink, EnvLogSink)
	applyString(&c.File, EnvLogFile)
	applyInt(&c.MaxSizeMB, EnvLogMaxSizeMB)
	applyInt(&c.MaxBackups, EnvLogMaxBackups)
	applyInt(&c.MaxAgeDays, EnvLogMaxAgeDays)
	applyBool(&c.Compress, EnvLogCompress)
	return c
}

// Normalize lowercases enum fields, clamps negative sizes and validates.
func (c Config) Normalize() (Config, error) {
	normalizeString := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := strings.ToLower(strings.TrimSpace(*s))
		if v == "" {
			return nil
		}
		return &v
	}
	clamp := func(n *int) *int {
		if n != nil && *n < 0 {
			zero := 0
			return &zero
		}
		return n
	}

	c.Level = normalizeString(c.Level)
	c.Format = normalizeString(c.Format)
	c.Sink = normalizeString(c.Sink)
	if c.File != nil {
		v := strings.TrimSpace(*c.File)
		if v == "" {
			c.File = nil
		} else {
			c.File = &v
		}
	}
	c.MaxSizeMB = clamp(c.MaxSizeMB)
	c.MaxBackups = clamp(c.MaxBackups)
	c.MaxAgeDays = clamp(c.MaxAgeDays)
	return c, c.Validate()
}

// Validate checks the enum fields.
func (c Config) Validate() error {
	if c.Level != nil {
		if _, err := ParseLevel(*c.Level); err != nil {
			return err
		}
	}
	if c.Format != nil {
		switch Format(*c.Format) {
		case FormatText, FormatJSON:
		default:
			return fmt.Errorf("logging.format: invalid %q", *c.Format)
		}
	}
	if c.Sink != nil {
		switch Sink(*c.Sink) {
		case SinkStderr, SinkFile, SinkNone:
		default:
			return fmt.Errorf("logging.sink: invalid %q", *c.Sink)
		}
	}
	return nil
}

func isDisabledString(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "0", "false", "no", "off":
		return true
	default:
		return false
	}
}
