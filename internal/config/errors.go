package config

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch matches every *SettingError caused by a wrong type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidValue matches every *SettingError caused by a bad value.
	ErrInvalidValue = errors.New("invalid value")

	// ErrFileNotFound is returned when an explicit config path is missing.
	ErrFileNotFound = errors.New("config file not found")
)

// SettingError reports a setting that could not be decoded.
type SettingError struct {
	// Path is the dotted setting path, e.g. "filter.include".
	Path string
	// Value is the offending value as decoded from the file.
	Value any
	// Expected names the accepted type, when the type was wrong.
	Expected string
	// Reason explains why a value of the right type was rejected.
	Reason string
}

func (e *SettingError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("%s: expected %s, got %T", e.Path, e.Expected, e.Value)
	}
	return fmt.Sprintf("%s: %v %s", e.Path, e.Value, e.Reason)
}

// Is matches ErrTypeMismatch or ErrInvalidValue depending on the cause.
func (e *SettingError) Is(target error) bool {
	if e.Expected != "" {
		return target == ErrTypeMismatch
	}
	return target == ErrInvalidValue
}

func typeError(path, expected string, actual any) *SettingError {
	return &SettingError{Path: path, Value: actual, Expected: expected}
}

func valueError(path string, value any, reason string) *SettingError {
	return &SettingError{Path: path, Value: value, Reason: reason}
}
