// Package errs holds the error taxonomy shared by the engine and its adapters.
//
// Only configuration errors abort processing. Source and data-quality
// problems are reported as outcomes next to a best-effort result; the
// sentinels below let callers classify them with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable marks an evidence source that failed or timed out.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrUnknownFlag marks a flag id that is not in the catalog.
	ErrUnknownFlag = errors.New("unknown flag")

	// ErrMalformedInput marks a source payload that failed schema checks.
	ErrMalformedInput = errors.New("malformed input")

	// ErrConfiguration marks an invalid catalog or engine configuration.
	ErrConfiguration = errors.New("configuration error")

	// ErrNotFound is returned by repositories when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when appending a record whose key is taken.
	ErrAlreadyExists = errors.New("already exists")
)

// ConfigurationError describes which setting is invalid and why.
type ConfigurationError struct {
	Field  string
	Reason string
}

// NewConfigurationError creates a ConfigurationError.
func NewConfigurationError(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// UnknownFlagError carries the id that failed a catalog lookup.
type UnknownFlagError struct {
	ID int
}

func (e *UnknownFlagError) Error() string {
	return fmt.Sprintf("unknown flag: %d", e.ID)
}

func (e *UnknownFlagError) Unwrap() error {
	return ErrUnknownFlag
}
