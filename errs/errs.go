// Package errs holds the error kinds surfaced by the renderer.
//
// Configuration problems are reported as *ConfigError naming the offending
// field and are always detected before any parallel work starts.
// Failures reading parameters or writing images are reported as *IOError and
// unwrap to the underlying error unmodified.
package errs

import (
	"errors"
	"fmt"
)

// ConfigError is a rejected configuration value.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Config returns a *ConfigError for field.
func Config(field, format string, a ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, a...)}
}

// Prefix returns err with field prefixed when err is a *ConfigError,
// so nested validators can report the full path ("render.zoom[1].end").
func Prefix(prefix string, err error) error {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return &ConfigError{Field: prefix + "." + ce.Field, Reason: ce.Reason}
	}
	return err
}

// IOError is a failed read or write.
type IOError struct {
	Op   string // "read", "decode", "write", "encode"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// IO wraps err as an *IOError. It returns nil if err is nil.
func IO(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}

// IsConfig reports whether err is (or wraps) a *ConfigError.
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsIO reports whether err is (or wraps) an *IOError.
func IsIO(err error) bool {
	var ie *IOError
	return errors.As(err, &ie)
}
