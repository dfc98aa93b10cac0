// Package errors provides structured error types for the logward logging facility.
// It distinguishes permanent failures (invalid configuration, unwritable log
// directory, rejected credentials) from temporary ones (remote store unreachable,
// timeouts) so callers and the remote connector can decide whether retrying makes sense.
//
// Example usage:
//
//	if err := os.MkdirAll(dir, 0o755); err != nil {
//	    return errors.NewPermanent("log directory not writable", err)
//	}
//
//	if err := es.Ping(ctx); err != nil {
//	    return errors.NewTemporary("remote store unreachable", err)
//	}
package errors

import (
	"fmt"
)

// PermanentError represents an error that won't succeed even if retried.
// Examples: invalid configuration, unwritable log directory, programming errors.
type PermanentError struct {
	msg   string
	cause error
}

// NewPermanent creates a new permanent error with the given message and optional cause.
func NewPermanent(msg string, cause error) error {
	return &PermanentError{msg: msg, cause: cause}
}

func (e *PermanentError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *PermanentError) Unwrap() error {
	return e.cause
}

// TemporaryError represents an error that might succeed if retried.
// Examples: remote store connection refused, network timeouts, rate limiting.
type TemporaryError struct {
	msg   string
	cause error
}

// NewTemporary creates a new temporary error with the given message and optional cause.
func NewTemporary(msg string, cause error) error {
	return &TemporaryError{msg: msg, cause: cause}
}

func (e *TemporaryError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *TemporaryError) Unwrap() error {
	return e.cause
}
