package errors

import (
	"errors"
	"fmt"
)

// As is a re-export of errors.As for convenient access in error handling code.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Is is a re-export of errors.Is for convenient access in error handling code.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// IsPermanent checks if an error is or wraps a PermanentError.
func IsPermanent(err error) bool {
	var perr *PermanentError
	return errors.As(err, &perr)
}

// IsTemporary checks if an error is or wraps a TemporaryError.
func IsTemporary(err error) bool {
	var terr *TemporaryError
	return errors.As(err, &terr)
}

// Wrap wraps an error with additional context while preserving the original error type.
// If err is already a typed error, it wraps it with the same type.
// Otherwise, it returns a PermanentError.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}

	if IsTemporary(err) {
		return NewTemporary(msg, err)
	}
	return NewPermanent(msg, err)
}

// Wrapf wraps an error with a formatted message while preserving the original error type.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}
