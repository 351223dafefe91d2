package merge

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned by New when the scanner cannot be built.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrStoreAccess wraps every failure of the underlying source or store.
	ErrStoreAccess = errors.New("store access failed")
	// ErrProtocolViolation is returned when an iterator, group or accumulator is misused.
	ErrProtocolViolation = errors.New("protocol violation")
	// ErrClosed is returned by a scanner after Close.
	ErrClosed = errors.New("scanner closed")
)

// Error wraps a sentinel error with additional context and, optionally, the error that caused
// it.
type Error struct {
	err     error  // The underlying sentinel error
	context string // Additional error context
	cause   error  // The failure reported by a collaborator, if any
}

// Error satisfies the error interface
func (e *Error) Error() string {
	msg := e.err.Error()
	if e.context != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.context)
	}
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.cause.Error())
	}
	return msg
}

// Unwrap exposes both the sentinel and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.err}
	}
	return []error{e.err, e.cause}
}

// newError creates a new merge error with context
func newError(err error, format string, args ...interface{}) *Error {
	return &Error{
		err:     err,
		context: fmt.Sprintf(format, args...),
	}
}

// storeError reports a failed source or store operation.
func storeError(op string, cause error) *Error {
	return &Error{
		err:     ErrStoreAccess,
		context: op,
		cause:   cause,
	}
}
