package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the machine-readable failure category surfaced to callers.
// Mapping a Kind to an HTTP status is the controller layer's job.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindForbidden
	KindValidation
	KindConflict
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation_failed"
	case KindConflict:
		return "conflict"
	case KindStorage:
		return "storage_failure"
	default:
		return "unknown"
	}
}

// Error is the typed failure returned by services. IDs carries every
// offending entity id for batch validation failures, not just the first.
type Error struct {
	Kind    Kind
	Message string
	IDs     []uint
	Err     error
}

func (e *Error) Error() string {
	if len(e.IDs) > 0 {
		parts := make([]string, len(e.IDs))
		for i, id := range e.IDs {
			parts[i] = fmt.Sprintf("%d", id)
		}
		return fmt.Sprintf("%s: %s [%s]", e.Kind, e.Message, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// Validation reports a batch-level validation failure; ids enumerates every
// offending reference so the caller can fix the whole request in one round trip.
func Validation(msg string, ids ...uint) *Error {
	return &Error{Kind: KindValidation, Message: msg, IDs: ids}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Storage(msg string, err error) *Error {
	return &Error{Kind: KindStorage, Message: msg, Err: err}
}

// KindOf extracts the failure category from an error chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// OffendingIDs returns the ids attached to a validation failure, if any.
func OffendingIDs(err error) []uint {
	var e *Error
	if errors.As(err, &e) {
		return e.IDs
	}
	return nil
}
