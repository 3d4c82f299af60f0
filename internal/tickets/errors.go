package tickets

import (
	"errors"
	"fmt"
)

// Kind is the stable error tag surfaced to callers. Transport layers map
// kinds to status codes; the kind itself is the contract.
type Kind string

const (
	KindNotFound           Kind = "NOT_FOUND"
	KindQueueEmpty         Kind = "QUEUE_EMPTY"
	KindInvariantViolation Kind = "INVARIANT_VIOLATION"
	KindStoreUnavailable   Kind = "STORE_UNAVAILABLE"
	KindUnauthorized       Kind = "UNAUTHORIZED"
	KindValidation         Kind = "VALIDATION"
)

// Error carries a stable kind plus a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a tagged error without an underlying cause.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapStoreError tags an underlying store failure as transient.
func WrapStoreError(err error) *Error {
	return &Error{Kind: KindStoreUnavailable, Message: "ticket store unavailable", Err: err}
}

// KindOf extracts the kind from an error chain, or empty if untagged.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

var (
	ErrTicketNotFound = NewError(KindNotFound, "ticket not found")
	ErrQueueEmpty     = NewError(KindQueueEmpty, "no more tickets in queue")

	// ErrSecondInProgress rejects an update that would leave two tickets
	// in progress at once.
	ErrSecondInProgress = NewError(KindInvariantViolation, "another ticket is already in progress")

	// ErrTerminalStatus rejects transitions out of completed or skipped.
	ErrTerminalStatus = NewError(KindInvariantViolation, "ticket is in a terminal status")

	// ErrCompletionOrder signals corrupted completion timestamps detected
	// during wait-time estimation. Never silently clamped.
	ErrCompletionOrder = NewError(KindInvariantViolation, "completed tickets out of chronological order")
)
