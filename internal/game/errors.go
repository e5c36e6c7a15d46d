package game

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine errors so the transport layer can decide how
// to surface them: player mistakes go back to the player, invariant
// violations go to the operator.
type ErrorKind string

const (
	// KindValidation marks malformed input rejected before touching state.
	KindValidation ErrorKind = "validation"
	// KindRuleViolation marks a well-formed but illegal request (not your
	// turn, insufficient coins, wrong phase). State is unchanged.
	KindRuleViolation ErrorKind = "rule_violation"
	// KindStaleReference marks a response to something that already
	// resolved. Rejected idempotently.
	KindStaleReference ErrorKind = "stale_reference"
	// KindInvariant marks an internal invariant violation (deck underflow,
	// card not in hand). Fatal for the game instance.
	KindInvariant ErrorKind = "invariant"
)

// Error is the structured error returned by every engine operation.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newValidationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func newRuleError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindRuleViolation, Message: fmt.Sprintf(format, args...)}
}

func newStaleError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindStaleReference, Message: fmt.Sprintf(format, args...)}
}

func newInvariantError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvariant, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the ErrorKind of err, or "" if err is not an engine error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsInvariant reports whether err is an internal invariant violation.
func IsInvariant(err error) bool { return KindOf(err) == KindInvariant }

// IsStale reports whether err is a stale-reference rejection.
func IsStale(err error) bool { return KindOf(err) == KindStaleReference }
