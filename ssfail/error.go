// Package ssfail implements the failure-or-value discipline: typed
// binding/evaluation errors carrying an ErrorCode, a message, and a
// stack trace captured at the throw site, plus the FailureOr[T] /
// FailureOrOwned[T] result types that thread them through binding and
// evaluation.
package ssfail

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCode classifies a failure. Structural binding errors are surfaced
// at bind time; resource errors at bind or evaluate time; runtime value
// errors only at evaluate time.
type ErrorCode int

const (
	// AttributeMissing: a NamedAttribute spec referenced a name absent
	// from the source schema.
	AttributeMissing ErrorCode = iota
	// AttributeExists: two projector outputs collided on the same result
	// name.
	AttributeExists
	// AttributeCountMismatch: a PositionedAttribute index was out of
	// range, or a Renaming's alias count didn't match its child's
	// result attribute count.
	AttributeCountMismatch
	// TypeMismatch: an expression's operand types are incompatible.
	TypeMismatch
	// MemoryExceeded: an allocator could not satisfy a request under
	// its configured ceiling.
	MemoryExceeded
	// EvaluationError: a runtime value error under an explicit strict
	// policy (e.g. strict-mode integer overflow). Division by zero is
	// NOT this code: it produces NULL.
	EvaluationError
)

var codeNames = [...]string{
	AttributeMissing:       "ATTRIBUTE_MISSING",
	AttributeExists:        "ATTRIBUTE_EXISTS",
	AttributeCountMismatch: "ATTRIBUTE_COUNT_MISMATCH",
	TypeMismatch:           "TYPE_MISMATCH",
	MemoryExceeded:         "MEMORY_EXCEEDED",
	EvaluationError:        "EVALUATION_ERROR",
}

// String renders the error code's wire name, used in Exception.Error().
func (c ErrorCode) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return "UNKNOWN_ERROR"
}

// Exception is the structural error type threaded through FailureOr. It
// carries a code and message plus a stack trace captured at construction
// for diagnostics; the stack is never part of Error()'s string so
// messages stay stable across environments.
type Exception struct {
	Code    ErrorCode
	Message string
	cause   error
}

// New constructs an Exception with the given code and message, capturing a
// stack trace at this call site.
func New(code ErrorCode, message string) *Exception {
	return &Exception{Code: code, Message: message, cause: errors.New(message)}
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(code ErrorCode, format string, args ...any) *Exception {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap annotates an existing Exception with additional context, the way a
// projector wraps a child's binding failure with its own description so
// the full chain of operations is visible in the final message. The
// original code and stack trace are preserved.
func Wrap(inner *Exception, context string) *Exception {
	if inner == nil {
		return nil
	}
	return &Exception{
		Code:    inner.Code,
		Message: context + ": " + inner.Message,
		cause:   errors.WithMessage(inner.cause, context),
	}
}

// Error implements the error interface with the taxonomy-stable
// "CODE: message" form.
func (e *Exception) Error() string {
	return e.Code.String() + ": " + e.Message
}

// Unwrap exposes the underlying stack-carrying cause for errors.Is/As.
func (e *Exception) Unwrap() error {
	return e.cause
}

// StackTrace returns the stack captured at the throw site, or nil if the
// cause doesn't carry one (should not happen for Exceptions built via New
// or Newf).
func (e *Exception) StackTrace() errors.StackTrace {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	if st, ok := errors.Cause(e.cause).(stackTracer); ok {
		return st.StackTrace()
	}
	return nil
}

// ContractViolation is a programming-error panic value: duplicate
// Renaming aliases, nil required arguments, Evaluate called with
// row_count > max_row_count. These are never part of the FailureOr
// channel: they abort via panic because the caller's contract, not the
// data, is broken.
type ContractViolation struct {
	Message string
}

func (c *ContractViolation) Error() string {
	return "contract violation: " + c.Message
}

// PanicContractViolation panics with a *ContractViolation built from the
// given message, formatted like fmt.Sprintf.
func PanicContractViolation(format string, args ...any) {
	panic(&ContractViolation{Message: fmt.Sprintf(format, args...)})
}
