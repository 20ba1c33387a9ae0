package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies a validation failure.
type ErrorCode string

const (
	// CodeMissingRequired indicates a required value is absent.
	CodeMissingRequired ErrorCode = "missing_required"
	// CodeTypeMismatch indicates a value has the wrong kind for its schema.
	CodeTypeMismatch ErrorCode = "type_mismatch"
	// CodeConstraintViolation indicates a value violates a kind constraint
	// (length, range, pattern, item count, enum membership).
	CodeConstraintViolation ErrorCode = "constraint_violation"
	// CodeUnionExhausted indicates no union alternative accepted the value.
	CodeUnionExhausted ErrorCode = "union_exhausted"
)

// Error describes a single validation failure. It carries the offending
// field path and value for diagnostics; union exhaustion additionally
// carries every alternative's message in declaration order.
type Error struct {
	Code         ErrorCode
	Path         string
	Value        any
	Message      string
	Alternatives []string // per-alternative messages for union_exhausted
}

// Error formats the failure for display, including code, message, and path.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	if len(e.Alternatives) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(e.Alternatives, "; "))
	}
	return b.String()
}

// Is reports whether target is a schema error with the same code, so
// callers can match failures with errors.Is against sentinel values.
func (e *Error) Is(target error) bool {
	var se *Error
	if !errors.As(target, &se) {
		return false
	}
	return se.Code == e.Code
}

func newError(code ErrorCode, path string, value any, format string, args ...any) *Error {
	return &Error{Code: code, Path: path, Value: value, Message: fmt.Sprintf(format, args...)}
}

// AsError extracts a schema error from err, unwrapping as needed.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
