package tymock

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	CodeFactoryNotFound ErrorCode = "factory_not_found"
	CodeInvalidFactory  ErrorCode = "invalid_factory"
	CodeGenericNotBound ErrorCode = "generic_not_bound"
	CodeNotCallable     ErrorCode = "not_callable"
	CodeInternal        ErrorCode = "internal"
)

// ErrFactoryNotFound is matched by errors.Is for lookups of unregistered keys.
var ErrFactoryNotFound = &Error{Code: CodeFactoryNotFound, Message: "factory not found"}

// Error is the error type returned by the runtime. Errors with equal codes
// match under errors.Is regardless of message or details.
type Error struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error renders "code: message", followed by the details in key order.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	for i, k := range slices.Sorted(maps.Keys(e.Details)) {
		if i == 0 {
			b.WriteString(" (")
		} else {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%v", k, e.Details[k])
		if i == len(e.Details)-1 {
			b.WriteString(")")
		}
	}
	return b.String()
}

func (e *Error) Is(target error) bool {
	var t *Error
	return errors.As(target, &t) && t.Code == e.Code
}

// NewError creates a new runtime error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf creates a new runtime error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return NewError(code, fmt.Sprintf(format, args...))
}

// WithDetail returns a copy of e with key set in its details.
func (e *Error) WithDetail(key string, value any) *Error {
	return e.WithDetails(map[string]any{key: value})
}

// WithDetails returns a copy of e with details merged in. It returns e
// itself when details is empty.
func (e *Error) WithDetails(details map[string]any) *Error {
	if len(details) == 0 {
		return e
	}
	merged := make(map[string]any, len(e.Details)+len(details))
	maps.Copy(merged, e.Details)
	maps.Copy(merged, details)
	return &Error{Code: e.Code, Message: e.Message, Details: merged}
}

// AsError maps any error to a runtime error. Errors that are not already
// runtime errors become CodeInternal.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var rtErr *Error
	if errors.As(err, &rtErr) {
		return rtErr
	}
	return NewError(CodeInternal, err.Error())
}
