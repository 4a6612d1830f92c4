package errkit

import "fmt"

// Category represents the type of error.
type Category string

const (
	CategoryRuntime Category = "runtime"
	CategoryFetch   Category = "fetch"
	CategoryConfig  Category = "config"
)

// Error is a structured error with a stable code, suitable for
// errors.Is matching by code rather than by instance.
type Error struct {
	// Code is a unique error identifier (e.g. "E101").
	Code string

	// Category is the error type (runtime, fetch, config).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is extra context attached at the call site.
	Detail string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, msg)
	}
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Wrapped)
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an *Error with the same code.
// This makes sentinel instances usable with errors.Is even though
// every New call returns a fresh value.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithDetail attaches call-site detail and returns the error.
func (e *Error) WithDetail(format string, args ...any) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// New creates an error from a registered code.
// Unknown codes produce a generic runtime error carrying the code.
func New(code string) *Error {
	if tmpl, ok := registry[code]; ok {
		return &Error{
			Code:     code,
			Category: tmpl.Category,
			Message:  tmpl.Message,
		}
	}
	return &Error{
		Code:     code,
		Category: CategoryRuntime,
		Message:  "unknown error",
	}
}

// Wrap creates an error from a registered code wrapping a cause.
func Wrap(code string, err error) *Error {
	e := New(code)
	e.Wrapped = err
	return e
}
