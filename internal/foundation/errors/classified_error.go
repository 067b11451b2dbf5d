package errors

import (
	"errors"
	"strings"
)

// ClassifiedError is an error with a category, a severity and optional context.
type ClassifiedError struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

func (e *ClassifiedError) Error() string {
	var b strings.Builder
	b.WriteString("[" + string(e.category) + ":" + string(e.severity) + "] " + e.message)
	if e.cause != nil {
		b.WriteString(": " + e.cause.Error())
	}
	return b.String()
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

func (e *ClassifiedError) Category() ErrorCategory { return e.category }
func (e *ClassifiedError) Severity() ErrorSeverity { return e.severity }
func (e *ClassifiedError) Message() string         { return e.message }
func (e *ClassifiedError) Cause() error            { return e.cause }
func (e *ClassifiedError) Context() ErrorContext   { return e.context }

// Path returns the "path" context value, when one was attached.
func (e *ClassifiedError) Path() (string, bool) { return e.context.Text("path") }

// WithContext returns a copy of e with key set.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	c := *e
	c.context = e.context.with(key, value)
	return &c
}

// Is matches another ClassifiedError with the same category and message.
func (e *ClassifiedError) Is(target error) bool {
	t, ok := target.(*ClassifiedError)
	return ok && t.category == e.category && t.message == e.message
}

// AsClassified finds the first ClassifiedError in the chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var c *ClassifiedError
	ok := errors.As(err, &c)
	return c, ok
}

// IsClassified reports whether the chain contains a ClassifiedError.
func IsClassified(err error) bool {
	_, ok := AsClassified(err)
	return ok
}

// HasCategory reports whether the first ClassifiedError in the chain has category.
func HasCategory(err error, category ErrorCategory) bool {
	c, ok := AsClassified(err)
	return ok && c.category == category
}
