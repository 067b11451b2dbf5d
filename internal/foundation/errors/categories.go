package errors

import "maps"

// ErrorCategory groups errors by what went wrong. The CLI maps it to an exit code.
type ErrorCategory string

const (
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryConversion ErrorCategory = "conversion"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity picks the log level an error is reported at.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning"
	SeverityInfo    ErrorSeverity = "info"
)

// ErrorContext carries structured detail such as the offending path.
type ErrorContext map[string]any

// Text returns the value stored under key when it is a string.
func (c ErrorContext) Text(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok
}

// with returns a copy of c with key set; c is never modified.
func (c ErrorContext) with(key string, value any) ErrorContext {
	out := make(ErrorContext, len(c)+1)
	maps.Copy(out, c)
	out[key] = value
	return out
}
