// Package errors holds griddle's classified errors: a category that picks the
// process exit code, a severity that picks the log level, and context such as
// the offending path. Sentinels (ErrNotFound, ErrNotADirectory, ...) stay
// reachable through errors.Is.
//
//	err := errors.WrapError(cause, errors.CategoryConversion, "markdown conversion failed").
//		WithContext("path", input).
//		Build()
package errors
