package errors

import "errors"

var (
	// ErrNotFound indicates a requested root, file or template does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotADirectory indicates a path exists but is not a directory where one was expected.
	ErrNotADirectory = errors.New("not a directory")

	// ErrConversion indicates a document could not be converted to HTML.
	ErrConversion = errors.New("conversion failed")
)
