package errors

// ErrorBuilder assembles a ClassifiedError.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts an error of category with severity error.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{category: category, severity: SeverityError, message: message}}
}

// WrapError starts an error of category caused by err.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	return NewError(category, message).WithCause(err)
}

func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.err.severity = severity
	return b
}

func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.err.cause = err
	return b
}

func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context = b.err.context.with(key, value)
	return b
}

// Build returns the error. The builder may be reused afterwards.
func (b *ErrorBuilder) Build() *ClassifiedError {
	e := b.err
	return &e
}

// Shorthands. Errors that stop a run before any file is converted are fatal.

// ConfigError reports an unusable configuration file or template set.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).WithSeverity(SeverityFatal)
}

// ValidationError reports bad command line or path arguments.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).WithSeverity(SeverityFatal)
}

// NotFoundError reports a missing file or folder. It wraps ErrNotFound.
func NotFoundError(message string) *ErrorBuilder {
	return NewError(CategoryNotFound, message).WithCause(ErrNotFound)
}

// NotADirectoryError reports a file where a folder was expected. It wraps ErrNotADirectory.
func NotADirectoryError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).WithCause(ErrNotADirectory)
}

// ConversionError reports a document that could not be converted.
func ConversionError(message string) *ErrorBuilder {
	return NewError(CategoryConversion, message)
}

// FileSystemError reports a failed read or write outside a single conversion.
func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message)
}

// InternalError reports a bug.
func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).WithSeverity(SeverityFatal)
}
