package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"
	ErrWorkspace   ErrorCode = "WORKSPACE"

	// Fence errors (document side)
	ErrSameLineFence ErrorCode = "SAME_LINE_FENCE"
	ErrUnclosedFence ErrorCode = "UNCLOSED_FENCE"

	// Reference errors (source side)
	ErrFileNotFound   ErrorCode = "FILE_NOT_FOUND"
	ErrUnmatchedOpen  ErrorCode = "UNMATCHED_OPEN"
	ErrUnmatchedClose ErrorCode = "UNMATCHED_CLOSE"

	// Collaborator errors
	ErrHost     ErrorCode = "HOST"
	ErrStale    ErrorCode = "STALE_DOCUMENT"
	ErrWatch    ErrorCode = "WATCH"
	ErrNoActive ErrorCode = "NO_ACTIVE_DOCUMENT"

	// Check and render errors
	ErrInjectedCode   ErrorCode = "INJECTED_CODE"
	ErrSnippetMissing ErrorCode = "SNIPPET_MISSING"
	ErrFileWrite      ErrorCode = "FILE_WRITE"

	// Command outcome: some blocks failed though the command ran
	ErrBlocksFailed ErrorCode = "BLOCKS_FAILED"
)

// SnipError carries a stable Code next to a human message. Tests and
// renderers branch on the code, never on the message.
type SnipError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func (e *SnipError) Error() string {
	if e.Wrapped == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
}

func (e *SnipError) Unwrap() error { return e.Wrapped }

// Is matches any SnipError with the same code, so errors.Is works
// against a bare New(code, "").
func (e *SnipError) Is(target error) bool {
	var t *SnipError
	return errors.As(target, &t) && t.Code == e.Code
}

// WithDetail attaches a key/value for structured output and returns e.
func (e *SnipError) WithDetail(key string, value interface{}) *SnipError {
	if e.Details == nil {
		e.Details = map[string]interface{}{}
	}
	e.Details[key] = value
	return e
}

func New(code ErrorCode, message string) *SnipError {
	return &SnipError{Code: code, Message: message}
}

func Newf(code ErrorCode, format string, args ...interface{}) *SnipError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap returns nil for a nil err so call sites can wrap unconditionally.
func Wrap(err error, code ErrorCode, message string) *SnipError {
	if err == nil {
		return nil
	}
	return &SnipError{Code: code, Message: message, Wrapped: err}
}

func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *SnipError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

func find(err error) *SnipError {
	var e *SnipError
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// GetErrorCode returns the code of the outermost SnipError in err's
// chain, or ErrUnknown.
func GetErrorCode(err error) ErrorCode {
	if e := find(err); e != nil {
		return e.Code
	}
	return ErrUnknown
}

func IsErrorCode(err error, code ErrorCode) bool {
	return err != nil && GetErrorCode(err) == code
}

// GetErrorDetails returns the details of the outermost SnipError, or nil.
func GetErrorDetails(err error) map[string]interface{} {
	if e := find(err); e != nil {
		return e.Details
	}
	return nil
}

// MessageOf is the message without the code prefix or wrapped cause.
// Errors that are not SnipErrors give err.Error().
func MessageOf(err error) string {
	if e := find(err); e != nil {
		return e.Message
	}
	return err.Error()
}
