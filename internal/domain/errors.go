package domain

import "fmt"

// ErrorCode is the machine-readable error code returned to API clients.
type ErrorCode string

const (
	CodeFileFormat       ErrorCode = "FILE_FORMAT_ERROR"
	CodeFileSize         ErrorCode = "FILE_SIZE_ERROR"
	CodeWhisperService   ErrorCode = "WHISPER_SERVICE_ERROR"
	CodeTranscription    ErrorCode = "TRANSCRIPTION_ERROR"
	CodeClaudeCLI        ErrorCode = "CLAUDE_CLI_ERROR"
	CodeTimeout          ErrorCode = "TIMEOUT_ERROR"
	CodeSessionNotFound  ErrorCode = "SESSION_NOT_FOUND"
	CodeSummaryFinalized ErrorCode = "SUMMARY_FINALIZED"
	CodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// Error is the application error type. Every failure that can reach a client
// is mapped into one of these so the HTTP layer can render a code, a message
// and a retry hint without inspecting the cause.
type Error struct {
	Code         ErrorCode
	Message      string
	RetryAllowed bool
	Err          error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors by code, so wrapped errors compare equal to the sentinels
// below under errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NewError creates an application error without a cause.
func NewError(code ErrorCode, message string, retryAllowed bool) *Error {
	return &Error{Code: code, Message: message, RetryAllowed: retryAllowed}
}

// WrapError creates an application error wrapping an underlying cause.
func WrapError(err error, code ErrorCode, message string, retryAllowed bool) *Error {
	return &Error{Code: code, Message: message, RetryAllowed: retryAllowed, Err: err}
}

var (
	ErrSessionNotFound  = NewError(CodeSessionNotFound, "session not found", false)
	ErrSummaryFinalized = NewError(CodeSummaryFinalized, "summary is already finalized", false)
)
