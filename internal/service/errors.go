package service

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorType int

const (
	ErrConfig ErrorType = iota
	ErrFileNotFound
	ErrNetwork
	ErrAPI
	ErrRemoteJob
	ErrFileWrite
	ErrUnknown
)

// Error is a pipeline failure classified for the exit boundary.
// Message is the user-facing one-liner, Cause the underlying error.
type Error struct {
	Type    ErrorType
	Message string
	Context map[string]any
	Cause   error
}

func NewError(errorType ErrorType, message string) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
	}
}

func NewErrorWithCause(errorType ErrorType, message string, cause error) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
		Cause:   cause,
	}
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) WithContext(key string, value any) *Error {
	e.Context[key] = value
	return e
}

// Detail renders the type and context for debug logs
func (e *Error) Detail() string {
	parts := []string{fmt.Sprintf("[%s] %s", e.Type, e.Error())}
	if len(e.Context) > 0 {
		ctxParts := make([]string, 0, len(e.Context))
		for k, v := range e.Context {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("context: %s", strings.Join(ctxParts, ", ")))
	}
	return strings.Join(parts, " | ")
}

func (t ErrorType) String() string {
	switch t {
	case ErrConfig:
		return "Config"
	case ErrFileNotFound:
		return "FileNotFound"
	case ErrNetwork:
		return "Network"
	case ErrAPI:
		return "API"
	case ErrRemoteJob:
		return "RemoteJob"
	case ErrFileWrite:
		return "FileWrite"
	default:
		return "Unknown"
	}
}

// Advice returns a hint for the user about how to fix err
func Advice(err error) string {
	var svcErr *Error
	if !errors.As(err, &svcErr) {
		return "Please review the error above"
	}

	switch svcErr.Type {
	case ErrConfig:
		return "Set ASSEMBLYAI_API_KEY in the environment or in a .env file in the working directory"
	case ErrFileNotFound:
		return "Please check that the file path is correct and the file is readable"
	case ErrNetwork:
		return "Please check network connectivity to the AssemblyAI API"
	case ErrAPI:
		return "Please check that the API key is valid and review the AssemblyAI service status"
	case ErrRemoteJob:
		return "The service could not transcribe this file; check that it contains a supported audio track"
	case ErrFileWrite:
		return "Please ensure the directory of the input file is writable"
	default:
		return "Please review the error above"
	}
}

func IsErrorType(err error, errorType ErrorType) bool {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Type == errorType
	}
	return false
}

func WrapError(err error, errorType ErrorType, message string) *Error {
	return NewErrorWithCause(errorType, message, err)
}

// ExitCode maps a pipeline result to the process exit status
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
