package errors

import (
	"errors"
	"fmt"
)

// User-facing messages shown by the converter and the copy action.
const (
	MsgInvalidJSON = "Invalid JSON. Please check your input."
	MsgCopyFailed  = "Failed to copy the table."
)

// Standard application errors
var (
	ErrEmptyInput         = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON        = errors.New("invalid JSON format")
	ErrTrailingData       = errors.New("unexpected data after the JSON value")
	ErrNoInput            = errors.New("no input provided: pass a file or pipe JSON data to stdin")
	ErrNoTable            = errors.New("no table has been rendered")
	ErrSelectionFailed    = errors.New("selection failed")
	ErrCopyFailed         = errors.New("copy command failed")
	ErrClipboardUnsupport = errors.New("clipboard is not supported on this platform")
	ErrUnknownFormat      = errors.New("unknown output format")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput   ErrorType = "input"
	ErrorTypeParsing ErrorType = "parsing"
	ErrorTypeRender  ErrorType = "render"
	ErrorTypeCopy    ErrorType = "copy"
	ErrorTypeConfig  ErrorType = "config"
	ErrorTypeOutput  ErrorType = "output"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another *AppError of the same type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInput, Message: message, Err: err}
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeParsing, Message: message, Err: err}
}

// NewRenderError creates a new error related to table rendering
func NewRenderError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeRender, Message: message, Err: err}
}

// NewCopyError creates a new error related to the clipboard copy
func NewCopyError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeCopy, Message: message, Err: err}
}

// NewConfigError creates a new error related to configuration loading
func NewConfigError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeConfig, Message: message, Err: err}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeOutput, Message: message, Err: err}
}

// IsParsing reports whether err is a JSON parsing failure.
func IsParsing(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ErrorTypeParsing
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeParsing:
			return MsgInvalidJSON
		case ErrorTypeCopy:
			return MsgCopyFailed
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeRender:
			return fmt.Sprintf("Render error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	switch {
	case errors.Is(err, ErrEmptyInput), errors.Is(err, ErrInvalidJSON), errors.Is(err, ErrTrailingData):
		return MsgInvalidJSON
	case errors.Is(err, ErrNoInput):
		return "Error: No input provided. Pass a JSON file or pipe JSON data to stdin."
	case errors.Is(err, ErrCopyFailed), errors.Is(err, ErrSelectionFailed), errors.Is(err, ErrClipboardUnsupport):
		return MsgCopyFailed
	}

	return fmt.Sprintf("Error: %v", err)
}
