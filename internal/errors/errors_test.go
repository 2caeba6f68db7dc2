package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "error with wrapped error",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "failed to read input",
				Err:     errors.New("file not found"),
			},
			expected: "input: failed to read input: file not found",
		},
		{
			name: "error without wrapped error",
			appError: &AppError{
				Type:    ErrorTypeCopy,
				Message: "copy command returned false",
			},
			expected: "copy: copy command returned false",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appError.Error())
		})
	}
}

func TestAppError_IsAndUnwrap(t *testing.T) {
	err := NewParsingError("JSON syntax error at offset 2", ErrInvalidJSON)

	assert.True(t, errors.Is(err, ErrInvalidJSON))
	assert.True(t, errors.Is(err, &AppError{Type: ErrorTypeParsing}))
	assert.False(t, errors.Is(err, &AppError{Type: ErrorTypeCopy}))
	assert.True(t, IsParsing(fmt.Errorf("convert: %w", err)))
	assert.False(t, IsParsing(NewInputError("no file", nil)))
}

func TestUserFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"parsing", NewParsingError("bad", ErrInvalidJSON), MsgInvalidJSON},
		{"copy", NewCopyError("failed", ErrCopyFailed), MsgCopyFailed},
		{"input", NewInputError("cannot read file", nil), "Input error: cannot read file"},
		{"config", NewConfigError("bad palette", nil), "Configuration error: bad palette"},
		{"render", NewRenderError("table failed", nil), "Render error: table failed"},
		{"sentinel empty input", ErrEmptyInput, MsgInvalidJSON},
		{"sentinel copy", fmt.Errorf("wrapped: %w", ErrCopyFailed), MsgCopyFailed},
		{"output", NewOutputError("stdout closed", nil), "Output error: stdout closed"},
		{"untyped app error", &AppError{Message: "odd"}, "Error: odd"},
		{"unknown", errors.New("boom"), "Error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UserFriendlyError(tt.err))
		})
	}
}
