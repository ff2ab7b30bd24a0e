package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// DocumentUnreadable indicates the input is not valid JSON
	DocumentUnreadable ErrorCode = "DOCUMENT_UNREADABLE"
	// DocumentInvalid indicates the document lacks the context.flows shape
	DocumentInvalid ErrorCode = "DOCUMENT_INVALID"
	// ConfigInvalid indicates a configuration value is out of range
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// OracleUnavailable indicates no oracle credential is configured
	OracleUnavailable ErrorCode = "ORACLE_UNAVAILABLE"
	// OracleFailed indicates an oracle call returned an error
	OracleFailed ErrorCode = "ORACLE_FAILED"
	// HistoryUnavailable indicates the report archive cannot be opened
	HistoryUnavailable ErrorCode = "HISTORY_UNAVAILABLE"
	// RunNotFound indicates an archived run id does not exist
	RunNotFound ErrorCode = "RUN_NOT_FOUND"
	// Unauthorized indicates a missing or wrong API token
	Unauthorized ErrorCode = "UNAUTHORIZED"
	// InvalidRequest indicates a malformed API request
	InvalidRequest ErrorCode = "INVALID_REQUEST"
	// NotFound indicates an unknown API route
	NotFound ErrorCode = "NOT_FOUND"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// SetEnv suggests exporting an environment variable
	SetEnv FixActionType = "set-env"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Variable    string        `json:"variable,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// Error is a botlint error with code, message, and suggestions
type Error struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a new Error carrying the canned fixes for its code
func New(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or
// InternalError when there is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return InternalError
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Code == code
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	DocumentInvalid: {
		{
			Type:        OpenDocs,
			Description: "Export the bot again; the file must contain context.flows as an array",
		},
	},
	OracleUnavailable: {
		{
			Type:        SetEnv,
			Variable:    "OPENAI_API_KEY",
			Description: "Set the oracle credential in the environment or in .env",
		},
	},
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "botlint config show",
			Description: "Inspect the effective configuration",
		},
	},
	HistoryUnavailable: {
		{
			Type:        RunCommand,
			Command:     "botlint config init",
			Description: "Create the .botlint directory and default configuration",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
