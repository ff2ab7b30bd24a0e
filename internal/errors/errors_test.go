package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")

	err := New(DocumentUnreadable, "cannot decode bot export", cause)

	if err.Code != DocumentUnreadable {
		t.Errorf("Code = %v, want %v", err.Code, DocumentUnreadable)
	}
	if err.Message != "cannot decode bot export" {
		t.Errorf("Message = %q, want %q", err.Message, "cannot decode bot export")
	}
	if err.SuggestedFixes != nil {
		t.Errorf("SuggestedFixes = %v, want nil", err.SuggestedFixes)
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name      string
		code      ErrorCode
		message   string
		cause     error
		wantParts []string
	}{
		{
			name:      "with cause",
			code:      OracleFailed,
			message:   "suggestion request failed",
			cause:     errors.New("connection refused"),
			wantParts: []string{"ORACLE_FAILED", "suggestion request failed", "connection refused"},
		},
		{
			name:      "without cause",
			code:      RunNotFound,
			message:   "run 'abc' not found",
			cause:     nil,
			wantParts: []string{"RUN_NOT_FOUND", "run 'abc' not found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.code, tt.message, tt.cause).Error()

			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, want to contain %q", got, part)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := New(InternalError, "something went wrong", cause)

	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}

	if New(Unauthorized, "missing token", nil).Unwrap() != nil {
		t.Errorf("Unwrap() on error without cause should return nil")
	}
}

func TestError_WithDetails(t *testing.T) {
	err := New(ConfigInvalid, "workers out of range", nil)

	if result := err.WithDetails(map[string]int{"workers": 99}); result != err {
		t.Error("WithDetails should return the same error for chaining")
	}
	if err.Details == nil {
		t.Error("Details should be set")
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", New(HistoryUnavailable, "open db", nil))

	if got := CodeOf(wrapped); got != HistoryUnavailable {
		t.Errorf("CodeOf(wrapped) = %v, want %v", got, HistoryUnavailable)
	}
	if got := CodeOf(errors.New("plain")); got != InternalError {
		t.Errorf("CodeOf(plain) = %v, want %v", got, InternalError)
	}
	if !Is(wrapped, HistoryUnavailable) {
		t.Error("Is(wrapped, HistoryUnavailable) = false, want true")
	}
	if Is(wrapped, RunNotFound) {
		t.Error("Is(wrapped, RunNotFound) = true, want false")
	}
}

func TestGetSuggestedFixes(t *testing.T) {
	tests := []struct {
		code    ErrorCode
		wantLen int
	}{
		{DocumentInvalid, 1},
		{OracleUnavailable, 1},
		{ConfigInvalid, 1},
		{HistoryUnavailable, 1},
		{RunNotFound, 0},
		{InternalError, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := len(GetSuggestedFixes(tt.code)); got != tt.wantLen {
				t.Errorf("GetSuggestedFixes(%v) len = %d, want %d", tt.code, got, tt.wantLen)
			}
		})
	}
}

func TestOracleUnavailableFixNamesVariable(t *testing.T) {
	fixes := New(OracleUnavailable, "no key", nil).SuggestedFixes
	if len(fixes) != 1 || fixes[0].Variable != "OPENAI_API_KEY" {
		t.Errorf("SuggestedFixes = %+v, want OPENAI_API_KEY set-env fix", fixes)
	}
}
