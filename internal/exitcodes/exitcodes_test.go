package exitcodes

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/GPUOpen-Tools/update-check-api/internal/update"
)

// TestExitCodeConstants verifies all exit code constants have expected values
func TestExitCodeConstants(t *testing.T) {
	tests := []struct {
		name string
		code int
		want int
	}{
		{"Success", Success, 0},
		{"GeneralError", GeneralError, 1},
		{"InvalidArgs", InvalidArgs, 2},
		{"PreconditionFailed", PreconditionFailed, 3},
		{"NetworkError", NetworkError, 4},
		{"ProcessError", ProcessError, 5},
		{"ValidationError", ValidationError, 6},
		{"UpdateAvailable", UpdateAvailable, 10},
		{"Cancelled", Cancelled, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.want {
				t.Errorf("%s = %d, want %d", tt.name, tt.code, tt.want)
			}
		})
	}
}

// TestConstructors checks each constructor sets its code and message
func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *ErrorWithCode
		wantCode int
		wantMsg  string
	}{
		{"NewError", NewError(99, "custom"), 99, "custom"},
		{"NewErrorf", NewErrorf(InvalidArgs, "bad %s", "flag"), InvalidArgs, "bad flag"},
		{"InvalidArgsError", InvalidArgsError("missing location"), InvalidArgs, "missing location"},
		{"InvalidArgsErrorf", InvalidArgsErrorf("invalid version %q", "x.y"), InvalidArgs, `invalid version "x.y"`},
		{"PreconditionError", PreconditionError("no location configured"), PreconditionFailed, "no location configured"},
		{"PreconditionErrorf", PreconditionErrorf("config %s", "missing"), PreconditionFailed, "config missing"},
		{"ValidationErr", ValidationErr("bad manifest"), ValidationError, "bad manifest"},
		{"ValidationErrf", ValidationErrf("schema %s", "1.4"), ValidationError, "schema 1.4"},
		{"UpdateAvailableErr", UpdateAvailableErr("2.1.0"), UpdateAvailable, "update available: 2.1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.wantCode)
			}
			if tt.err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.wantMsg)
			}
			if tt.err.Cause != nil {
				t.Errorf("Cause = %v, want nil", tt.err.Cause)
			}
		})
	}
}

// TestErrorWithCode_Error tests the Error() method
func TestErrorWithCode_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ErrorWithCode
		want string
	}{
		{
			name: "error without cause",
			err:  &ErrorWithCode{Code: InvalidArgs, Message: "missing flag"},
			want: "missing flag",
		},
		{
			name: "error with cause",
			err:  &ErrorWithCode{Code: NetworkError, Message: "request failed", Cause: errors.New("timeout")},
			want: "request failed: timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ErrorWithCode.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodeForError(t *testing.T) {
	standardErr := errors.New("standard error")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error", err: nil, want: Success},
		{name: "InvalidArgs error", err: InvalidArgsError("invalid arg"), want: InvalidArgs},
		{name: "custom code", err: NewError(99, "custom error"), want: 99},
		{name: "standard error", err: standardErr, want: GeneralError},
		{name: "wrapped ErrorWithCode", err: fmt.Errorf("check: %w", WrapError(NetworkError, "network issue", standardErr)), want: NetworkError},
		{name: "cancelled", err: context.Canceled, want: Cancelled},
		{name: "launch failure", err: fmt.Errorf("%w: no such file", update.ErrLaunch), want: ProcessError},
		{
			name: "transport",
			err:  &update.CheckError{Kind: update.KindTransport, Messages: []string{update.MsgFailedToLoadVersionFile}},
			want: NetworkError,
		},
		{
			name: "transport launch",
			err:  &update.CheckError{Kind: update.KindTransport, Messages: []string{update.MsgFailedToLaunchDownloader}},
			want: ProcessError,
		},
		{
			name: "schema",
			err:  &update.CheckError{Kind: update.KindSchema, Messages: []string{update.MissingEntry("Releases")}},
			want: ValidationError,
		},
		{
			name: "semantic",
			err:  &update.CheckError{Kind: update.KindSemantic, Messages: []string{update.MsgUnsupportedSchemaVersion}},
			want: ValidationError,
		},
		{
			name: "internal",
			err:  &update.CheckError{Kind: update.KindInternal, Messages: []string{update.MsgURLMustPointToJSON}},
			want: GeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeForError(tt.err); got != tt.want {
				t.Errorf("CodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// TestMultipleLevelWrapping tests wrapping ErrorWithCode with another ErrorWithCode
func TestMultipleLevelWrapping(t *testing.T) {
	baseErr := &update.CheckError{Kind: update.KindSchema, Messages: []string{"bad"}}
	level1 := WrapError(ProcessError, "helper failed", baseErr)
	level2 := WrapError(GeneralError, "operation failed", level1)

	if level2.Unwrap() != level1 {
		t.Errorf("level2.Unwrap() != level1")
	}
	if !errors.Is(level2, baseErr) {
		t.Errorf("errors.Is(level2, baseErr) = false, want true")
	}

	// The outermost explicit code wins over the wrapped check error
	if code := CodeForError(level2); code != GeneralError {
		t.Errorf("CodeForError(level2) = %d, want %d", code, GeneralError)
	}
}
