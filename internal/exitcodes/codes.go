package exitcodes

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/GPUOpen-Tools/update-check-api/internal/update"
)

// Standard exit codes for update-check
const (
	// Success indicates successful command completion
	Success = 0

	// GeneralError indicates a general/unknown error
	GeneralError = 1

	// InvalidArgs indicates invalid command-line arguments or flags
	InvalidArgs = 2

	// PreconditionFailed indicates a precondition was not met
	// (e.g., no location configured, unusable config file)
	PreconditionFailed = 3

	// NetworkError indicates the version file could not be obtained
	// (e.g., download failed, empty file, no temp directory)
	NetworkError = 4

	// ProcessError indicates the download helper could not be run
	ProcessError = 5

	// ValidationError indicates the version file was rejected
	// (e.g., missing entries, unsupported schema, asset not found)
	ValidationError = 6

	// UpdateAvailable is returned by `check --strict` when a newer release exists
	UpdateAvailable = 10

	// Cancelled indicates the check was interrupted
	Cancelled = 130
)

// Exit terminates the program with the given code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError prints error message to stderr and exits with the given code
func ExitWithError(code int, msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(code)
}

// CodeForError returns the appropriate exit code for an error.
// Explicit ErrorWithCode wins; a CheckError maps by kind.
func CodeForError(err error) int {
	if err == nil {
		return Success
	}

	var ec *ErrorWithCode
	if errors.As(err, &ec) {
		return ec.Code
	}
	if errors.Is(err, context.Canceled) {
		return Cancelled
	}
	if errors.Is(err, update.ErrLaunch) {
		return ProcessError
	}
	var ce *update.CheckError
	if errors.As(err, &ce) {
		return codeForKind(ce)
	}
	return GeneralError
}

func codeForKind(ce *update.CheckError) int {
	switch ce.Kind {
	case update.KindTransport:
		for _, m := range ce.Messages {
			if m == update.MsgFailedToLaunchDownloader {
				return ProcessError
			}
		}
		return NetworkError
	case update.KindSchema, update.KindSemantic:
		return ValidationError
	default:
		return GeneralError
	}
}
