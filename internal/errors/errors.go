package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitgarden/internal/logger"
)

var (
	// ErrNotFound is returned when a habit or completion id is absent from the store.
	ErrNotFound = stderrors.New("not found")
	// ErrInvalidState is returned for operations the habit's current state forbids,
	// such as completing a dead habit or reviving a living one.
	ErrInvalidState = stderrors.New("invalid state")
	// ErrRemoteSync wraps network and API failures during authenticated sync calls.
	ErrRemoteSync = stderrors.New("remote sync failed")
	// ErrValidation marks business-rule rejections (duplicates, quota, entitlements).
	ErrValidation = stderrors.New("validation failed")
)

// ValidationError carries a user-facing reason for a rejected operation.
type ValidationError struct {
	Reason string
	// CanWatchAds is set when a quota denial can still be lifted by watching ads.
	CanWatchAds bool
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Is lets errors.Is(err, ErrValidation) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidation returns a ValidationError with the given reason.
func NewValidation(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// NotFoundf returns an error wrapping ErrNotFound.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// InvalidStatef returns an error wrapping ErrInvalidState.
func InvalidStatef(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidState)
}

// Is and As re-export the standard library helpers so callers need a single import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
