package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/tracker/internal/logger"
)

// Error kinds. Callers match them with errors.Is; every error returned by
// the catalog, completion and board packages wraps exactly one of these.
var (
	// ErrNotFound is returned when a tracker or category does not exist
	ErrNotFound = stderrors.New("not found")
	// ErrDuplicateName is returned when a category title is already taken
	ErrDuplicateName = stderrors.New("duplicate name")
	// ErrValidation is returned for input the catalog refuses to store
	ErrValidation = stderrors.New("validation failed")
	// ErrStorage is returned when the underlying store fails
	ErrStorage = stderrors.New("storage failure")
)

// NotFound wraps ErrNotFound with a description of what was missing.
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// Validation wraps ErrValidation with the reason the input was rejected.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

// DuplicateName wraps ErrDuplicateName for the given title.
func DuplicateName(title string) error {
	return fmt.Errorf("category %q already exists: %w", title, ErrDuplicateName)
}

// Storage wraps a backend failure so that errors.Is(err, ErrStorage) holds
// while the original cause stays reachable through errors.Is/As.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// Kind returns a short name for the kind of err, or "unknown".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, ErrNotFound):
		return "not_found"
	case stderrors.Is(err, ErrDuplicateName):
		return "duplicate_name"
	case stderrors.Is(err, ErrValidation):
		return "validation"
	case stderrors.Is(err, ErrStorage):
		return "storage"
	default:
		return "unknown"
	}
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err, "kind", Kind(err))
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
