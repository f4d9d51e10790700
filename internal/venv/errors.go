package venv

import "errors"

// Sentinel errors returned (wrapped) by Manager operations. Use errors.Is to
// classify them.
var (
	ErrInvalidName        = errors.New("invalid environment name")
	ErrInvalidPattern     = errors.New("invalid name pattern")
	ErrAlreadyExists      = errors.New("environment already exists")
	ErrNotFound           = errors.New("environment not found")
	ErrCreationFailed     = errors.New("creating environment failed")
	ErrDeletionFailed     = errors.New("deleting environment failed")
	ErrInstallFailed      = errors.New("installing framework failed")
	ErrVerificationFailed = errors.New("framework not importable after install")

	// ErrCancelled means the operator declined a confirmation prompt. It is
	// an outcome, not a failure.
	ErrCancelled = errors.New("cancelled by user")
)

// IsExpected reports whether err is one of the operation-level outcomes the
// CLI reports as a message instead of a fatal error.
func IsExpected(err error) bool {
	for _, target := range []error{
		ErrInvalidName,
		ErrInvalidPattern,
		ErrAlreadyExists,
		ErrNotFound,
		ErrCreationFailed,
		ErrDeletionFailed,
		ErrInstallFailed,
		ErrVerificationFailed,
		ErrCancelled,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
