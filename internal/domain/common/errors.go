// Package common provides error behaviors shared by the engine and the CLI.
package common

import "errors"

// SilenceUsageError is implemented by errors that should NOT trigger
// CLI usage information. The command syntax was correct but something
// else failed, e.g. the node was unreachable or a wallet could not be unlocked.
type SilenceUsageError interface {
	error
	ShouldSilenceUsage() bool
}

// UserFacingError is implemented by errors that have a user-friendly
// message that should be displayed directly to the user.
type UserFacingError interface {
	error
	UserMessage() string
}

// RecoverableError is implemented by errors that suggest a recovery action.
type RecoverableError interface {
	error
	RecoveryHint() string
}

// OperationalError is a failure the user can act on without changing the command line.
type OperationalError struct {
	Message string
	Hint    string
	Err     error
}

// NewOperationalError creates an OperationalError wrapping err.
func NewOperationalError(message, hint string, err error) *OperationalError {
	return &OperationalError{Message: message, Hint: hint, Err: err}
}

func (e *OperationalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *OperationalError) Unwrap() error { return e.Err }

func (e *OperationalError) UserMessage() string { return e.Error() }

func (e *OperationalError) RecoveryHint() string { return e.Hint }

func (e *OperationalError) ShouldSilenceUsage() bool { return true }

// ShouldSilenceUsage checks if an error should silence CLI usage output.
func ShouldSilenceUsage(err error) bool {
	var sue SilenceUsageError
	if errors.As(err, &sue) {
		return sue.ShouldSilenceUsage()
	}
	return false
}

// GetUserMessage returns the UserMessage of the first UserFacingError in
// the chain, otherwise the standard Error() message.
func GetUserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ufe UserFacingError
	if errors.As(err, &ufe) {
		return ufe.UserMessage()
	}
	return err.Error()
}

// GetRecoveryHint extracts a recovery hint from an error.
// Returns empty string if no hint is available.
func GetRecoveryHint(err error) string {
	var re RecoverableError
	if errors.As(err, &re) {
		return re.RecoveryHint()
	}
	return ""
}
