package domain

import "errors"

// Account errors
var (
	ErrEmailTaken    = errors.New("user already exists")
	ErrUserNotFound  = errors.New("user does not exist")
	ErrWrongPassword = errors.New("wrong email or password")

	ErrProfileNotFound = errors.New("student profile does not exist")
)

// Topic errors
var (
	ErrTopicNotFound = errors.New("topic not found")
	ErrTopicExists   = errors.New("topic already exists")
)

// ValidationError reports client-fixable input problems. It is always
// returned before anything is written.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
