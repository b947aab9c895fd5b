package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrQuizNotFound indicates no quiz matches the requested title or id.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates a question id does not resolve to any quiz.
	ErrQuestionNotFound = errors.New("quiz question not found")
	// ErrUserNotFound indicates a user id or username does not resolve.
	ErrUserNotFound = errors.New("user not found")
	// ErrScoreNotFound is returned when no score record exists for a (user, quiz) pair.
	ErrScoreNotFound = errors.New("no scores found")
	// ErrUserExists is returned on registration with a taken username.
	ErrUserExists = errors.New("username already exists")
	// ErrQuizExists is returned when a second quiz would share a title.
	ErrQuizExists = errors.New("quiz title already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("permission denied")
)

// ValidationError reports malformed input: a submission missing required
// fields or a question whose definition does not respect its type.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Invalid is shorthand for building a *ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PersistenceError wraps a failure of the underlying store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persistence wraps err as a *PersistenceError unless it is nil or already a
// domain sentinel that callers match on.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{ErrQuizNotFound, ErrQuestionNotFound, ErrUserNotFound, ErrScoreNotFound, ErrUserExists, ErrQuizExists} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return &PersistenceError{Op: op, Err: err}
}
