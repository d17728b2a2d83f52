package services

import (
	"errors"
	"fmt"

	"inkwell/app/models"
	"inkwell/app/repositories"
)

// Error kinds returned by the services. Match them with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("not authorized")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// Error is a service failure of a known kind with a message that is safe to
// show to API clients.
type Error struct {
	kind  error
	msg   string
	cause error
}

func (e *Error) Error() string {
	return e.msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is.
func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

// Kind is the sentinel the error was created with.
func (e *Error) Kind() error {
	return e.kind
}

// Errorf creates an error of kind with a client facing message.
func Errorf(kind error, format string, args ...interface{}) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func newError(kind error, format string, args ...interface{}) error {
	return Errorf(kind, format, args...)
}

// invalid turns a validator failure into a validation error carrying the
// first violated rule.
func invalid(err error) error {
	return &Error{kind: ErrValidation, msg: models.ValidationMessage(err), cause: err}
}

// storeError maps repository sentinels onto service kinds. Anything else is
// returned wrapped with op.
func storeError(err error, op, notFound string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return &Error{kind: ErrNotFound, msg: notFound, cause: err}
	case errors.Is(err, repositories.ErrConflict):
		return &Error{kind: ErrConflict, msg: "The resource was modified concurrently, please retry", cause: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func requirePrincipal(p models.Principal) error {
	if p.ID == "" {
		return newError(ErrUnauthenticated, "Not authorized, no token")
	}
	return nil
}
