// Package exitcode maps zonectl errors to process exit statuses.
package exitcode

import (
	"errors"

	"github.com/kjourdan1/zonectl/internal/failover"
	"github.com/kjourdan1/zonectl/internal/render"
	"github.com/kjourdan1/zonectl/internal/zones"
)

const (
	OK         = 0
	Generic    = 1
	Validation = 2
	Auth       = 3
	Provider   = 4
	FileAccess = 5
	Exhausted  = 6
)

type Error struct {
	Code  int
	Cause error
}

func (e *Error) Error() string {
	return e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Wrap(code int, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Cause: err}
}

func Of(err error) int {
	if err == nil {
		return OK
	}

	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}

	var authnErr *zones.AuthenticationError
	if errors.As(err, &authnErr) {
		return Auth
	}

	var authzErr *zones.AuthorizationError
	if errors.As(err, &authzErr) {
		return Auth
	}

	var transportErr *zones.TransportError
	if errors.As(err, &transportErr) {
		return Provider
	}

	var fileErr *render.FileAccessError
	if errors.As(err, &fileErr) {
		return FileAccess
	}

	if errors.Is(err, failover.ErrExhausted) {
		return Exhausted
	}

	return Generic
}
