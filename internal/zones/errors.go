package zones

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
)

// AuthenticationError means the provider rejected or could not load the
// credential. It is never retried.
type AuthenticationError struct {
	Provider string
	Err      error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s: authentication failed: %v", e.Provider, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// AuthorizationError means the credential is valid but may not list zones
// for the project. It is never retried.
type AuthorizationError struct {
	Provider string
	Project  string
	Err      error
}

func (e *AuthorizationError) Error() string {
	if e.Project == "" {
		return fmt.Sprintf("%s: not authorized to list zones: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s: not authorized to list zones in %s: %v", e.Provider, e.Project, e.Err)
}

func (e *AuthorizationError) Unwrap() error { return e.Err }

// TransportError covers network failures, malformed responses and any other
// API error. Retryable marks throttling and server-side failures.
type TransportError struct {
	Provider  string
	Retryable bool
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: listing zones: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// classifyStatus turns an HTTP status from a provider API error into the
// zones error taxonomy.
func classifyStatus(provider, project string, status int, err error) error {
	switch {
	case status == http.StatusUnauthorized:
		return &AuthenticationError{Provider: provider, Err: err}
	case status == http.StatusForbidden:
		return &AuthorizationError{Provider: provider, Project: project, Err: err}
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return &TransportError{Provider: provider, Retryable: true, Err: err}
	default:
		return &TransportError{Provider: provider, Err: err}
	}
}

// classifyNetwork wraps an error that carries no provider status. Only
// timeouts and dropped connections are retried.
func classifyNetwork(provider string, err error) error {
	return &TransportError{Provider: provider, Retryable: transientNetwork(err), Err: err}
}

func transientNetwork(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNRESET) || errors.Is(err, io.ErrUnexpectedEOF)
}

// isRetryable reports whether a page request may be issued again.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var te *TransportError
	return errors.As(err, &te) && te.Retryable
}

// asTyped passes through errors that are already classified and wraps
// everything else as a TransportError.
func asTyped(provider string, err error) error {
	if err == nil {
		return nil
	}
	var (
		authn *AuthenticationError
		authz *AuthorizationError
		te    *TransportError
	)
	if errors.As(err, &authn) || errors.As(err, &authz) || errors.As(err, &te) {
		return err
	}
	return &TransportError{Provider: provider, Err: err}
}
