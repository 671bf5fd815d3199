package summary

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// AuthError indicates that the Gmail API rejected the access token.
// It is fatal: no partial result accompanies it.
type AuthError struct {
	Op         string // the API operation that was rejected
	StatusCode int    // 401 or 403
	Err        error
}

// Error implements the error interface
func (e *AuthError) Error() string {
	return fmt.Sprintf("gmail %s: access token rejected (status %d): %v", e.Op, e.StatusCode, e.Err)
}

// Unwrap returns the underlying API error
func (e *AuthError) Unwrap() error { return e.Err }

// RemoteError indicates a non-auth failure status from the Gmail API.
// It is fatal on the profile, labels, and listing calls; a detail call
// failing with it only drops that message from the result.
type RemoteError struct {
	Op         string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	return fmt.Sprintf("gmail %s: remote error (status %d): %v", e.Op, e.StatusCode, e.Err)
}

// Unwrap returns the underlying API error
func (e *RemoteError) Unwrap() error { return e.Err }

// NetworkError indicates a transport-level failure: timeout, DNS failure,
// connection reset, or cancellation of the caller's context.
type NetworkError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	return fmt.Sprintf("gmail %s: network error: %v", e.Op, e.Err)
}

// Unwrap returns the underlying transport error
func (e *NetworkError) Unwrap() error { return e.Err }

// classifyErr maps an error returned by the Gmail client into the package's
// taxonomy. Status codes come back as *googleapi.Error; anything else is a
// transport-level failure.
func classifyErr(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &AuthError{Op: op, StatusCode: apiErr.Code, Err: err}
		default:
			return &RemoteError{Op: op, StatusCode: apiErr.Code, Err: err}
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &NetworkError{Op: op, Err: err}
	}
	return &NetworkError{Op: op, Err: err}
}

// isAuthErr reports whether err carries a credential rejection.
func isAuthErr(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
