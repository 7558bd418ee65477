package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired is returned after the server rejected the bearer token.
// The session has already been cleared when a caller sees it.
var ErrSessionExpired = errors.New("session expired")

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// IsUnauthorized reports whether err came from a 401 response.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrSessionExpired) || IsStatus(err, http.StatusUnauthorized)
}

// Message returns the server-provided text for an HTTPError, or err.Error().
func Message(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	return err.Error()
}
