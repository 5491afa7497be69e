package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrSessionExpired is returned by the transport after the global session
// teardown hook has been invoked. Controllers must not convert it into a
// local error state.
var ErrSessionExpired = errors.New("session expired")

// APIError is a structured failure envelope from the server
// (status == "error" with a message).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// PermissionError marks a client-side permission pre-check failure. No
// network call was made.
type PermissionError struct {
	Reason string
}

func (e *PermissionError) Error() string { return e.Reason }

// Message substrings the backend uses when a token is rejected.
var expiryMessages = []string{
	"Invalid or expired token",
	"Token has expired",
}

// IsSessionExpiry reports whether a response indicates an expired or invalid
// session: HTTP 401, or one of the known token-rejection message substrings.
func IsSessionExpiry(statusCode int, message string) bool {
	if statusCode == http.StatusUnauthorized {
		return true
	}
	for _, m := range expiryMessages {
		if strings.Contains(message, m) {
			return true
		}
	}
	return false
}
