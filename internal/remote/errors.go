package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the camp server is unreachable.
	ErrUnavailable = errors.New("camp server unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("request timed out")

	// ErrUnauthorized indicates the stored credentials were rejected.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-success response from the camp server: an HTTP status
// plus the human-readable message from the response envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && (e.Status == 401 || e.Status == 403)
}
