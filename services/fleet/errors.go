package fleet

import (
	"errors"
	"fmt"
)

// APIError is a non-2xx answer from the fleet backend.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("fleet api error: status=%d message=%s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fleet api error: status=%d", e.StatusCode)
}

// IsClientError reports whether the backend rejected the request itself.
func (e *APIError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// UserMessage returns the backend's human-readable message carried by err, if any.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
