package fingerprint

import (
	"errors"
	"fmt"
)

// Common errors returned by the fingerprint client.
var (
	// ErrAuthError indicates an authentication error (missing/invalid API key).
	ErrAuthError = errors.New("fingerprint service authentication error")

	// ErrRateLimited indicates the service rejected the call for quota reasons.
	ErrRateLimited = errors.New("fingerprint service rate limit exceeded")

	// ErrServiceError indicates a general service-side error.
	ErrServiceError = errors.New("fingerprint service error")

	// ErrInvalidResponse indicates an unexpected or malformed service response.
	ErrInvalidResponse = errors.New("invalid response from fingerprint service")
)

// APIError represents an error response from the fingerprint service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fingerprint service error (status %d): %s", e.StatusCode, e.Message)
}

// IsAuthError returns true if the error indicates an authentication problem.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrAuthError) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
