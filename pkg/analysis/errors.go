package analysis

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// StatusError is returned when the analysis service answers with a non-2xx status
type StatusError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("analysis %s returned status %d: %s", e.Op, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("analysis %s returned status %d", e.Op, e.StatusCode)
}

// Unauthorized reports an authentication failure (401 or an invalid-key detail)
func (e *StatusError) Unauthorized() bool {
	if e.StatusCode == http.StatusUnauthorized {
		return true
	}
	d := strings.ToLower(e.Detail)
	return strings.Contains(d, "invalid api key") || strings.Contains(d, "invalid_api_key")
}

// RateLimited reports a rate-limit signal (429 or a rate-limit detail)
func (e *StatusError) RateLimited() bool {
	if e.StatusCode == http.StatusTooManyRequests {
		return true
	}
	d := strings.ToLower(e.Detail)
	return strings.Contains(d, "rate limit") || strings.Contains(d, "too many requests")
}

// TransportError wraps any failure to reach or decode the analysis service
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("analysis %s transport error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AsStatusError extracts a *StatusError from err
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsTransportError reports whether err is a *TransportError
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
