package fuzzdex

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/kailas-cloud/fuzzdex/internal/domain"
)

// Sentinel errors matched against API responses. Use errors.Is() to
// check. The first three are shared with the embedded engine, so code
// written against the root package keeps working over HTTP.
var (
	ErrInvalidRequest = domain.ErrInvalidRequest
	ErrTableNotFound  = domain.ErrTableNotFound
	ErrUnknownField   = domain.ErrUnknownField

	// ErrUnauthorized means the API key is missing or wrong.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx response decoded from the service. Use
// errors.As to reach the HTTP status and machine-readable code behind
// a failed call.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("fuzzdex: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fuzzdex: %s: %s (HTTP %d)", e.Code, e.Message, e.StatusCode)
}

// Unwrap maps the response onto a sentinel. Auth failures map by
// status since the service reports them under a generic code.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	switch e.Code {
	case "table_not_found":
		return ErrTableNotFound
	case "unknown_field":
		return ErrUnknownField
	case "validation_failed", "bad_request":
		return ErrInvalidRequest
	}
	return nil
}
