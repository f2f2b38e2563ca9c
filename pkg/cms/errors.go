package cms

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"syscall"
)

// Backend error codes the gateway distinguishes. Anything else is carried
// through verbatim in APIError.Code.
const (
	ErrorCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrorCodeInvalidToken       = "INVALID_TOKEN"
	ErrorCodeTokenExpired       = "TOKEN_EXPIRED"
	ErrorCodeForbidden          = "FORBIDDEN"
	ErrorCodeRateLimited        = "REQUESTS_EXCEEDED"
)

// Sentinel conditions matchable with errors.Is.
var (
	// ErrUnauthorized marks any 401 from the backend, on any call.
	ErrUnauthorized = errors.New("cms: unauthorized")

	// ErrRateLimited marks a 429 from the backend.
	ErrRateLimited = errors.New("cms: rate limited")
)

// APIError represents an HTTP-level error response from the CMS backend.
type APIError struct {
	// Status is the HTTP status code of the response
	Status int

	// Code is the backend error code (e.g. "INVALID_CREDENTIALS")
	Code string

	// Message is the human-readable message from the backend
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("cms: %s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("cms: HTTP %d: %s", e.Status, e.Message)
}

// Unwrap exposes the sentinel condition for the status, so callers can use
// errors.Is(err, cms.ErrUnauthorized) without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	return nil
}

// asAPIError extracts an *APIError from an error chain.
func asAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// errorEnvelope is the backend's error response shape:
//
//	{"errors": [{"message": "...", "extensions": {"code": "..."}}]}
type errorEnvelope struct {
	Errors []struct {
		Message    string `json:"message"`
		Extensions struct {
			Code string `json:"code"`
		} `json:"extensions"`
	} `json:"errors"`
}

// parseErrorResponse converts a non-success HTTP response into a typed error.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Errors) > 0 {
		apiErr.Code = env.Errors[0].Extensions.Code
		apiErr.Message = env.Errors[0].Message
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}

// IsConnectivity reports whether err is a transport-level failure: the
// request never produced an HTTP response (refused connection, reset,
// timeout, DNS failure). APIErrors are by definition not connectivity
// failures.
func IsConnectivity(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := asAPIError(err); ok {
		return false
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// IsOffline reports whether err indicates the network itself is unreachable,
// as opposed to the backend host refusing or timing out. The distinction
// feeds the user-facing "no internet connection" message.
func IsOffline(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETDOWN)
}
