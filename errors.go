package sendgrid

import (
	"fmt"
	"strings"
)

// RedactionMarker replaces every occurrence of the API key in request data
// surfaced through errors or logs.
const RedactionMarker = "[FILTERED]"

// ConfigError represents an invalid or unresolvable configuration. It is
// always raised synchronously, before any network call.
type ConfigError struct {
	// Field is the name of the configuration field that failed.
	Field string

	// Message is the error message.
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("sendgrid: config error in %s: %s", e.Field, e.Message)
}

// Is implements error matching for errors.Is.
func (e *ConfigError) Is(target error) bool {
	_, ok := target.(*ConfigError)
	return ok
}

// TransportError represents a network-level failure: the request never
// produced a provider response (connection refused, timeout, DNS).
type TransportError struct {
	// Endpoint is the URL the request was issued against.
	Endpoint string

	// Cause is the underlying error from the HTTP client.
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("sendgrid: request to %s failed: %v", e.Endpoint, e.Cause)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for errors.Is.
func (e *TransportError) Is(target error) bool {
	_, ok := target.(*TransportError)
	return ok
}

// APIError represents a non-2xx response from the SendGrid API. It carries
// the provider's raw response body together with the outbound request body,
// with the API key redacted. RequestBody is derived from the exact bytes
// that were transmitted, never from a re-serialized copy.
type APIError struct {
	// StatusCode is the HTTP status returned by the provider.
	StatusCode int

	// Body is the provider's raw response body.
	Body string

	// RequestBody is the transmitted request body with every occurrence of
	// the API key replaced by RedactionMarker.
	RequestBody string

	// RequestHeaders are the transmitted request headers with the API key
	// redacted, including the Authorization bearer value.
	RequestHeaders map[string]string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("sendgrid: API error (status: %d): %s", e.StatusCode, e.Body)
}

// Is implements error matching for errors.Is.
func (e *APIError) Is(target error) bool {
	_, ok := target.(*APIError)
	return ok
}

// NewConfigError creates a new configuration error.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewTransportError creates a new transport error wrapping cause.
func NewTransportError(endpoint string, cause error) *TransportError {
	return &TransportError{
		Endpoint: endpoint,
		Cause:    cause,
	}
}

// NewAPIError creates a new API error. requestBody and requestHeaders are
// the literal outbound request data; the secret is redacted here, so
// callers may log the error freely.
func NewAPIError(statusCode int, responseBody string, requestBody []byte, requestHeaders map[string]string, secret string) *APIError {
	return &APIError{
		StatusCode:     statusCode,
		Body:           responseBody,
		RequestBody:    redact(string(requestBody), secret),
		RequestHeaders: redactHeaders(requestHeaders, secret),
	}
}

// redact replaces every occurrence of secret in the transmitted data with
// RedactionMarker.
func redact(sent, secret string) string {
	if secret == "" {
		return sent
	}
	return strings.ReplaceAll(sent, secret, RedactionMarker)
}

func redactHeaders(sent map[string]string, secret string) map[string]string {
	out := make(map[string]string, len(sent))
	for k, v := range sent {
		out[k] = redact(v, secret)
	}
	return out
}
