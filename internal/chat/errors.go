package chat

import (
	"errors"
	"fmt"
)

// FallbackReply is the only failure text a chat caller ever sees.
const FallbackReply = "I'm having trouble connecting right now. Could you try that again?"

var (
	// ErrNotConfigured is returned when the upstream credential is missing.
	ErrNotConfigured = errors.New("chat provider not configured")

	// ErrEmptyConversation is returned when there is nothing to reply to.
	ErrEmptyConversation = errors.New("conversation has no messages")
)

// UpstreamError is a transport failure or a non-2xx answer from the provider.
type UpstreamError struct {
	// Provider is the name of the provider that failed
	Provider string

	// StatusCode is the HTTP status code (0 for transport failures)
	StatusCode int

	// Body is the raw response body, kept for the server log only
	Body string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("provider %q request failed: %v", e.Provider, e.Cause)
	}
	if e.Body != "" {
		return fmt.Sprintf("provider %q returned status %d: %s", e.Provider, e.StatusCode, e.Body)
	}
	if e.Cause != nil {
		return fmt.Sprintf("provider %q returned status %d: %v", e.Provider, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("provider %q returned status %d", e.Provider, e.StatusCode)
}

// Unwrap returns the underlying error.
func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// ResponseError is a successful upstream answer with no usable reply text.
type ResponseError struct {
	Provider string
	Message  string
	Raw      string
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	return fmt.Sprintf("provider %q returned an unusable response: %s", e.Provider, e.Message)
}

// Outcome labels err for metrics and logs.
func Outcome(err error) string {
	var upstream *UpstreamError
	var response *ResponseError

	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrEmptyConversation):
		return "invalid_request"
	case errors.As(err, &upstream):
		return "upstream_error"
	case errors.As(err, &response):
		return "bad_response"
	default:
		return "error"
	}
}
