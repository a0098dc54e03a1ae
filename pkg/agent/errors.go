package agent

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyMessage is returned before any network call when the prompt is
// empty after trimming.
var ErrEmptyMessage = errors.New("agent: message cannot be empty")

// ErrUnknownSurface is returned when no agent is configured for the
// requested analysis surface.
var ErrUnknownSurface = errors.New("agent: unknown analysis surface")

// ConnectivityError indicates the inference endpoint could not be reached
// or its response body could not be read. Eligible for retry.
type ConnectivityError struct {
	URL string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("agent: cannot reach %s: %v", e.URL, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// RemoteError carries a non-2xx status from the inference endpoint. The
// body sometimes holds a human-readable message from the remote service.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("agent: remote service returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("agent: remote service returned HTTP %d: %s", e.StatusCode, e.Body)
}

// EnvelopeError indicates the response body was not the expected
// {"response": ...} envelope. Terminal; not retried.
type EnvelopeError struct {
	Reason string
	Err    error
}

func (e *EnvelopeError) Error() string {
	if e.Err == nil {
		return "agent: malformed envelope: " + e.Reason
	}
	return fmt.Sprintf("agent: malformed envelope: %s: %v", e.Reason, e.Err)
}

func (e *EnvelopeError) Unwrap() error { return e.Err }

// ParseError indicates the cleaned response text did not parse as JSON.
// Preview holds a truncated copy of the cleaned text to aid diagnosis.
type ParseError struct {
	Preview string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("agent: response is not valid JSON: %v (cleaned text: %q)", e.Err, e.Preview)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError reports structural violations of the parsed payload against
// the surface's JSON schema.
type SchemaError struct {
	Surface    string
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("agent: %s payload failed schema validation: %s",
		e.Surface, strings.Join(e.Violations, "; "))
}

// RetryExhaustedError wraps the last underlying error once the retry
// budget is spent, so callers can word the failure differently from a
// single immediate one.
type RetryExhaustedError struct {
	Attempts int
	Err      error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("agent: giving up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Err }
