// Package errclass defines the error taxonomy shared by the orchestration
// core and its components, plus transient/permanent classification that
// drives retry decisions.
package errclass

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// Taxonomy of request-level errors. The router maps these to degraded
// branches or request failures; see the routing trace for which.
var (
	// ErrUnsupportedIntent is returned for an unrecognized request kind.
	// Fatal to that request only.
	ErrUnsupportedIntent = errors.New("unsupported intent")

	// ErrClassifierUnavailable indicates the sentiment/emotion classifier
	// failed or timed out. Always recovered locally via the "unknown"
	// fallback, never escalates past the insight analyzer.
	ErrClassifierUnavailable = errors.New("classifier unavailable")

	// ErrGenerationFailed indicates a generative call failed after its
	// single retry. Surfaces as a degraded artifact, not a hard failure.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrAgentNotFound indicates discovery could not resolve an external
	// agent for the required capability tag.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrTimeout indicates an external capability call exceeded its bound.
	ErrTimeout = errors.New("timeout")

	// ErrSessionNotFound is returned on continue/end with an unknown
	// session ID. Fatal to that call; the caller must restart a session.
	ErrSessionNotFound = errors.New("session not found")
)

// Kind returns the short taxonomy name for an error, used in routing traces.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedIntent):
		return "unsupported_intent"
	case errors.Is(err, ErrClassifierUnavailable):
		return "classifier_unavailable"
	case errors.Is(err, ErrGenerationFailed):
		return "generation_failed"
	case errors.Is(err, ErrAgentNotFound):
		return "agent_not_found"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrSessionNotFound):
		return "session_not_found"
	default:
		return "internal"
	}
}

// ErrorClass represents the category of error for retry decisions.
type ErrorClass int

const (
	// ErrorClassTransient covers network timeouts and temporary service
	// unavailability. Retryable.
	ErrorClassTransient ErrorClass = iota

	// ErrorClassPermanent covers validation failures and invalid input.
	// Not retryable.
	ErrorClassPermanent
)

// String returns the string representation of ErrorClass.
func (e ErrorClass) String() string {
	switch e {
	case ErrorClassTransient:
		return "transient"
	case ErrorClassPermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// ClassifiedError wraps an error with its classification and retry guidance.
type ClassifiedError struct {
	Original   error
	Class      ErrorClass
	RetryAfter time.Duration
}

// Error returns a formatted error message.
func (c *ClassifiedError) Error() string {
	if c.Original == nil {
		return fmt.Sprintf("classified error: class=%s", c.Class)
	}
	return fmt.Sprintf("%s: %v", c.Class, c.Original)
}

// Unwrap returns the original error for errors.Is/As.
func (c *ClassifiedError) Unwrap() error {
	return c.Original
}

// IsTransient returns true if the error is temporary and should be retried.
func (c *ClassifiedError) IsTransient() bool {
	return c.Class == ErrorClassTransient
}

// Classify analyzes an error and determines its class and retry strategy.
func Classify(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	if isNetworkError(err) {
		return &ClassifiedError{
			Class:      ErrorClassTransient,
			Original:   err,
			RetryAfter: 500 * time.Millisecond,
		}
	}
	if isTimeoutError(err) {
		return &ClassifiedError{
			Class:      ErrorClassTransient,
			Original:   err,
			RetryAfter: 500 * time.Millisecond,
		}
	}

	errMsg := strings.ToLower(err.Error())
	// Empty LLM completions are transient: the provider accepted the
	// request but produced nothing usable.
	if strings.Contains(errMsg, "empty response") ||
		strings.Contains(errMsg, "rate limit") ||
		strings.Contains(errMsg, "overloaded") ||
		strings.Contains(errMsg, "503") ||
		strings.Contains(errMsg, "502") {
		return &ClassifiedError{
			Class:      ErrorClassTransient,
			Original:   err,
			RetryAfter: 500 * time.Millisecond,
		}
	}

	// Default to permanent for unknown errors (fail safe).
	return &ClassifiedError{
		Class:    ErrorClassPermanent,
		Original: err,
	}
}

// ShouldRetry returns true if the error warrants a retry attempt.
func ShouldRetry(err error) bool {
	classified := Classify(err)
	return classified != nil && classified.IsTransient()
}

// RetryDelay returns the suggested delay before retry, or 0 if not retryable.
func RetryDelay(err error) time.Duration {
	classified := Classify(err)
	if classified != nil && classified.IsTransient() {
		return classified.RetryAfter
	}
	return 0
}

// isNetworkError checks if an error is network-related (transient).
func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	networkPatterns := []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"network is unreachable",
		"no such host",
		"temporary failure",
		"dial tcp",
		"eof",
	}
	for _, pattern := range networkPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}

// isTimeoutError checks if an error is timeout-related (transient).
func isTimeoutError(err error) bool {
	if errors.Is(err, ErrTimeout) {
		return true
	}
	errMsg := strings.ToLower(err.Error())
	timeoutPatterns := []string{
		"timeout",
		"deadline exceeded",
		"i/o timeout",
		"operation timed out",
	}
	for _, pattern := range timeoutPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
