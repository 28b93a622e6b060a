package errclass

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyTransient(t *testing.T) {
	cases := []error{
		errors.New("dial tcp 10.0.0.1:443: connection refused"),
		errors.New("context deadline exceeded"),
		errors.New("empty response from LLM"),
		fmt.Errorf("LLM chat failed: %w", context.DeadlineExceeded),
		ErrTimeout,
	}
	for _, err := range cases {
		if !ShouldRetry(err) {
			t.Errorf("expected %q to be transient", err)
		}
	}
}

func TestClassifyPermanent(t *testing.T) {
	cases := []error{
		errors.New("invalid request payload"),
		errors.New("model does not exist"),
	}
	for _, err := range cases {
		if ShouldRetry(err) {
			t.Errorf("expected %q to be permanent", err)
		}
	}
}

func TestClassifyNil(t *testing.T) {
	if Classify(nil) != nil {
		t.Error("expected nil classification for nil error")
	}
	if ShouldRetry(nil) {
		t.Error("nil error must not be retried")
	}
}

func TestKind(t *testing.T) {
	cases := map[error]string{
		ErrUnsupportedIntent:                       "unsupported_intent",
		ErrGenerationFailed:                        "generation_failed",
		ErrAgentNotFound:                           "agent_not_found",
		ErrSessionNotFound:                         "session_not_found",
		fmt.Errorf("wrap: %w", ErrTimeout):         "timeout",
		errors.New("something else"):               "internal",
		fmt.Errorf("x: %w", ErrGenerationFailed):   "generation_failed",
		fmt.Errorf("y: %w", ErrClassifierUnavailable): "classifier_unavailable",
	}
	for err, want := range cases {
		if got := Kind(err); got != want {
			t.Errorf("Kind(%v) = %q, want %q", err, got, want)
		}
	}
	if Kind(nil) != "" {
		t.Error("Kind(nil) must be empty")
	}
}
