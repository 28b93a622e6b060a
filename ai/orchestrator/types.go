// Package orchestrator is the core of the platform: it routes incoming
// requests to local wellbeing components or discovered external agents,
// fans parallel-eligible branches out under a bounded executor, and merges
// the results into a single response with a per-branch trace.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/storyai/wellspring/ai/errclass"
)

// RequestKind identifies what a request asks for. Explicit kinds skip intent
// inference; KindQuery goes through classification.
type RequestKind string

const (
	KindJournal   RequestKind = "journal"
	KindExercise  RequestKind = "exercise"
	KindGratitude RequestKind = "gratitude"
	KindTherapy   RequestKind = "therapy"
	KindGuide     RequestKind = "guide"
	KindQuery     RequestKind = "query"
)

// ParseKind validates a raw kind string.
func ParseKind(raw string) (RequestKind, error) {
	kind := RequestKind(raw)
	switch kind {
	case KindJournal, KindExercise, KindGratitude, KindTherapy, KindGuide, KindQuery:
		return kind, nil
	}
	return "", fmt.Errorf("kind %q: %w", raw, errclass.ErrUnsupportedIntent)
}

// Request is a single unit of routed work.
type Request struct {
	UserID    string      `json:"user_id"`
	Kind      RequestKind `json:"kind"`
	Payload   string      `json:"payload"`
	SessionID string      `json:"session_id,omitempty"`
	// Action refines therapy requests: "continue" (default) or "end".
	Action string `json:"action,omitempty"`
}

// Artifact is one branch's output. Kind names the producing component;
// Data carries the component-specific result.
type Artifact struct {
	Kind string `json:"kind"`
	Data any    `json:"data"`
	// SessionID is set by session-scoped branches (therapy).
	SessionID string `json:"session_id,omitempty"`
}

// TraceStep records one branch of the routing trace.
type TraceStep struct {
	Target     string        `json:"target"`
	DurationMs int64         `json:"duration_ms"`
	ErrorKind  string        `json:"error_kind,omitempty"`
	Degraded   bool          `json:"degraded"`
	StartedAt  time.Time     `json:"started_at"`
	Elapsed    time.Duration `json:"-"`
}

// RoutingTrace is the ordered record of every branch attempted for a request.
type RoutingTrace struct {
	Intent string      `json:"intent"`
	Steps  []TraceStep `json:"steps"`
}

// Response is the routed result. It is always produced: failed branches
// appear as degraded entries in the trace, never as a missing response.
type Response struct {
	Primary   *Artifact    `json:"primary,omitempty"`
	Secondary []*Artifact  `json:"secondary,omitempty"`
	Degraded  bool         `json:"degraded"`
	Trace     RoutingTrace `json:"trace"`
}

// Target is a uniform invocation surface over local components and external
// agents. Upstream holds artifacts from branches the target depends on.
type Target interface {
	Name() string
	Invoke(ctx context.Context, req *Request, upstream []*Artifact) (*Artifact, error)
}

// RoutingDecision is the plan derived from a request: an ordered primary
// stage followed by an optional parallel-eligible stage.
type RoutingDecision struct {
	Intent   string
	Primary  Target
	Parallel []Target
}
