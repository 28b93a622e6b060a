package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/storyai/wellspring/ai/errclass"
	"github.com/storyai/wellspring/ai/exercise"
	"github.com/storyai/wellspring/ai/gratitude"
	"github.com/storyai/wellspring/ai/guide"
	"github.com/storyai/wellspring/ai/insight"
	"github.com/storyai/wellspring/ai/therapy"
)

// Artifact kinds produced by the local targets.
const (
	ArtifactInsight   = "insight"
	ArtifactExercise  = "exercise"
	ArtifactGratitude = "gratitude"
	ArtifactTherapy   = "therapy"
	ArtifactGuide     = "guide"
)

// upstreamRecord pulls the insight record out of upstream artifacts. Returns
// nil when no insight branch ran.
func upstreamRecord(upstream []*Artifact) *insight.Record {
	for _, artifact := range upstream {
		if artifact == nil || artifact.Kind != ArtifactInsight {
			continue
		}
		if record, ok := artifact.Data.(*insight.Record); ok {
			return record
		}
	}
	return nil
}

type insightTarget struct {
	analyzer *insight.Analyzer
}

func (t *insightTarget) Name() string { return ArtifactInsight }

func (t *insightTarget) Invoke(ctx context.Context, req *Request, _ []*Artifact) (*Artifact, error) {
	record, err := t.analyzer.AnalyzeJournal(ctx, req.Payload)
	if err != nil {
		return nil, err
	}
	return &Artifact{Kind: ArtifactInsight, Data: record}, nil
}

type exerciseTarget struct {
	generator *exercise.Generator
}

func (t *exerciseTarget) Name() string { return ArtifactExercise }

func (t *exerciseTarget) Invoke(ctx context.Context, req *Request, upstream []*Artifact) (*Artifact, error) {
	record := upstreamRecord(upstream)
	if record == nil {
		return nil, fmt.Errorf("exercise target: no insight available: %w", errclass.ErrGenerationFailed)
	}
	descriptor, err := t.generator.Generate(ctx, record)
	if err != nil {
		return nil, err
	}
	return &Artifact{Kind: ArtifactExercise, Data: descriptor}, nil
}

type gratitudeTarget struct {
	generator *gratitude.Generator
}

func (t *gratitudeTarget) Name() string { return ArtifactGratitude }

func (t *gratitudeTarget) Invoke(ctx context.Context, req *Request, upstream []*Artifact) (*Artifact, error) {
	// A missing insight record is fine: gratitude prompts work standalone.
	descriptor, err := t.generator.Generate(ctx, upstreamRecord(upstream))
	if err != nil {
		return nil, err
	}
	return &Artifact{Kind: ArtifactGratitude, Data: descriptor}, nil
}

// TherapyResult is the therapy branch payload.
type TherapyResult struct {
	Reply     string `json:"reply,omitempty"`
	Summary   string `json:"summary,omitempty"`
	SessionID string `json:"session_id"`
	Ended     bool   `json:"ended"`
}

type therapyTarget struct {
	manager *therapy.Manager
}

func (t *therapyTarget) Name() string { return ArtifactTherapy }

func (t *therapyTarget) Invoke(ctx context.Context, req *Request, _ []*Artifact) (*Artifact, error) {
	if strings.EqualFold(req.Action, "end") {
		summary, err := t.manager.End(ctx, req.SessionID)
		if err != nil {
			return nil, err
		}
		return &Artifact{
			Kind:      ArtifactTherapy,
			SessionID: req.SessionID,
			Data:      &TherapyResult{Summary: summary, SessionID: req.SessionID, Ended: true},
		}, nil
	}

	reply, sessionID, err := t.manager.StartOrContinue(ctx, req.SessionID, req.UserID, req.Payload)
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Kind:      ArtifactTherapy,
		SessionID: sessionID,
		Data:      &TherapyResult{Reply: reply, SessionID: sessionID},
	}, nil
}

type guideTarget struct {
	recommender *guide.Recommender
}

func (t *guideTarget) Name() string { return ArtifactGuide }

func (t *guideTarget) Invoke(_ context.Context, req *Request, _ []*Artifact) (*Artifact, error) {
	return &Artifact{Kind: ArtifactGuide, Data: t.recommender.Recommend(req.Payload)}, nil
}

// externalTarget dispatches to a discovered agent over the transport.
type externalTarget struct {
	handle    *AgentHandle
	transport Transport
}

func (t *externalTarget) Name() string { return "agent:" + t.handle.AgentID }

func (t *externalTarget) Invoke(ctx context.Context, req *Request, _ []*Artifact) (*Artifact, error) {
	result, err := t.transport.Send(ctx, t.handle, req.Payload)
	if err != nil {
		return nil, err
	}
	return &Artifact{Kind: t.Name(), Data: result}, nil
}
