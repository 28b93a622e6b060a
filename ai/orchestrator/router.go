package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/storyai/wellspring/ai/errclass"
	"github.com/storyai/wellspring/ai/exercise"
	"github.com/storyai/wellspring/ai/gratitude"
	"github.com/storyai/wellspring/ai/guide"
	"github.com/storyai/wellspring/ai/insight"
	"github.com/storyai/wellspring/ai/metrics"
	"github.com/storyai/wellspring/ai/routing"
	"github.com/storyai/wellspring/ai/therapy"
)

// assistantCapability is the discovery tag tried when classification cannot
// resolve a query to any local intent.
const assistantCapability = "wellbeing.assistant"

// Recorder persists journal analyses. Persistence is best-effort: a failed
// save is logged, never surfaced to the caller.
type Recorder interface {
	SaveJournalInsight(ctx context.Context, userID string, record *insight.Record) error
}

// Deps holds the router's collaborators. Analyzer, Exercise, Gratitude,
// Therapy and Guide are required; the rest are optional.
type Deps struct {
	Analyzer  *insight.Analyzer
	Exercise  *exercise.Generator
	Gratitude *gratitude.Generator
	Therapy   *therapy.Manager
	Guide     *guide.Recommender

	Routing   *routing.Service
	Discovery Discovery
	Transport Transport
	Recorder  Recorder
	Exporter  *metrics.PrometheusExporter

	MaxParallel int64
}

// Router routes requests to local components or discovered external agents.
type Router struct {
	routing   *routing.Service
	executor  *Executor
	discovery Discovery
	transport Transport
	recorder  Recorder
	exporter  *metrics.PrometheusExporter

	insight   Target
	exercise  Target
	gratitude Target
	therapy   Target
	guide     Target
}

// NewRouter wires the router from its collaborators.
func NewRouter(deps Deps) *Router {
	rt := deps.Routing
	if rt == nil {
		rt = routing.NewService(routing.Config{})
	}
	return &Router{
		routing:   rt,
		executor:  NewExecutor(deps.MaxParallel),
		discovery: deps.Discovery,
		transport: deps.Transport,
		recorder:  deps.Recorder,
		exporter:  deps.Exporter,
		insight:   &insightTarget{analyzer: deps.Analyzer},
		exercise:  &exerciseTarget{generator: deps.Exercise},
		gratitude: &gratitudeTarget{generator: deps.Gratitude},
		therapy:   &therapyTarget{manager: deps.Therapy},
		guide:     &guideTarget{recommender: deps.Guide},
	}
}

// Route resolves the request's intent, executes the plan, and merges the
// branch results. It returns an error only for malformed requests; every
// execution failure is folded into a degraded Response instead.
func (r *Router) Route(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request: %w", errclass.ErrUnsupportedIntent)
	}
	kind, err := ParseKind(string(req.Kind))
	if err != nil {
		return nil, err
	}

	started := time.Now()
	resp, err := r.dispatch(ctx, req, kind)
	if err != nil {
		return nil, err
	}

	if r.exporter != nil {
		r.exporter.RecordRequest(string(kind), time.Since(started), resp.Degraded)
		for _, step := range resp.Trace.Steps {
			r.exporter.RecordBranch(step.Target, step.Elapsed, step.ErrorKind)
		}
	}
	slog.Info("router: request handled",
		"kind", kind,
		"intent", resp.Trace.Intent,
		"degraded", resp.Degraded,
		"branches", len(resp.Trace.Steps),
		"duration_ms", time.Since(started).Milliseconds())
	return resp, nil
}

func (r *Router) dispatch(ctx context.Context, req *Request, kind RequestKind) (*Response, error) {
	if kind == KindQuery {
		return r.routeQuery(ctx, req)
	}
	decision, err := r.plan(kind)
	if err != nil {
		return nil, err
	}
	return r.run(ctx, req, decision), nil
}

// plan maps an explicit kind to its routing decision. Journal requests fan
// out to both generators; exercise and gratitude requests still run the
// insight stage first so the generator has a record to work from.
func (r *Router) plan(kind RequestKind) (*RoutingDecision, error) {
	switch kind {
	case KindJournal:
		return &RoutingDecision{Intent: string(kind), Primary: r.insight, Parallel: []Target{r.exercise, r.gratitude}}, nil
	case KindExercise:
		return &RoutingDecision{Intent: string(kind), Primary: r.insight, Parallel: []Target{r.exercise}}, nil
	case KindGratitude:
		return &RoutingDecision{Intent: string(kind), Primary: r.insight, Parallel: []Target{r.gratitude}}, nil
	case KindTherapy:
		return &RoutingDecision{Intent: string(kind), Primary: r.therapy}, nil
	case KindGuide:
		return &RoutingDecision{Intent: string(kind), Primary: r.guide}, nil
	}
	return nil, fmt.Errorf("kind %q: %w", kind, errclass.ErrUnsupportedIntent)
}

// routeQuery classifies a free-form query and re-dispatches under the
// resolved intent. Unresolvable queries try the external assistant agent and
// fall back to guide suggestions when none is available.
func (r *Router) routeQuery(ctx context.Context, req *Request) (*Response, error) {
	intent, confidence := r.routing.ClassifyIntent(req.SessionID, req.Payload)
	if intent.IsKnown() {
		slog.Debug("router: query classified", "intent", intent, "confidence", confidence)
		resolved := *req
		resolved.Kind = RequestKind(intent)
		resp, err := r.dispatch(ctx, &resolved, resolved.Kind)
		if err == nil {
			r.routing.RecordExecution(req.SessionID, intent)
			resp.Trace.Intent = string(intent)
		}
		return resp, err
	}
	return r.routeExternal(ctx, req)
}

// routeExternal hands a query no local intent claims to a discovered agent.
// When discovery has nothing, the response degrades to guide suggestions so
// the caller always gets something actionable.
func (r *Router) routeExternal(ctx context.Context, req *Request) (*Response, error) {
	if r.discovery != nil && r.transport != nil {
		handle, err := r.discovery.Find(ctx, assistantCapability)
		if err == nil {
			decision := &RoutingDecision{Intent: "external", Primary: &externalTarget{handle: handle, transport: r.transport}}
			return r.run(ctx, req, decision), nil
		}
		slog.Warn("router: discovery failed, falling back to guide",
			"capability", assistantCapability,
			"error_kind", errclass.Kind(err))
	}

	resp := r.run(ctx, req, &RoutingDecision{Intent: string(routing.IntentUnknown), Primary: r.guide})
	resp.Degraded = true
	return resp, nil
}

// run executes a routing decision: the primary stage first, then the
// parallel-eligible stage. The parallel stage runs even when the primary
// fails: branches that can work without it still produce artifacts, the
// rest degrade.
func (r *Router) run(ctx context.Context, req *Request, decision *RoutingDecision) *Response {
	resp := &Response{Trace: RoutingTrace{Intent: decision.Intent}}

	first := r.executor.runOne(ctx, decision.Primary, req, nil)
	resp.Trace.Steps = append(resp.Trace.Steps, first.step)
	resp.Degraded = first.step.Degraded
	resp.Primary = first.artifact

	if len(decision.Parallel) == 0 {
		return resp
	}

	var upstream []*Artifact
	if first.artifact != nil {
		upstream = []*Artifact{first.artifact}
		// Only journal requests persist their analysis; exercise and
		// gratitude requests analyze transiently.
		if decision.Intent == string(KindJournal) {
			r.persistInsight(ctx, req, first.artifact)
		}
	}

	results := r.executor.runAll(ctx, decision.Parallel, req, upstream)
	for _, result := range results {
		resp.Trace.Steps = append(resp.Trace.Steps, result.step)
		if result.step.Degraded {
			resp.Degraded = true
			continue
		}
		resp.Secondary = append(resp.Secondary, result.artifact)
	}

	// The requested kind's artifact is the primary; for journal requests it
	// is the insight record itself.
	if decision.Intent != string(KindJournal) {
		for i, artifact := range resp.Secondary {
			if artifact.Kind == decision.Intent {
				resp.Primary = artifact
				resp.Secondary = append(resp.Secondary[:i], resp.Secondary[i+1:]...)
				if first.artifact != nil {
					resp.Secondary = append(resp.Secondary, first.artifact)
				}
				break
			}
		}
	}
	return resp
}

func (r *Router) persistInsight(ctx context.Context, req *Request, artifact *Artifact) {
	if r.recorder == nil {
		return
	}
	record, ok := artifact.Data.(*insight.Record)
	if !ok {
		return
	}
	if err := r.recorder.SaveJournalInsight(ctx, req.UserID, record); err != nil {
		slog.Warn("router: insight save failed", "user_id", req.UserID, "error", err)
	}
}
