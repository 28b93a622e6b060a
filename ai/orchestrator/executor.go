package orchestrator

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/storyai/wellspring/ai/errclass"
)

// branchResult is one target's outcome inside a fan-out stage.
type branchResult struct {
	artifact *Artifact
	step     TraceStep
}

// Executor runs parallel-eligible targets under a bounded semaphore. One
// failed branch never aborts the others: its failure is recorded as a
// degraded trace step and the remaining branches complete normally.
type Executor struct {
	sem *semaphore.Weighted
}

// NewExecutor creates an executor allowing at most maxParallel branches to
// run at once.
func NewExecutor(maxParallel int64) *Executor {
	if maxParallel <= 0 {
		maxParallel = 4
	}
	return &Executor{sem: semaphore.NewWeighted(maxParallel)}
}

// runOne invokes a single target and converts the outcome to a trace step.
func (e *Executor) runOne(ctx context.Context, target Target, req *Request, upstream []*Artifact) branchResult {
	started := time.Now()
	artifact, err := target.Invoke(ctx, req, upstream)
	elapsed := time.Since(started)

	step := TraceStep{
		Target:     target.Name(),
		StartedAt:  started,
		Elapsed:    elapsed,
		DurationMs: elapsed.Milliseconds(),
	}
	if err != nil {
		step.Degraded = true
		step.ErrorKind = errclass.Kind(err)
		slog.Warn("orchestrator: branch failed",
			"target", target.Name(),
			"error_kind", step.ErrorKind,
			"error", err)
		return branchResult{step: step}
	}
	return branchResult{artifact: artifact, step: step}
}

// runAll fans the targets out in parallel and merges the results. The merge
// is commutative: artifacts and trace steps come back ordered by target name
// regardless of completion order.
func (e *Executor) runAll(ctx context.Context, targets []Target, req *Request, upstream []*Artifact) []branchResult {
	results := make([]branchResult, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		if err := e.sem.Acquire(ctx, 1); err != nil {
			results[i] = branchResult{step: TraceStep{
				Target:    target.Name(),
				StartedAt: time.Now(),
				Degraded:  true,
				ErrorKind: errclass.Kind(errclass.ErrTimeout),
			}}
			continue
		}
		wg.Add(1)
		go func(i int, target Target) {
			defer wg.Done()
			defer e.sem.Release(1)
			results[i] = e.runOne(ctx, target, req, upstream)
		}(i, target)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].step.Target < results[j].step.Target
	})
	return results
}
