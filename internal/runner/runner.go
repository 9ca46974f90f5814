// Package runner executes checklist steps. A Runner owns one checklist
// and its live execution context, and is the single write path for both:
// completers compute results concurrently, but every step and context
// mutation lands through the Runner's commit under one lock, so the
// in-flight marker and the terminal result for a step are strictly
// ordered and two steps never corrupt each other's entries.
package runner

import (
	"context"
	"fmt"
	"sync"

	"github.com/chainrun/chainrun/internal/chain"
	"github.com/chainrun/chainrun/internal/ctxlog"
	"github.com/chainrun/chainrun/internal/graph"
	"github.com/chainrun/chainrun/internal/model"
	"github.com/chainrun/chainrun/internal/template"
)

// ClientPool hands out a chain client for a declared chain ID. The pool,
// not the runner, decides how clients map to endpoints and how they are
// cached.
type ClientPool interface {
	Client(ctx context.Context, chainID uint64) (chain.Client, error)
}

// Recorder receives each committed step outcome, for audit trails. It is
// optional; a nil Recorder drops outcomes silently.
type Recorder interface {
	Record(ctx context.Context, stepID string, kind model.Kind, res model.StepResult) error
}

// Runner drives step execution for a single checklist.
type Runner struct {
	mu   sync.Mutex
	list *model.Checklist
	ec   model.ExecutionContext

	pool ClientPool
	tmpl template.Engine
	rec  Recorder
}

// Option configures a Runner.
type Option func(*Runner)

// WithRecorder attaches an audit recorder to the runner.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.rec = rec }
}

// New validates the checklist's dependency graph and builds a Runner
// seeded with the execution context projected from already-complete
// steps. Validation failure blocks the whole checklist.
func New(list *model.Checklist, pool ClientPool, tmpl template.Engine, opts ...Option) (*Runner, error) {
	if err := graph.Validate(list.Steps); err != nil {
		return nil, err
	}
	r := &Runner{
		list: list,
		ec:   model.BuildExecutionContext(list),
		pool: pool,
		tmpl: tmpl,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Checklist returns the runner's checklist. Callers must not mutate steps
// while completers are running; reads between rounds are fine.
func (r *Runner) Checklist() *model.Checklist {
	return r.list
}

// Context returns a snapshot of the live execution context, including any
// transient in-flight markers.
func (r *Runner) Context() model.ExecutionContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ec.Clone()
}

// readyStep resolves a step ID for execution: the step must exist, be
// incomplete, and have its whole dependency closure complete.
func (r *Runner) readyStep(id string) (model.Step, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	step := r.list.Step(id)
	if step == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStep, id)
	}
	if step.Complete() {
		return nil, fmt.Errorf("%w: %q", ErrStepComplete, id)
	}
	for _, ready := range graph.NextSteps(r.list) {
		if ready.Head().ID == id {
			return step, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrStepNotReady, id)
}

// markExecuting writes the in-flight placeholder for a step. A stale
// placeholder from an abandoned earlier attempt is left as-is: the
// terminal commit of the retry overwrites it.
func (r *Runner) markExecuting(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ec[id]; !ok {
		r.ec[id] = model.StepResult{Executing: true}
	}
}

// commit applies a step's terminal outcome: the mutation of the step's
// own result fields and the context entry land together, so the two can
// never disagree about a completed step.
func (r *Runner) commit(ctx context.Context, id string, kind model.Kind, res model.StepResult, mutate func()) {
	r.mu.Lock()
	mutate()
	r.ec[id] = res
	r.mu.Unlock()

	ctxlog.FromContext(ctx).Info("step committed",
		"step", id, "kind", string(kind), "success", res.Success)

	if r.rec != nil {
		if err := r.rec.Record(ctx, id, kind, res); err != nil {
			ctxlog.FromContext(ctx).Warn("audit record failed", "step", id, "error", err)
		}
	}
}

// renderParams interpolates a step's parameter templates against the
// current context snapshot.
func (r *Runner) renderParams(params []string) ([]string, error) {
	return template.RenderAll(r.tmpl, params, r.Context())
}
