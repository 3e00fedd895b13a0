// Package engine implements the Executor: the streaming interpreter that
// orders steps, resolves arguments, dispatches tools, enforces
// guards/escalations, emits events, and computes the terminal verdict.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vivek100/mothBot/expr"
	"github.com/vivek100/mothBot/plan"
	"github.com/vivek100/mothBot/telemetry"
	"github.com/vivek100/mothBot/tools"
)

// Run validates p against registry and, if valid, starts a run in a new
// goroutine and returns the live event channel immediately. A validation
// failure is returned as an error with no channel and no event emitted at
// all — no event is ever emitted before validation completes.
//
// The returned channel is closed after exactly one Finish event. Consumers
// must drain it (or cancel ctx and keep draining) to avoid blocking the
// run's goroutine — the channel has no buffer by default, so event
// emission and consumption are in lock-step.
func Run(ctx context.Context, p *plan.Plan, registry *tools.Registry, opts ...Option) (<-chan Event, error) {
	if err := plan.Validate(p, registry); err != nil {
		return nil, err
	}

	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	ch := make(chan Event, cfg.eventBuffer)
	go runLoop(ctx, p, registry, cfg, ch)
	return ch, nil
}

// RunCollecting runs to completion and returns the materialized Result,
// including every non-terminal event observed, for callers who do not want
// the incremental stream.
func RunCollecting(ctx context.Context, p *plan.Plan, registry *tools.Registry, opts ...Option) (Result, error) {
	ch, err := Run(ctx, p, registry, opts...)
	if err != nil {
		return Result{}, err
	}
	var events []Event
	var finish Event
	for ev := range ch {
		if ev.Type == EventFinish {
			finish = ev
			continue
		}
		events = append(events, ev)
	}
	return resultFromFinish(finish, events), nil
}

type runState struct {
	ctx      context.Context
	plan     *plan.Plan
	registry *tools.Registry
	cfg      *runConfig
	ch       chan<- Event
	rctx     *Context
	keyFound []string
	start    time.Time
	runID    string
}

func runLoop(ctx context.Context, p *plan.Plan, registry *tools.Registry, cfg *runConfig, ch chan<- Event) {
	defer close(ch)

	ctx, span := telemetry.StartRunSpan(ctx, p.ID, len(p.Steps))
	defer span.End()

	st := &runState{
		ctx:      ctx,
		plan:     p,
		registry: registry,
		cfg:      cfg,
		ch:       ch,
		rctx:     newContext(),
		start:    time.Now(),
		runID:    uuid.NewString(),
	}

	st.emit(Event{Type: EventStart, Timestamp: time.Now(), PlanID: p.ID, StepCount: len(p.Steps)})
	cfg.logger.Info("run started", map[string]interface{}{"run_id": st.runID, "plan_id": p.ID, "step_count": len(p.Steps)})

	for _, step := range p.Steps {
		if ctx.Err() != nil {
			st.finishCancelled()
			return
		}
		if !st.runStep(step) {
			return
		}
	}

	st.finishSuccess()
}

// runStep executes one step and reports whether the run should continue
// (true) or has already terminated (false, having emitted its own Error
// and/or Finish events).
func (st *runState) runStep(step plan.Step) bool {
	if step.RunIf != "" {
		skip, ok := st.evalGuard(step)
		if !ok {
			return false
		}
		if skip {
			st.emit(Event{
				Type:       EventStepSkipped,
				Timestamp:  time.Now(),
				StepID:     step.ID,
				Reason:     "run_if",
				Expression: step.RunIf,
			})
			st.cfg.logger.Info("step skipped", map[string]interface{}{"step_id": step.ID, "expression": step.RunIf})
			return true
		}
	}

	resolvedArgs, err := expr.ResolveArgs(step.Args, step.ID, st.rctx)
	if err != nil {
		st.finishExpressionError(step.ID, err)
		return false
	}

	st.emit(Event{
		Type:         EventStepStart,
		Timestamp:    time.Now(),
		StepID:       step.ID,
		Tool:         step.Tool,
		ResolvedArgs: resolvedArgs,
		Description:  step.Description,
		KeyFinding:   step.KeyFinding,
	})
	st.cfg.logger.Info("step started", map[string]interface{}{"step_id": step.ID, "tool": step.Tool})

	entry, _ := st.registry.Get(step.Tool) // presence guaranteed by plan.Validate

	stepCtx, stepSpan := telemetry.StartStepSpan(st.ctx, step.ID, step.Tool)
	stepStart := time.Now()
	output, invokeErr := entry.Invoke(stepCtx, resolvedArgs)
	duration := time.Since(stepStart)
	stepSpan.End()

	if invokeErr != nil {
		toolErr := &tools.ToolError{ToolName: step.Tool, StepID: step.ID, Cause: invokeErr}
		telemetry.RecordError(st.ctx, toolErr)
		st.finishToolError(step.ID, toolErr)
		return false
	}

	st.rctx.set(step.ID, output)
	if step.KeyFinding {
		st.keyFound = append(st.keyFound, step.ID)
	}

	if step.InterventionIf != "" {
		triggered, ok := st.evalIntervention(step)
		if !ok {
			return false
		}
		if triggered {
			st.emit(Event{
				Type:       EventInterventionNeeded,
				Timestamp:  time.Now(),
				StepID:     step.ID,
				Expression: step.InterventionIf,
				Output:     output,
			})
			st.cfg.logger.Info("intervention needed", map[string]interface{}{"step_id": step.ID, "expression": step.InterventionIf})
			st.finishIntervention(step.ID)
			return false
		}
	}

	st.emit(Event{
		Type:       EventStepComplete,
		Timestamp:  time.Now(),
		StepID:     step.ID,
		Output:     output,
		DurationMs: duration.Milliseconds(),
	})
	st.cfg.logger.Info("step completed", map[string]interface{}{"step_id": step.ID, "duration_ms": duration.Milliseconds()})
	return true
}

// evalGuard parses and evaluates step.RunIf. The second return value is
// false when an expression/reference error already terminated the run.
func (st *runState) evalGuard(step plan.Step) (skip bool, ok bool) {
	parsed, err := expr.Parse(step.RunIf)
	if err != nil {
		st.finishExpressionError(step.ID, err)
		return false, false
	}
	truthy, err := expr.EvalGuard(parsed, step.ID, step.RunIf, st.rctx)
	if err != nil {
		st.finishExpressionError(step.ID, err)
		return false, false
	}
	return !truthy, true
}

// evalIntervention parses and evaluates step.InterventionIf against the
// context as it stands immediately after the step committed its output.
func (st *runState) evalIntervention(step plan.Step) (triggered bool, ok bool) {
	parsed, err := expr.Parse(step.InterventionIf)
	if err != nil {
		st.finishExpressionError(step.ID, err)
		return false, false
	}
	truthy, err := expr.EvalGuard(parsed, step.ID, step.InterventionIf, st.rctx)
	if err != nil {
		st.finishExpressionError(step.ID, err)
		return false, false
	}
	return truthy, true
}

// emit stamps e with the run's identifier and sends it, so every call site
// above only needs to populate the fields specific to that event type.
func (st *runState) emit(e Event) {
	e.RunID = st.runID
	st.ch <- e
}

func (st *runState) totalDurationMs() int64 {
	return time.Since(st.start).Milliseconds()
}

func (st *runState) finishSuccess() {
	st.emit(Event{
		Type:            EventFinish,
		Timestamp:       time.Now(),
		Verdict:         VerdictSuccess,
		ContextSnapshot: st.rctx.Snapshot(),
		KeyFindings:     st.keyFound,
		TotalDurationMs: st.totalDurationMs(),
	})
	st.cfg.logger.Info("run finished", map[string]interface{}{"verdict": string(VerdictSuccess)})
}

func (st *runState) finishCancelled() {
	st.emit(Event{
		Type:      EventError,
		Timestamp: time.Now(),
		ErrorKind: KindCancelled,
		Message:   "run cancelled",
	})
	st.emit(Event{
		Type:            EventFinish,
		Timestamp:       time.Now(),
		Verdict:         VerdictCancelled,
		ContextSnapshot: st.rctx.Snapshot(),
		KeyFindings:     st.keyFound,
		TotalDurationMs: st.totalDurationMs(),
	})
	st.cfg.logger.Warn("run cancelled", nil)
}

// finishExpressionError reports a failed argument/guard resolution. Both
// ExpressionError and ReferenceError surface here as an Error event with
// kind Expression — a reference failure is handled identically to a parse
// or type-rule failure from the run's point of view.
func (st *runState) finishExpressionError(stepID string, err error) {
	st.emit(Event{
		Type:      EventError,
		Timestamp: time.Now(),
		StepID:    stepID,
		ErrorKind: KindExpression,
		Message:   err.Error(),
	})
	st.emit(Event{
		Type:            EventFinish,
		Timestamp:       time.Now(),
		Verdict:         VerdictFailure,
		ContextSnapshot: st.rctx.Snapshot(),
		KeyFindings:     st.keyFound,
		TotalDurationMs: st.totalDurationMs(),
		FirstError:      stepID,
	})
	st.cfg.logger.Error("run failed", map[string]interface{}{"step_id": stepID, "kind": "expression", "message": err.Error()})
}

func (st *runState) finishToolError(stepID string, toolErr *tools.ToolError) {
	st.emit(Event{
		Type:      EventError,
		Timestamp: time.Now(),
		StepID:    stepID,
		ErrorKind: KindTool,
		Message:   toolErr.Cause.Error(),
		Cause:     toolErr.Error(),
	})
	st.emit(Event{
		Type:            EventFinish,
		Timestamp:       time.Now(),
		Verdict:         VerdictFailure,
		ContextSnapshot: st.rctx.Snapshot(),
		KeyFindings:     st.keyFound,
		TotalDurationMs: st.totalDurationMs(),
		FirstError:      stepID,
	})
	st.cfg.logger.Error("run failed", map[string]interface{}{"step_id": stepID, "kind": "tool", "message": toolErr.Cause.Error()})
}

func (st *runState) finishIntervention(stepID string) {
	st.emit(Event{
		Type:                EventFinish,
		Timestamp:           time.Now(),
		Verdict:             VerdictInterventionNeeded,
		ContextSnapshot:     st.rctx.Snapshot(),
		KeyFindings:         st.keyFound,
		TotalDurationMs:     st.totalDurationMs(),
		InterventionTrigger: stepID,
	})
	st.cfg.logger.Info("run finished", map[string]interface{}{"verdict": string(VerdictInterventionNeeded), "trigger": stepID})
}
