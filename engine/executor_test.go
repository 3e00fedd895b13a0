package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivek100/mothBot/plan"
	"github.com/vivek100/mothBot/tools"
	"github.com/vivek100/mothBot/value"
)

func newFixtureRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	r := tools.New()
	require.NoError(t, r.RegisterSync("check_oxygen", func(ctx context.Context, args map[string]value.Value) (value.Value, error) {
		return value.Map(map[string]value.Value{"level": value.Number(10), "status": value.String("LOW")}), nil
	}))
	require.NoError(t, r.RegisterSync("analyze", func(ctx context.Context, args map[string]value.Value) (value.Value, error) {
		return value.Map(map[string]value.Value{"received": args["o2_level"]}), nil
	}))
	require.NoError(t, r.RegisterSync("check_engine", func(ctx context.Context, args map[string]value.Value) (value.Value, error) {
		return value.Map(map[string]value.Value{"engine_ok": value.Bool(true)}), nil
	}))
	require.NoError(t, r.RegisterSync("always_fail", func(ctx context.Context, args map[string]value.Value) (value.Value, error) {
		return value.Null, assertErr
	}))
	require.NoError(t, r.RegisterAsync("slow_echo", func(ctx context.Context, args map[string]value.Value) (value.Value, error) {
		select {
		case <-time.After(10 * time.Millisecond):
			return value.Map(args), nil
		case <-ctx.Done():
			return value.Null, ctx.Err()
		}
	}))
	return r
}

var assertErr = &testError{"sensor offline"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }

// Scenario A: a linear plan with no guards completes with verdict Success
// and one StepComplete per step, in plan order.
func TestScenarioALinearSuccess(t *testing.T) {
	p := &plan.Plan{ID: "scenario-a", Steps: []plan.Step{
		{ID: "s1", Tool: "check_oxygen"},
		{ID: "s2", Tool: "check_engine"},
	}}
	result, err := RunCollecting(context.Background(), p, newFixtureRegistry(t))
	require.NoError(t, err)
	assert.Equal(t, VerdictSuccess, result.Verdict)

	var completed []string
	for _, ev := range result.Events {
		if ev.Type == EventStepComplete {
			completed = append(completed, ev.StepID)
		}
	}
	assert.Equal(t, []string{"s1", "s2"}, completed)
}

// Scenario B: a later step's args reference an earlier step's output and
// receive the resolved value, not the literal reference string.
func TestScenarioBReferencePassing(t *testing.T) {
	p := &plan.Plan{ID: "scenario-b", Steps: []plan.Step{
		{ID: "s1", Tool: "check_oxygen"},
		{ID: "s2", Tool: "analyze", Args: map[string]interface{}{"o2_level": "$s1.level"}},
	}}
	result, err := RunCollecting(context.Background(), p, newFixtureRegistry(t))
	require.NoError(t, err)
	require.Equal(t, VerdictSuccess, result.Verdict)

	out := result.ContextSnapshot["s2"]
	m, ok := out.AsMap()
	require.True(t, ok)
	received := m["received"]
	require.Equal(t, value.KindNumber, received.Kind())
	n, ok := received.AsNumber()
	require.True(t, ok)
	assert.Equal(t, float64(10), n)
}

// Scenario C: a false run_if skips the step without invoking its tool; the
// run still completes successfully and the skipped step leaves no context
// entry for anything downstream to reference.
func TestScenarioCGuardSkip(t *testing.T) {
	p := &plan.Plan{ID: "scenario-c", Steps: []plan.Step{
		{ID: "s1", Tool: "check_oxygen"},
		{ID: "s2", Tool: "check_engine", RunIf: "$s1.level < 5"},
	}}
	result, err := RunCollecting(context.Background(), p, newFixtureRegistry(t))
	require.NoError(t, err)
	assert.Equal(t, VerdictSuccess, result.Verdict)

	var skipped, completed []string
	for _, ev := range result.Events {
		switch ev.Type {
		case EventStepSkipped:
			skipped = append(skipped, ev.StepID)
		case EventStepComplete:
			completed = append(completed, ev.StepID)
		}
	}
	assert.Equal(t, []string{"s2"}, skipped)
	assert.Equal(t, []string{"s1"}, completed)
	_, ok := result.ContextSnapshot["s2"]
	assert.False(t, ok)
}

// Scenario D: a triggered intervention_if halts the run immediately after
// the step commits its output — no further steps run, verdict is
// InterventionNeeded, and the triggering step id is reported.
func TestScenarioDIntervention(t *testing.T) {
	p := &plan.Plan{ID: "scenario-d", Steps: []plan.Step{
		{ID: "s1", Tool: "check_oxygen", InterventionIf: "$s1.level < 15"},
		{ID: "s2", Tool: "check_engine"},
	}}
	result, err := RunCollecting(context.Background(), p, newFixtureRegistry(t))
	require.NoError(t, err)
	assert.Equal(t, VerdictInterventionNeeded, result.Verdict)
	assert.Equal(t, "s1", result.InterventionTrigger)

	for _, ev := range result.Events {
		assert.NotEqual(t, "s2", ev.StepID, "no event for s2 should be emitted once s1 halts the run")
	}
}

// Scenario E: a tool returning an error ends the run with verdict Failure
// and an Error event of kind Tool naming the failing step.
func TestScenarioEToolFailure(t *testing.T) {
	p := &plan.Plan{ID: "scenario-e", Steps: []plan.Step{
		{ID: "s1", Tool: "always_fail"},
	}}
	result, err := RunCollecting(context.Background(), p, newFixtureRegistry(t))
	require.NoError(t, err)
	assert.Equal(t, VerdictFailure, result.Verdict)
	assert.Equal(t, "s1", result.FirstError)

	var errEvent *Event
	for i, ev := range result.Events {
		if ev.Type == EventError {
			errEvent = &result.Events[i]
		}
	}
	require.NotNil(t, errEvent)
	assert.Equal(t, KindTool, errEvent.ErrorKind)
}

// Scenario F: a run_if referencing a field absent from the resolved step
// output ends the run with verdict Failure and an Error event of kind
// Expression (the reference-error path folds into the expression-error
// event kind).
func TestScenarioFBadReference(t *testing.T) {
	p := &plan.Plan{ID: "scenario-f", Steps: []plan.Step{
		{ID: "s1", Tool: "check_oxygen"},
		{ID: "s2", Tool: "check_engine", RunIf: "$s1.missing_field < 5"},
	}}
	result, err := RunCollecting(context.Background(), p, newFixtureRegistry(t))
	require.NoError(t, err)
	assert.Equal(t, VerdictFailure, result.Verdict)
	assert.Equal(t, "s2", result.FirstError)

	var errEvent *Event
	for i, ev := range result.Events {
		if ev.Type == EventError {
			errEvent = &result.Events[i]
		}
	}
	require.NotNil(t, errEvent)
	assert.Equal(t, KindExpression, errEvent.ErrorKind)
}

// Property: validation failures never start a run — Run returns an error
// and a nil channel, and no event is ever emitted.
func TestValidationFailurePreventsRun(t *testing.T) {
	p := &plan.Plan{}
	ch, err := Run(context.Background(), p, newFixtureRegistry(t))
	require.Error(t, err)
	assert.Nil(t, ch)
}

// Property: the event stream always terminates with exactly one Finish
// event, and the channel closes immediately after.
func TestExactlyOneFinishEvent(t *testing.T) {
	p := &plan.Plan{Steps: []plan.Step{{ID: "s1", Tool: "check_oxygen"}}}
	ch, err := Run(context.Background(), p, newFixtureRegistry(t))
	require.NoError(t, err)

	finishCount := 0
	for ev := range ch {
		if ev.Type == EventFinish {
			finishCount++
		}
	}
	assert.Equal(t, 1, finishCount)
}

// Property: context is append-only — a committed step's output never
// changes, and a skipped step commits nothing.
func TestContextMonotonicity(t *testing.T) {
	p := &plan.Plan{Steps: []plan.Step{
		{ID: "s1", Tool: "check_oxygen"},
		{ID: "s2", Tool: "check_engine", RunIf: "$s1.level > 100"},
	}}
	result, err := RunCollecting(context.Background(), p, newFixtureRegistry(t))
	require.NoError(t, err)
	assert.Equal(t, VerdictSuccess, result.Verdict)
	_, hasS1 := result.ContextSnapshot["s1"]
	_, hasS2 := result.ContextSnapshot["s2"]
	assert.True(t, hasS1)
	assert.False(t, hasS2)
}

// Property: key findings are reported in the order their steps completed,
// and only for steps marked key_finding: true.
func TestKeyFindingsOrderedSubset(t *testing.T) {
	p := &plan.Plan{Steps: []plan.Step{
		{ID: "s1", Tool: "check_oxygen", KeyFinding: true},
		{ID: "s2", Tool: "check_engine"},
		{ID: "s3", Tool: "check_engine", KeyFinding: true},
	}}
	result, err := RunCollecting(context.Background(), p, newFixtureRegistry(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s3"}, result.KeyFindings)
}

// Property: cancelling the context before a step runs halts the run with
// verdict Cancelled and an Error event of kind Cancelled, without running
// the remaining steps.
func TestCancellationHaltsRun(t *testing.T) {
	p := &plan.Plan{Steps: []plan.Step{
		{ID: "s1", Tool: "slow_echo"},
		{ID: "s2", Tool: "check_engine"},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := RunCollecting(ctx, p, newFixtureRegistry(t))
	require.NoError(t, err)
	assert.Equal(t, VerdictCancelled, result.Verdict)
}

// Property: verdict exclusivity — exactly one Finish event per run and its
// Verdict is always one of the four defined constants.
func TestVerdictIsAlwaysOneOfFour(t *testing.T) {
	valid := map[Verdict]bool{
		VerdictSuccess: true, VerdictFailure: true,
		VerdictInterventionNeeded: true, VerdictCancelled: true,
	}

	cases := []*plan.Plan{
		{Steps: []plan.Step{{ID: "s1", Tool: "check_oxygen"}}},
		{Steps: []plan.Step{{ID: "s1", Tool: "always_fail"}}},
		{Steps: []plan.Step{{ID: "s1", Tool: "check_oxygen", InterventionIf: "$s1.level < 15"}}},
	}
	for _, p := range cases {
		result, err := RunCollecting(context.Background(), p, newFixtureRegistry(t))
		require.NoError(t, err)
		assert.True(t, valid[result.Verdict], "unexpected verdict %q", result.Verdict)
	}
}

// Boundary: a single-step plan with no guards and no args runs and
// completes successfully.
func TestSingleStepPlanNoArgs(t *testing.T) {
	p := &plan.Plan{Steps: []plan.Step{{ID: "only", Tool: "check_oxygen"}}}
	result, err := RunCollecting(context.Background(), p, newFixtureRegistry(t))
	require.NoError(t, err)
	assert.Equal(t, VerdictSuccess, result.Verdict)
}

// Boundary: an intervention_if on the very last step still halts before a
// Finish-with-Success would otherwise have been emitted.
func TestInterventionOnLastStep(t *testing.T) {
	p := &plan.Plan{Steps: []plan.Step{
		{ID: "s1", Tool: "check_oxygen"},
		{ID: "s2", Tool: "check_engine", InterventionIf: "true"},
	}}
	result, err := RunCollecting(context.Background(), p, newFixtureRegistry(t))
	require.NoError(t, err)
	assert.Equal(t, VerdictInterventionNeeded, result.Verdict)
	assert.Equal(t, "s2", result.InterventionTrigger)
}
