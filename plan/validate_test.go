package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTools map[string]bool

func (f fakeTools) Has(name string) bool { return f[name] }

func TestValidateEmptyPlan(t *testing.T) {
	err := Validate(&Plan{}, fakeTools{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyPlan)
}

func TestValidateDuplicateStepID(t *testing.T) {
	p := &Plan{Steps: []Step{
		{ID: "s1", Tool: "check"},
		{ID: "s1", Tool: "check"},
	}}
	err := Validate(p, fakeTools{"check": true})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateStepID)
}

func TestValidateEmptyStepID(t *testing.T) {
	p := &Plan{Steps: []Step{{ID: "", Tool: "check"}}}
	err := Validate(p, fakeTools{"check": true})
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "id", verr.Field)
}

func TestValidateUnknownTool(t *testing.T) {
	p := &Plan{Steps: []Step{{ID: "s1", Tool: "nope"}}}
	err := Validate(p, fakeTools{"check": true})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestValidateForwardReferenceInRunIf(t *testing.T) {
	p := &Plan{Steps: []Step{
		{ID: "s1", Tool: "check", RunIf: "$s2.ok"},
		{ID: "s2", Tool: "check"},
	}}
	err := Validate(p, fakeTools{"check": true})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForwardReference)
}

func TestValidateForwardReferenceInArgs(t *testing.T) {
	p := &Plan{Steps: []Step{
		{ID: "s1", Tool: "check", Args: map[string]interface{}{"x": "$s2.level"}},
		{ID: "s2", Tool: "check"},
	}}
	err := Validate(p, fakeTools{"check": true})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForwardReference)
}

func TestValidateBadExpression(t *testing.T) {
	p := &Plan{Steps: []Step{
		{ID: "s1", Tool: "check", RunIf: "$s1 &&"},
	}}
	err := Validate(p, fakeTools{"check": true})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadExpression)
}

func TestValidateAcceptsSelfPrecedingReferences(t *testing.T) {
	p := &Plan{Steps: []Step{
		{ID: "s1", Tool: "check_oxygen"},
		{ID: "s2", Tool: "analyze", Args: map[string]interface{}{"o2_level": "$s1.level"}},
		{ID: "s3", Tool: "check_engine", RunIf: "$s1.level < 15"},
	}}
	err := Validate(p, fakeTools{"check_oxygen": true, "analyze": true, "check_engine": true})
	assert.NoError(t, err)
}

func TestValidateInterventionIfRejectsForwardReference(t *testing.T) {
	p := &Plan{Steps: []Step{
		{ID: "s1", Tool: "check"},
		{ID: "s2", Tool: "check", InterventionIf: "$s3.missing"},
	}}
	err := Validate(p, fakeTools{"check": true})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForwardReference)
}

// run_if is resolved before a step's own output is committed to context, so
// a plan that passes validation must never let run_if reference the step's
// own id — that reference would fail at runtime despite "passing"
// validation.
func TestValidateRejectsSelfReferenceInRunIf(t *testing.T) {
	p := &Plan{Steps: []Step{
		{ID: "s1", Tool: "check", RunIf: "$s1.ok"},
	}}
	err := Validate(p, fakeTools{"check": true})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForwardReference)
}

// args are resolved before the tool is invoked, i.e. before the step's own
// output exists, so a self-reference in args must be rejected the same way.
func TestValidateRejectsSelfReferenceInArgs(t *testing.T) {
	p := &Plan{Steps: []Step{
		{ID: "s1", Tool: "check", Args: map[string]interface{}{"x": "$s1.y"}},
	}}
	err := Validate(p, fakeTools{"check": true})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForwardReference)
}

// intervention_if is evaluated only after the step commits its own output,
// so a self-reference there is legitimate and must be accepted.
func TestValidateAcceptsSelfReferenceInInterventionIf(t *testing.T) {
	p := &Plan{Steps: []Step{
		{ID: "s1", Tool: "check", InterventionIf: "$s1.level < 15"},
	}}
	err := Validate(p, fakeTools{"check": true})
	assert.NoError(t, err)
}
