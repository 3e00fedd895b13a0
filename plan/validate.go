package plan

import (
	"github.com/vivek100/mothBot/expr"
)

// ToolLookup is the minimal registry surface the Validator needs: whether a
// tool name is present. The Tool Registry implements this; the Validator
// never needs to know about synchronicity or invocation.
type ToolLookup interface {
	Has(name string) bool
}

// Validate performs the plan's one-time, pre-run validation: the step list
// must be non-empty, step ids unique, every step's tool must resolve in the
// registry, every run_if/intervention_if/args reference must name a step id
// declared earlier in the document, and every expression must parse.
// Validate never evaluates an expression — only its shape and the
// declared-earlier-ness of the step ids it names.
func Validate(p *Plan, tools ToolLookup) error {
	if len(p.Steps) == 0 {
		return &ValidationError{Err: ErrEmptyPlan, Message: ErrEmptyPlan.Error()}
	}

	graph := newStepGraph()
	for _, step := range p.Steps {
		if step.ID == "" {
			return &ValidationError{Field: "id", Err: ErrDuplicateStepID, Message: "step id must not be empty"}
		}
		if graph.isDeclared(step.ID) {
			return &ValidationError{StepID: step.ID, Field: "id", Err: ErrDuplicateStepID, Message: "step id is used more than once in this plan"}
		}

		if !tools.Has(step.Tool) {
			return &ValidationError{StepID: step.ID, Field: "tool", Err: ErrUnknownTool, Message: "tool \"" + step.Tool + "\" is not present in the registry"}
		}

		// run_if and args are both resolved before this step's own output is
		// committed to context (the executor evaluates run_if and resolves
		// args ahead of invoking the tool), so neither may reference this
		// step's own id — check them against the graph as it stood before
		// this step was declared.
		if err := validateExpressionField(step.ID, "run_if", step.RunIf, graph); err != nil {
			return err
		}
		if err := validateArgsField(step.ID, step.Args, graph); err != nil {
			return err
		}

		graph.declare(step.ID)

		// intervention_if is evaluated only after the step commits its own
		// output, so a self-reference here is legitimate.
		if err := validateExpressionField(step.ID, "intervention_if", step.InterventionIf, graph); err != nil {
			return err
		}
	}
	return nil
}

func validateExpressionField(stepID, field, raw string, graph *stepGraph) error {
	if raw == "" {
		return nil
	}
	parsed, err := expr.Parse(raw)
	if err != nil {
		return &ValidationError{StepID: stepID, Field: field, Err: ErrBadExpression, Message: err.Error()}
	}
	for _, ref := range expr.ReferencedSteps(parsed) {
		if !graph.isDeclared(ref) {
			return &ValidationError{StepID: stepID, Field: field, Err: ErrForwardReference, Message: "reference to step \"" + ref + "\" which is not declared earlier in the plan"}
		}
	}
	return nil
}

func validateArgsField(stepID string, args map[string]interface{}, graph *stepGraph) error {
	if len(args) == 0 {
		return nil
	}
	var refs []string
	seen := map[string]bool{}
	for _, v := range args {
		if err := expr.ReferencedStepsInArg(v, &refs, seen); err != nil {
			return &ValidationError{StepID: stepID, Field: "args", Err: ErrBadExpression, Message: err.Error()}
		}
	}
	for _, ref := range refs {
		if !graph.isDeclared(ref) {
			return &ValidationError{StepID: stepID, Field: "args", Err: ErrForwardReference, Message: "reference to step \"" + ref + "\" which is not declared earlier in the plan"}
		}
	}
	return nil
}
