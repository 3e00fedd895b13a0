package expr

import "fmt"

// ExpressionError reports a guard/escalation expression that failed to
// parse, or that violated a type rule during evaluation (e.g. an ordered
// comparison between a string and a number). It always carries the step id
// the expression belongs to and the offending expression text.
type ExpressionError struct {
	StepID     string
	Expression string
	Message    string
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("expression error in step %q (%q): %s", e.StepID, e.Expression, e.Message)
}

// ReferenceError reports a `$step.path` reference that could not be
// resolved against the current context: either the step id itself has not
// completed (skipped, errored, or simply not reached yet), or a dotted
// segment is missing from the step's output.
type ReferenceError struct {
	StepID     string
	Expression string
	Ref        string
	Message    string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("reference error in step %q (%q): %s: %s", e.StepID, e.Expression, e.Ref, e.Message)
}
