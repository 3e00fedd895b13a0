// Package plan defines the declarative plan document — the ordered sequence
// of tool invocations the Executor runs — and its one-time Validator.
package plan

// Step is a single entry in a Plan: an id unique within the plan, a tool
// name to resolve in the registry, optional arguments (literal or
// reference expressions), and optional guard/escalation expressions.
type Step struct {
	ID             string                 `json:"id" yaml:"id"`
	Tool           string                 `json:"tool" yaml:"tool"`
	Description    string                 `json:"description,omitempty" yaml:"description,omitempty"`
	Args           map[string]interface{} `json:"args,omitempty" yaml:"args,omitempty"`
	RunIf          string                 `json:"run_if,omitempty" yaml:"run_if,omitempty"`
	InterventionIf string                 `json:"intervention_if,omitempty" yaml:"intervention_if,omitempty"`
	KeyFinding     bool                   `json:"key_finding,omitempty" yaml:"key_finding,omitempty"`
}

// Plan is a document describing an ordered, non-empty sequence of Steps.
// Step order in the document is authoritative; the engine does not reorder.
type Plan struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Steps       []Step `json:"steps" yaml:"steps"`
}
