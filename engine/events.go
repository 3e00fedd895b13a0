package engine

import (
	"time"

	"github.com/vivek100/mothBot/value"
)

// EventType tags which variant an Event carries.
type EventType string

const (
	EventStart               EventType = "Start"
	EventStepStart            EventType = "StepStart"
	EventStepComplete         EventType = "StepComplete"
	EventStepSkipped          EventType = "StepSkipped"
	EventInterventionNeeded   EventType = "InterventionNeeded"
	EventError                EventType = "Error"
	EventFinish               EventType = "Finish"
)

// ErrorKind tags the cause of an Error event. Both ExpressionError and
// ReferenceError surface as KindExpression on the event stream — a
// reference failure during argument or guard resolution folds into the
// same handling as any other expression failure, even though they remain
// distinct Go error types for callers inspecting Result.FirstError.
type ErrorKind string

const (
	KindValidation ErrorKind = "Validation"
	KindExpression ErrorKind = "Expression"
	KindTool       ErrorKind = "Tool"
	KindCancelled  ErrorKind = "Cancelled"
)

// Verdict is the terminal classification of a run. Exactly one of these is
// reported per run.
type Verdict string

const (
	VerdictSuccess             Verdict = "Success"
	VerdictFailure             Verdict = "Failure"
	VerdictInterventionNeeded  Verdict = "InterventionNeeded"
	VerdictCancelled           Verdict = "Cancelled"
)

// Event is one tagged entry in the executor's live stream. Exactly one
// field group (matching Type) is populated; the rest are zero values.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
	StepID    string    `json:"step_id,omitempty"`

	// Start
	PlanID    string `json:"plan_id,omitempty"`
	StepCount int    `json:"step_count,omitempty"`

	// StepStart
	Tool          string                   `json:"tool,omitempty"`
	ResolvedArgs  map[string]value.Value   `json:"resolved_args,omitempty"`
	Description   string                   `json:"description,omitempty"`
	KeyFinding    bool                     `json:"key_finding,omitempty"`

	// StepComplete
	Output     value.Value   `json:"output,omitempty"`
	DurationMs int64         `json:"duration_ms,omitempty"`

	// StepSkipped
	Reason     string `json:"reason,omitempty"`
	Expression string `json:"expression,omitempty"`

	// InterventionNeeded (reuses Expression above; Output above)

	// Error
	ErrorKind ErrorKind `json:"error_kind,omitempty"`
	Message   string    `json:"message,omitempty"`
	Cause     string    `json:"cause,omitempty"`

	// Finish
	Verdict             Verdict                 `json:"verdict,omitempty"`
	ContextSnapshot     map[string]value.Value  `json:"context_snapshot,omitempty"`
	KeyFindings         []string                `json:"key_findings,omitempty"`
	TotalDurationMs     int64                   `json:"total_duration_ms,omitempty"`
	FirstError          string                  `json:"first_error,omitempty"`
	InterventionTrigger string                  `json:"intervention_trigger,omitempty"`
}
