package engine

import (
	"encoding/json"
	"time"

	"github.com/vivek100/mothBot/value"
)

// Result is the aggregate returned to synchronous callers who materialize
// the event stream instead of consuming it incrementally.
type Result struct {
	RunID               string                 `json:"run_id"`
	Verdict             Verdict                `json:"verdict"`
	ContextSnapshot     map[string]value.Value `json:"context_snapshot"`
	KeyFindings         []string               `json:"key_findings"`
	TotalDuration       time.Duration          `json:"-"`
	TotalDurationMs     int64                  `json:"total_duration_ms"`
	FirstError          string                 `json:"first_error,omitempty"`
	InterventionTrigger string                 `json:"intervention_trigger,omitempty"`

	// Events holds every non-terminal event observed, only when the caller
	// asked for them (RunCollecting). Nil for the plain Run facade.
	Events []Event `json:"events,omitempty"`
}

func resultFromFinish(finish Event, events []Event) Result {
	return Result{
		RunID:               finish.RunID,
		Verdict:             finish.Verdict,
		ContextSnapshot:     finish.ContextSnapshot,
		KeyFindings:         finish.KeyFindings,
		TotalDuration:       time.Duration(finish.TotalDurationMs) * time.Millisecond,
		TotalDurationMs:     finish.TotalDurationMs,
		FirstError:          finish.FirstError,
		InterventionTrigger: finish.InterventionTrigger,
		Events:              events,
	}
}

// String renders the Result as indented JSON, falling back to the bare
// verdict if marshalling fails.
func (r Result) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return string(r.Verdict)
	}
	return string(data)
}
