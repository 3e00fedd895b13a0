package tools

import "fmt"

// ToolError wraps an error raised by a tool body. Tools are trusted,
// in-process code — the engine does not sandbox them or retry on failure;
// a ToolError always ends the run with verdict Failure.
type ToolError struct {
	ToolName string
	StepID   string
	Cause    error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %q (step %q) failed: %v", e.ToolName, e.StepID, e.Cause)
}

func (e *ToolError) Unwrap() error { return e.Cause }
