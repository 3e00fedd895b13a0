package engine

import "github.com/vivek100/mothBot/value"

// Context is the append-only record of completed step outputs, keyed by
// step id. It is owned exclusively by the Executor for the duration of one
// run; tools receive resolved argument values, never the Context itself,
// and callers only ever see an immutable snapshot handed out at a terminal
// event.
type Context struct {
	outputs map[string]value.Value
	order   []string
}

func newContext() *Context {
	return &Context{outputs: make(map[string]value.Value)}
}

// Lookup implements expr.Resolver.
func (c *Context) Lookup(stepID string) (value.Value, bool) {
	v, ok := c.outputs[stepID]
	return v, ok
}

// set commits a step's output. Called once per completed step, and step ids
// are unique within a validated plan, so the Context grows monotonically
// and a committed entry is never overwritten in practice; set itself does
// not guard against a second call for the same id.
func (c *Context) set(stepID string, v value.Value) {
	if _, exists := c.outputs[stepID]; !exists {
		c.order = append(c.order, stepID)
	}
	c.outputs[stepID] = v
}

// Snapshot returns an immutable copy of the context suitable for handing to
// a caller at a terminal event. Later mutation of the live Context (by a
// subsequent run, never by this one after Finish) cannot affect a
// previously returned Snapshot.
func (c *Context) Snapshot() map[string]value.Value {
	out := make(map[string]value.Value, len(c.outputs))
	for k, v := range c.outputs {
		out[k] = v
	}
	return out
}
