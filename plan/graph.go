package plan

// stepGraph tracks, in document order, which step ids have been declared so
// far. The Validator uses it to confirm every reference names a step id
// declared earlier in the document. There is no parallel scheduling in this
// engine (steps always run in document order), so only "declared so far"
// tracking is needed — no dependents, readiness, or node-status bookkeeping.
type stepGraph struct {
	declared map[string]bool
	order    []string
}

func newStepGraph() *stepGraph {
	return &stepGraph{declared: make(map[string]bool)}
}

// declare registers id as having appeared in the document. Returns false if
// id was already declared (duplicate step id).
func (g *stepGraph) declare(id string) bool {
	if g.declared[id] {
		return false
	}
	g.declared[id] = true
	g.order = append(g.order, id)
	return true
}

// isDeclared reports whether id has been declared at this point in the
// traversal (i.e. it appears at or before the current step).
func (g *stepGraph) isDeclared(id string) bool {
	return g.declared[id]
}
