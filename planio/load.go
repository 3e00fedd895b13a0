// Package planio decodes plan documents from their on-disk or on-wire
// representations. The engine's own packages (plan, expr, engine) never
// import this package — a Plan can just as well be constructed in memory —
// but every real caller needs to load one from a file or an HTTP body, and
// plan authors write these by hand, so both YAML and JSON are supported.
package planio

import (
	"encoding/json"
	"fmt"

	"github.com/vivek100/mothBot/plan"
	"gopkg.in/yaml.v3"
)

// LoadJSON decodes a JSON-encoded plan document.
func LoadJSON(data []byte) (*plan.Plan, error) {
	var p plan.Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("planio: decoding JSON plan: %w", err)
	}
	return &p, nil
}

// LoadYAML decodes a YAML-encoded plan document. YAML's object model
// decodes map keys as strings for a document with string keys (as plans
// always are), so no map[interface{}]interface{} normalization is done
// here. An Args value holding a mapping with non-string keys is rejected
// at run time by expr.ResolveArgValue as an unsupported argument literal.
func LoadYAML(data []byte) (*plan.Plan, error) {
	var p plan.Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("planio: decoding YAML plan: %w", err)
	}
	return &p, nil
}
