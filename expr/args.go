package expr

import (
	"fmt"

	"github.com/vivek100/mothBot/value"
)

// ResolveArgValue recursively resolves one raw (JSON/YAML-decoded) argument
// value: a full-string `$...` reference is resolved against r; a mapping or
// sequence is resolved element by element; any other literal passes through
// unchanged. Resolution is eager: by the time a tool is invoked, every
// reference in its arguments has become a concrete Value.
func ResolveArgValue(raw interface{}, stepID string, r Resolver) (value.Value, error) {
	switch n := raw.(type) {
	case nil:
		return value.Null, nil
	case bool:
		return value.Bool(n), nil
	case float64:
		return value.Number(n), nil
	case int:
		return value.Number(float64(n)), nil
	case string:
		if IsReferenceString(n) {
			ref, err := ParseRef(n)
			if err != nil {
				return value.Null, &ExpressionError{StepID: stepID, Expression: n, Message: err.Error()}
			}
			resolved, err := ResolveRef(r, ref)
			if err != nil {
				return value.Null, &ReferenceError{StepID: stepID, Expression: n, Ref: ref.String(), Message: err.Error()}
			}
			return resolved, nil
		}
		return value.String(n), nil
	case []interface{}:
		items := make([]value.Value, len(n))
		for i, item := range n {
			rv, err := ResolveArgValue(item, stepID, r)
			if err != nil {
				return value.Null, err
			}
			items[i] = rv
		}
		return value.List(items), nil
	case map[string]interface{}:
		m := make(map[string]value.Value, len(n))
		for k, item := range n {
			rv, err := ResolveArgValue(item, stepID, r)
			if err != nil {
				return value.Null, err
			}
			m[k] = rv
		}
		return value.Map(m), nil
	default:
		return value.Null, &ExpressionError{StepID: stepID, Expression: fmt.Sprintf("%v", raw), Message: fmt.Sprintf("unsupported argument literal type %T", raw)}
	}
}

// ResolveArgs resolves every entry of a step's raw args mapping.
func ResolveArgs(raw map[string]interface{}, stepID string, r Resolver) (map[string]value.Value, error) {
	resolved := make(map[string]value.Value, len(raw))
	for name, v := range raw {
		rv, err := ResolveArgValue(v, stepID, r)
		if err != nil {
			return nil, err
		}
		resolved[name] = rv
	}
	return resolved, nil
}

// ReferencedStepsInArg walks a raw (unresolved) argument value collecting
// the step ids named by any `$...` reference strings within it, in
// first-occurrence order. Used by the Validator.
func ReferencedStepsInArg(raw interface{}, out *[]string, seen map[string]bool) error {
	switch n := raw.(type) {
	case string:
		if IsReferenceString(n) {
			ref, err := ParseRef(n)
			if err != nil {
				return err
			}
			if !seen[ref.StepID] {
				seen[ref.StepID] = true
				*out = append(*out, ref.StepID)
			}
		}
		return nil
	case []interface{}:
		for _, item := range n {
			if err := ReferencedStepsInArg(item, out, seen); err != nil {
				return err
			}
		}
		return nil
	case map[string]interface{}:
		for _, item := range n {
			if err := ReferencedStepsInArg(item, out, seen); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}
