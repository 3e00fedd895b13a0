package expr

import (
	"fmt"
	"strings"

	"github.com/vivek100/mothBot/value"
)

// Ref is a parsed `$step_id(.segment)*` path: the step whose output is
// named, plus the dotted field path to walk within it (empty for a bare
// `$step_id` reference).
type Ref struct {
	StepID string
	Path   []string
}

func (r Ref) String() string {
	if len(r.Path) == 0 {
		return "$" + r.StepID
	}
	return "$" + r.StepID + "." + strings.Join(r.Path, ".")
}

func isIdentChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func isIdentStart(c byte) bool {
	return isIdentChar(c)
}

// ParseRef parses a full `$id(.segment)*` string. The leading `$` is
// required and the entire string must be consumed; a segment is a
// non-empty sequence of identifier characters.
func ParseRef(s string) (Ref, error) {
	if len(s) == 0 || s[0] != '$' {
		return Ref{}, fmt.Errorf("reference must start with '$'")
	}
	rest := s[1:]
	segments := strings.Split(rest, ".")
	if len(segments) == 0 || segments[0] == "" {
		return Ref{}, fmt.Errorf("reference is missing a step id")
	}
	for _, seg := range segments {
		if seg == "" {
			return Ref{}, fmt.Errorf("reference %q has an empty path segment", s)
		}
		for i := 0; i < len(seg); i++ {
			if !isIdentChar(seg[i]) {
				return Ref{}, fmt.Errorf("reference %q has an invalid character %q", s, string(seg[i]))
			}
		}
	}
	return Ref{StepID: segments[0], Path: segments[1:]}, nil
}

// IsReferenceString reports whether s is structurally a `$...` string at
// all (used to decide whether a literal must parse as a reference or is
// passed through unchanged). Only full-string `$...` values are
// references; partial interpolation is not supported.
func IsReferenceString(s string) bool {
	return len(s) > 0 && s[0] == '$'
}

// Resolver looks up a completed step's output. The executor's context
// implements this; expr never holds the context itself.
type Resolver interface {
	Lookup(stepID string) (value.Value, bool)
}

// ResolveRef walks a Ref against a Resolver, producing a ReferenceError
// when the step id is unresolvable (not completed, skipped, or errored) or
// a path segment is missing along the way.
func ResolveRef(r Resolver, ref Ref) (value.Value, error) {
	root, ok := r.Lookup(ref.StepID)
	if !ok {
		return value.Null, fmt.Errorf("step %q has not completed", ref.StepID)
	}
	cur := root
	for i, seg := range ref.Path {
		field, ok := cur.Field(seg)
		if !ok {
			return value.Null, fmt.Errorf("field %q not found (at %s)", seg, ref.StepID+"."+strings.Join(ref.Path[:i+1], "."))
		}
		cur = field
	}
	return cur, nil
}
