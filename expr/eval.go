package expr

import (
	"github.com/vivek100/mothBot/value"
)

// Eval evaluates a parsed guard/escalation expression against a Resolver.
// stepID and rawExpr are used only to annotate any ExpressionError /
// ReferenceError produced, so it carries the offending step id and
// expression text.
func Eval(e Expr, stepID, rawExpr string, r Resolver) (value.Value, error) {
	ev := &evaluator{stepID: stepID, rawExpr: rawExpr, resolver: r}
	return ev.eval(e)
}

// EvalGuard evaluates e and reports its truthiness, per the "a bare
// reference evaluates to the truthiness of the resolved value" rule.
func EvalGuard(e Expr, stepID, rawExpr string, r Resolver) (bool, error) {
	v, err := Eval(e, stepID, rawExpr, r)
	if err != nil {
		return false, err
	}
	return v.Truthy(), nil
}

type evaluator struct {
	stepID   string
	rawExpr  string
	resolver Resolver
}

func (ev *evaluator) refErr(ref Ref, cause error) error {
	return &ReferenceError{
		StepID:     ev.stepID,
		Expression: ev.rawExpr,
		Ref:        ref.String(),
		Message:    cause.Error(),
	}
}

func (ev *evaluator) exprErr(msg string) error {
	return &ExpressionError{
		StepID:     ev.stepID,
		Expression: ev.rawExpr,
		Message:    msg,
	}
}

func (ev *evaluator) eval(e Expr) (value.Value, error) {
	switch n := e.(type) {
	case orExpr:
		var last value.Value
		for _, term := range n.terms {
			v, err := ev.eval(term)
			if err != nil {
				return value.Null, err
			}
			if v.Truthy() {
				return v, nil
			}
			last = v
		}
		return last, nil
	case andExpr:
		var last value.Value
		for _, term := range n.terms {
			v, err := ev.eval(term)
			if err != nil {
				return value.Null, err
			}
			if !v.Truthy() {
				return v, nil
			}
			last = v
		}
		return last, nil
	case notExpr:
		v, err := ev.eval(n.term)
		if err != nil {
			return value.Null, err
		}
		return value.Bool(!v.Truthy()), nil
	case cmpExpr:
		return ev.evalCmp(n)
	case refExpr:
		v, err := ResolveRef(ev.resolver, n.ref)
		if err != nil {
			return value.Null, ev.refErr(n.ref, err)
		}
		return v, nil
	case litExpr:
		return litToValue(n.v), nil
	default:
		return value.Null, ev.exprErr("unrecognized expression node")
	}
}

func litToValue(lv litValue) value.Value {
	switch lv.kind {
	case litNull:
		return value.Null
	case litBool:
		return value.Bool(lv.b)
	case litNumber:
		return value.Number(lv.n)
	case litString:
		return value.String(lv.s)
	default:
		return value.Null
	}
}

func (ev *evaluator) evalCmp(n cmpExpr) (value.Value, error) {
	lv, err := ev.eval(n.left)
	if err != nil {
		return value.Null, err
	}
	rv, err := ev.eval(n.right)
	if err != nil {
		return value.Null, err
	}

	switch n.op {
	case "==":
		return value.Bool(lv.Equal(rv)), nil
	case "!=":
		return value.Bool(!lv.Equal(rv)), nil
	}

	// Ordered comparisons: numeric when both sides are numbers, string-wise
	// when both sides are strings, otherwise a type violation.
	ln, lok := lv.AsNumber()
	rn, rok := rv.AsNumber()
	if lok && rok {
		return value.Bool(compareNumbers(ln, rn, n.op)), nil
	}
	ls, lok := lv.AsString()
	rs, rok := rv.AsString()
	if lok && rok {
		return value.Bool(compareStrings(ls, rs, n.op)), nil
	}
	return value.Null, ev.exprErr("ordered comparison '" + n.op + "' requires two numbers or two strings")
}

func compareNumbers(a, b float64, op string) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

func compareStrings(a, b string, op string) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}
