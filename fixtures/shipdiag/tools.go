// Package shipdiag provides a small ship-diagnostics tool set used by
// cmd/rundemo and cmd/serve. It is demo data only — the engine packages
// never import it.
package shipdiag

import (
	"context"
	"errors"
	"time"

	"github.com/vivek100/mothBot/tools"
	"github.com/vivek100/mothBot/value"
)

// ScanHull returns a tool reporting hull integrity and breach status.
func ScanHull(integrity float64, breach bool) tools.InvokeFunc {
	return func(ctx context.Context, args map[string]value.Value) (value.Value, error) {
		return value.Map(map[string]value.Value{
			"integrity": value.Number(integrity),
			"breach":    value.Bool(breach),
		}), nil
	}
}

// CheckOxygen returns a tool reporting cabin oxygen level and status.
func CheckOxygen(level float64, status string) tools.InvokeFunc {
	return func(ctx context.Context, args map[string]value.Value) (value.Value, error) {
		return value.Map(map[string]value.Value{
			"level":  value.Number(level),
			"status": value.String(status),
		}), nil
	}
}

// CheckEngine returns a tool reporting engine status.
func CheckEngine(status string) tools.InvokeFunc {
	return func(ctx context.Context, args map[string]value.Value) (value.Value, error) {
		return value.Map(map[string]value.Value{
			"status": value.String(status),
		}), nil
	}
}

// Analyze reads an "o2_level" argument and classifies severity: "HIGH" when
// the level is below 18, "LOW" otherwise.
func Analyze() tools.InvokeFunc {
	return func(ctx context.Context, args map[string]value.Value) (value.Value, error) {
		level, ok := args["o2_level"].AsNumber()
		if !ok {
			return value.Null, errors.New("analyze: missing numeric \"o2_level\" argument")
		}
		severity := "LOW"
		if level < 18 {
			severity = "HIGH"
		}
		return value.Map(map[string]value.Value{
			"severity": value.String(severity),
		}), nil
	}
}

// NotifyCrew is an asynchronous tool: it blocks for delay (or until ctx is
// cancelled, returning ctx.Err() cooperatively) before reporting success.
func NotifyCrew(delay time.Duration) tools.InvokeFunc {
	return func(ctx context.Context, args map[string]value.Value) (value.Value, error) {
		select {
		case <-time.After(delay):
			return value.Map(map[string]value.Value{"sent": value.Bool(true)}), nil
		case <-ctx.Done():
			return value.Null, ctx.Err()
		}
	}
}

// Failing returns a tool that always raises errMsg, for exercising the
// ToolError / Failure-verdict path.
func Failing(errMsg string) tools.InvokeFunc {
	return func(ctx context.Context, args map[string]value.Value) (value.Value, error) {
		return value.Null, errors.New(errMsg)
	}
}

// NewDefaultRegistry wires a representative set of tools for the demo CLI:
// a healthy scan, a low-oxygen reading, and the derived severity analysis.
func NewDefaultRegistry() (*tools.Registry, error) {
	r := tools.New()
	if err := r.RegisterSync("scan_hull", ScanHull(98, false)); err != nil {
		return nil, err
	}
	if err := r.RegisterSync("check_oxygen", CheckOxygen(14.5, "LOW")); err != nil {
		return nil, err
	}
	if err := r.RegisterSync("check_engine", CheckEngine("NOMINAL")); err != nil {
		return nil, err
	}
	if err := r.RegisterSync("analyze", Analyze()); err != nil {
		return nil, err
	}
	if err := r.RegisterAsync("notify_crew", NotifyCrew(10*time.Millisecond)); err != nil {
		return nil, err
	}
	return r, nil
}
