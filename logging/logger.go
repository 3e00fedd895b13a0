// Package logging provides the engine's structured-logging interface.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Logger is the minimal structured logging interface the Executor and the
// ambient HTTP/CLI surfaces depend on.
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Debug(msg string, fields map[string]interface{})

	InfoContext(ctx context.Context, msg string, fields map[string]interface{})
	WarnContext(ctx context.Context, msg string, fields map[string]interface{})
	ErrorContext(ctx context.Context, msg string, fields map[string]interface{})
	DebugContext(ctx context.Context, msg string, fields map[string]interface{})
}

// NoOp discards every log line. Used as the default when no Logger is
// configured, so the Executor never needs a nil check.
type NoOp struct{}

func (NoOp) Info(string, map[string]interface{})                          {}
func (NoOp) Warn(string, map[string]interface{})                          {}
func (NoOp) Error(string, map[string]interface{})                         {}
func (NoOp) Debug(string, map[string]interface{})                         {}
func (NoOp) InfoContext(context.Context, string, map[string]interface{})  {}
func (NoOp) WarnContext(context.Context, string, map[string]interface{})  {}
func (NoOp) ErrorContext(context.Context, string, map[string]interface{}) {}
func (NoOp) DebugContext(context.Context, string, map[string]interface{}) {}

// Format selects the production logger's line rendering.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ProductionLogger renders level-gated, field-annotated log lines to an
// io.Writer, either as JSON (for log aggregation) or human-readable text
// (for local development).
type ProductionLogger struct {
	level  string
	format Format
	name   string
	out    io.Writer
}

var levelRank = map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3}

// New creates a ProductionLogger. level is one of "debug", "info", "warn",
// "error" (default "info"); name identifies the component in each line.
func New(name string, level string, format Format, out io.Writer) *ProductionLogger {
	if out == nil {
		out = os.Stdout
	}
	level = strings.ToLower(level)
	if _, ok := levelRank[level]; !ok {
		level = "info"
	}
	if format != FormatJSON && format != FormatText {
		format = FormatText
	}
	return &ProductionLogger{level: level, format: format, name: name, out: out}
}

func (p *ProductionLogger) enabled(level string) bool {
	return levelRank[level] >= levelRank[p.level]
}

func (p *ProductionLogger) log(level, msg string, fields map[string]interface{}) {
	if !p.enabled(level) {
		return
	}
	ts := time.Now().UTC().Format(time.RFC3339Nano)
	if p.format == FormatJSON {
		entry := map[string]interface{}{
			"timestamp": ts,
			"level":     level,
			"component": p.name,
			"message":   msg,
		}
		for k, v := range fields {
			entry[k] = v
		}
		if data, err := json.Marshal(entry); err == nil {
			fmt.Fprintln(p.out, string(data))
		}
		return
	}
	var b strings.Builder
	for k, v := range fields {
		fmt.Fprintf(&b, " %s=%v", k, v)
	}
	fmt.Fprintf(p.out, "%s [%s] [%s] %s%s\n", ts, strings.ToUpper(level), p.name, msg, b.String())
}

func (p *ProductionLogger) Info(msg string, f map[string]interface{})  { p.log("info", msg, f) }
func (p *ProductionLogger) Warn(msg string, f map[string]interface{})  { p.log("warn", msg, f) }
func (p *ProductionLogger) Error(msg string, f map[string]interface{}) { p.log("error", msg, f) }
func (p *ProductionLogger) Debug(msg string, f map[string]interface{}) { p.log("debug", msg, f) }

func (p *ProductionLogger) InfoContext(_ context.Context, msg string, f map[string]interface{}) {
	p.log("info", msg, f)
}
func (p *ProductionLogger) WarnContext(_ context.Context, msg string, f map[string]interface{}) {
	p.log("warn", msg, f)
}
func (p *ProductionLogger) ErrorContext(_ context.Context, msg string, f map[string]interface{}) {
	p.log("error", msg, f)
}
func (p *ProductionLogger) DebugContext(_ context.Context, msg string, f map[string]interface{}) {
	p.log("debug", msg, f)
}
