// Command rundemo loads a plan document, wires the ship-diagnostics
// fixture registry, drives the engine to completion, and prints each
// event as it arrives.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/vivek100/mothBot/engine"
	"github.com/vivek100/mothBot/engineconfig"
	"github.com/vivek100/mothBot/fixtures/shipdiag"
	"github.com/vivek100/mothBot/plan"
	"github.com/vivek100/mothBot/planio"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "rundemo:", err)
		os.Exit(1)
	}
}

func run() error {
	planPath := flag.String("plan", "", "path to a plan document (.json or .yaml)")
	format := flag.String("format", "json", "plan document format: json or yaml")
	logLevel := flag.String("log-level", "info", "debug, info, warn, or error")
	flag.Parse()

	if *planPath == "" {
		return fmt.Errorf("-plan is required")
	}

	data, err := os.ReadFile(*planPath)
	if err != nil {
		return fmt.Errorf("reading plan file: %w", err)
	}

	var p *plan.Plan
	switch *format {
	case "json":
		p, err = planio.LoadJSON(data)
	case "yaml":
		p, err = planio.LoadYAML(data)
	default:
		return fmt.Errorf("unknown -format %q (want json or yaml)", *format)
	}
	if err != nil {
		return err
	}

	registry, err := shipdiag.NewDefaultRegistry()
	if err != nil {
		return fmt.Errorf("building fixture registry: %w", err)
	}

	cfg := engineconfig.New(engineconfig.WithLogLevel(*logLevel))
	logger := cfg.NewLogger("rundemo")

	events, err := engine.Run(context.Background(), p, registry, engine.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("plan validation failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	for ev := range events {
		_ = enc.Encode(ev)
	}
	return nil
}
