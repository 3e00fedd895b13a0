// Command serve wires the ship-diagnostics fixture registry behind the HTTP
// facade and listens for POST /runs and GET /tools requests.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/vivek100/mothBot/engineconfig"
	"github.com/vivek100/mothBot/fixtures/shipdiag"
	"github.com/vivek100/mothBot/httpapi"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "serve:", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", ":8080", "address to listen on")
	logLevel := flag.String("log-level", "info", "debug, info, warn, or error")
	flag.Parse()

	registry, err := shipdiag.NewDefaultRegistry()
	if err != nil {
		return fmt.Errorf("building fixture registry: %w", err)
	}

	cfg := engineconfig.New(engineconfig.WithLogLevel(*logLevel))
	logger := cfg.NewLogger("serve")

	srv := httpapi.NewServer(registry, logger)
	logger.Info("listening", map[string]interface{}{"addr": *addr})
	return http.ListenAndServe(*addr, srv.Handler())
}
