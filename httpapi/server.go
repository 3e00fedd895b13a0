// Package httpapi exposes the engine to external collaborators (the
// orchestrating agent, evaluation dashboards): a tiny facade with two
// routes, POST /runs (submit a plan, stream NDJSON events) and GET /tools
// (list the registry). This is plumbing around the engine, not the engine
// itself — a bare net/http mux rather than a web framework.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/vivek100/mothBot/engine"
	"github.com/vivek100/mothBot/logging"
	"github.com/vivek100/mothBot/planio"
	"github.com/vivek100/mothBot/tools"
)

// Server wires a tool Registry behind an HTTP mux.
type Server struct {
	registry *tools.Registry
	logger   logging.Logger
	mux      *http.ServeMux
}

// NewServer builds a Server. A nil logger falls back to logging.NoOp.
func NewServer(registry *tools.Registry, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NoOp{}
	}
	s := &Server{registry: registry, logger: logger, mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /runs", s.handleRuns)
	s.mux.HandleFunc("GET /tools", s.handleTools)
	return s
}

// Handler returns the fully wrapped http.Handler: OpenTelemetry request
// spans on the outside, then the recovery and logging middleware, then the
// mux. Wrapping with otelhttp gives each /runs or /tools request its own
// span, and the engine.run / engine.step spans telemetry produces for a run
// nest inside it, without the facade itself doing any exporter wiring
// (still the embedder's job).
func (s *Server) Handler() http.Handler {
	wrapped := recoveryMiddleware(s.logger)(loggingMiddleware(s.logger)(s.mux))
	return otelhttp.NewHandler(wrapped, "mothBot.httpapi")
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.registry.Describe())
}

// handleRuns accepts a JSON plan document and streams one JSON-encoded
// Event per line (application/x-ndjson) until the run's single Finish
// event.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	p, err := planio.LoadJSON(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	events, err := engine.Run(r.Context(), p, s.registry, engine.WithLogger(s.logger))
	if err != nil {
		// Validation failed before any event was emitted; report it as a
		// single plain-text error response rather than a partial stream.
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	enc := json.NewEncoder(w)
	for ev := range events {
		_ = enc.Encode(ev)
		if flusher != nil {
			flusher.Flush()
		}
	}
}
