// Package http exposes the workflow engine over a REST control surface with
// an SSE event stream.
package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/internal/logging"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/internal/runtime"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/internal/xjson"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/events"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/graph"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/schema"
	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/session"
)

const maxBodySize = 1 << 20

// Server routes run controls to the session manager and streams run events
// over SSE.
type Server struct {
	manager *session.Manager
	broker  *events.Broker
	base    runtime.RunConfig
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRunConfig sets the template run configuration (invoker, catalog,
// evaluator, worker count) cloned for each started execution.
func WithRunConfig(base runtime.RunConfig) Option {
	return func(s *Server) {
		s.base = base
	}
}

// NewServer creates the HTTP control surface over a session manager and its
// event broker.
func NewServer(manager *session.Manager, broker *events.Broker, opts ...Option) *Server {
	s := &Server{
		manager: manager,
		broker:  broker,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the chi router for the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)
	r.Route("/executions", func(r chi.Router) {
		r.Post("/", s.handleStart)
		r.Get("/{id}", s.handleGet)
		r.Post("/{id}/pause", s.control(s.manager.Pause, "paused"))
		r.Post("/{id}/resume", s.control(s.manager.Resume, "running"))
		r.Post("/{id}/stop", s.control(s.manager.Stop, "stopping"))
	})
	r.Get("/events", s.handleEvents)
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type startRequest struct {
	Graph *schema.GraphDefinition `json:"graph"`
	Input map[string]any          `json:"input,omitempty"`
}

type startResponse struct {
	ExecutionID string `json:"executionId"`
}

// handleStart compiles the posted graph definition and launches a run.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	var req startRequest
	if err := xjson.Unmarshal(body, &req); err != nil || req.Graph == nil {
		http.Error(w, "invalid request body: expected {\"graph\": ...}", http.StatusBadRequest)
		s.logger.Warn("start: invalid request body", "err", err)
		return
	}

	nodes, edges, err := schema.Compile(req.Graph)
	if err != nil {
		http.Error(w, fmt.Sprintf("graph definition error: %v", err), http.StatusBadRequest)
		return
	}
	g, err := graph.Build(nodes, edges)
	if err != nil {
		http.Error(w, fmt.Sprintf("graph error: %v", err), http.StatusBadRequest)
		return
	}

	cfg := s.base
	cfg.GraphID = req.Graph.ID
	cfg.Input = req.Input

	id, err := s.manager.Start(r.Context(), g, cfg)
	if err != nil {
		http.Error(w, fmt.Sprintf("start error: %v", err), http.StatusUnprocessableEntity)
		s.logger.Warn("start rejected", "graph_id", cfg.GraphID, "err", err)
		return
	}

	s.logger.Info("execution started", "execution_id", id, "graph_id", cfg.GraphID)
	writeJSON(w, http.StatusAccepted, startResponse{ExecutionID: id})
}

// handleGet returns the execution snapshot, live or stored.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	exec, err := s.manager.Execution(r.Context(), id)
	if err != nil {
		http.Error(w, "execution not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, exec)
}

// control adapts a manager control method to a handler. A false return means
// no matching active run.
func (s *Server) control(fn func(string) bool, state string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !fn(id) {
			http.Error(w, "no active execution with that id", http.StatusConflict)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"executionId": id,
			"status":      state,
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleEvents streams run events as SSE. An optional executionId query
// parameter narrows the stream to a single run.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	filter := r.URL.Query().Get("executionId")

	ch := make(chan domain.Event, 32)
	listenerID := "sse-" + uuid.NewString()
	s.broker.Subscribe(listenerID, func(evt domain.Event) {
		if filter != "" && evt.ExecutionID != filter {
			return
		}
		select {
		case ch <- evt:
		default:
			// Slow client; it misses this event.
		}
	})
	defer s.broker.Unsubscribe(listenerID)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	s.logger.Debug("sse client connected", "listener_id", listenerID, "filter", filter)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("sse client disconnected", "listener_id", listenerID)
			return
		case evt := <-ch:
			data, err := xjson.Marshal(evt)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Type, data)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	data, err := xjson.Marshal(v)
	if err != nil {
		slog.Error("response encode failed", "err", err)
		return
	}
	w.Write(data)
}
