package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/sequent/internal/presentation/graph"
	"github.com/aretw0/sequent/pkg/fsm"
)

// ShutdownTimeout bounds the graceful shutdown in Serve.
const ShutdownTimeout = 5 * time.Second

// Options wires the read-only views the server exposes.
// Nil fields disable the matching endpoint (it answers 404).
type Options struct {
	Version  string
	Graph    func() []fsm.StateInfo
	Overlay  func() *graph.Overlay
	Gatherer prometheus.Gatherer
	Streams  *StreamManager
	Logger   *slog.Logger
}

type server struct {
	opts   Options
	logger *slog.Logger
}

// NewHandler creates the introspection handler:
//
//	GET /health   liveness
//	GET /info     application and version
//	GET /metrics  Prometheus exposition
//	GET /graph    state graph as JSON, or Mermaid with ?format=mermaid
//	GET /events   server-sent machine events, optionally filtered with ?watch=transition,halt
func NewHandler(opts Options) http.Handler {
	s := &server{opts: opts, logger: opts.Logger}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.getHealth)
	r.Get("/info", s.getInfo)
	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	if opts.Graph != nil {
		r.Get("/graph", s.getGraph)
	}
	if opts.Streams != nil {
		r.Get("/events", s.subscribeEvents)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) getHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *server) getInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     "sequent",
		"version": strings.TrimSpace(s.opts.Version),
	})
}

func (s *server) getGraph(w http.ResponseWriter, r *http.Request) {
	states := s.opts.Graph()

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		s.writeJSON(w, states)
	case "mermaid":
		var overlay *graph.Overlay
		if s.opts.Overlay != nil {
			overlay = s.opts.Overlay()
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, graph.GenerateMermaid(states, overlay))
	default:
		http.Error(w, fmt.Sprintf("unknown format %q", format), http.StatusBadRequest)
	}
}

// subscribeEvents streams machine events until the client disconnects.
func (s *server) subscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("events: streaming not supported")
		return
	}

	var watch []fsm.EventType
	if raw := r.URL.Query().Get("watch"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			watch = append(watch, fsm.EventType(strings.TrimSpace(t)))
		}
	}

	ch, cancel := s.opts.Streams.Subscribe(watch...)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	s.logger.Debug("events: client subscribed", "watch", watch)
	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("events: client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Type, msg.Data)
			flusher.Flush()
		}
	}
}

func (s *server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

// Serve runs h on addr until ctx is canceled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown did not complete", "timeout", ShutdownTimeout, "err", err)
		return srv.Close()
	}
	logger.Info("http server stopped")
	return nil
}
