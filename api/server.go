// Package api serves interpreter sessions over HTTP: each websocket
// connection gets its own engine, so a browser terminal can be a host the
// same way the console and GUI are.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/lookbusy1344/tinybasic/config"
)

// Server represents the HTTP API server
type Server struct {
	mux    *http.ServeMux
	server *http.Server
	cfg    *config.Config
	port   int
}

// NewServer creates a new API server
func NewServer(port int, cfg *config.Config) *Server {
	s := &Server{
		mux:  http.NewServeMux(),
		cfg:  cfg,
		port: port,
	}
	s.registerRoutes()
	return s
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.mux
}

// registerRoutes sets up all HTTP routes
func (s *Server) registerRoutes() {
	// Health check
	s.mux.HandleFunc("/health", s.handleHealth)

	// WebSocket endpoint: one interpreter session per connection
	s.mux.HandleFunc("/ws", s.handleWebSocket)
}

// Start starts the HTTP server. It binds to loopback only: the sessions
// can read and write files under the configured files root.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("API server starting on http://127.0.0.1:%d", s.port)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// handleHealth reports liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
