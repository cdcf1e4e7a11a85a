package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/config"
	"github.com/rs/zerolog"
)

// Server wraps the HTTP server: REST surface plus the WebSocket
// endpoint, behind CORS and request logging.
type Server struct {
	httpServer *http.Server
	hub        *WebSocketHub
}

// NewServer creates a new server with the given handler and hub.
func NewServer(handler *Handler, hub *WebSocketHub, cfg *config.Settings, log zerolog.Logger) *Server {
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.HandleFunc("GET /api/ws", hub.ServeWS)

	wrapped := Logging(Cors(mux, cfg.CORSOrigin), log)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      wrapped,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		hub: hub,
	}
}

// Start begins listening for HTTP requests. Blocks until shutdown.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
