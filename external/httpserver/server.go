// Package httpserver exposes the streaming websocket endpoint, the history
// query API, and operational endpoints over one net/http server.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/signwavelab/glossa/internal/repository"
	"github.com/signwavelab/glossa/internal/session"
)

type Server struct {
	httpServer *http.Server
	manager    *session.Manager
	repo       repository.Repository
}

func NewServer(addr string, manager *session.Manager, repo repository.Repository) *Server {
	s := &Server{
		manager: manager,
		repo:    repo,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws/audio", s.handleAudioStream)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/session/{id}", s.handleSessionDetail)
	mux.HandleFunc("DELETE /api/session/{id}", s.handleSessionDelete)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
		// No global read/write timeouts: the websocket endpoint holds
		// long-lived connections, its idle limit lives in the session layer.
		IdleTimeout: 120 * time.Second,
	}
	return s
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
