package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/m-hartl/glaskasten/internal/config"
)

type Server struct {
	cfg      *config.Config
	manager  SessionService
	profiles ProfileDirectory
	logger   *slog.Logger
	mux      *http.ServeMux
}

func NewServer(cfg *config.Config, mgr SessionService, profiles ProfileDirectory, logger *slog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		manager:  mgr,
		profiles: profiles,
		logger:   logger,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.securityMiddleware(s.authMiddleware(s.requestIDMiddleware(s.mux)))
}

func (s *Server) routes() {
	// Session lifecycle (with auth)
	s.mux.HandleFunc("POST /session", s.handleCreateSession)
	s.mux.HandleFunc("POST /heartbeat/{id}", s.handleHeartbeat)
	s.mux.HandleFunc("POST /stop/{id}", s.handleStop)
	s.mux.HandleFunc("POST /browser-command/{id}", s.handleBrowserCommand)

	// Downloads. The notification callback comes from inside the container
	// network; the retrieval link is opened directly by the user's browser.
	// Both are exempted from bearer auth in the middleware.
	s.mux.HandleFunc("POST /download-notification", s.handleDownloadNotification)
	s.mux.HandleFunc("GET /session/{id}/downloads", s.handleListDownloads)
	s.mux.HandleFunc("GET /download/{id}/{filename}", s.handleStreamDownload)

	// Profiles and admin (with auth)
	s.mux.HandleFunc("GET /user/{userKey}", s.handleGetUser)
	s.mux.HandleFunc("GET /admin/users", s.handleAdminUsers)
	s.mux.HandleFunc("GET /admin/sessions", s.handleAdminSessions)
	s.mux.HandleFunc("POST /admin/sessions/{id}/pause", s.handleAdminPause)
	s.mux.HandleFunc("POST /admin/sessions/{id}/resume", s.handleAdminResume)

	// Remote display redirect (no auth, origin checked in the resolver)
	s.mux.HandleFunc("GET /vnc/{id}/{path...}", s.handleRemoteDisplay)

	// Health check (no auth)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
