package api

import (
	"net/http"
)

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userKey := r.PathValue("userKey")

	profile, err := s.profiles.Get(userKey)
	if err != nil {
		s.logger.Error("get profile", "user_key", userKey, "error", err)
		writeAPIError(w, err)
		return
	}

	// Unknown users are a normal portal query, not an error.
	if profile == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"userId":     userKey,
			"hasProfile": false,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"userId":     userKey,
		"hasProfile": true,
		"profile":    profile,
	})
}

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.profiles.List()
	if err != nil {
		s.logger.Error("list profiles", "error", err)
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"users": profiles,
		"total": len(profiles),
	})
}

func (s *Server) handleAdminSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.manager.List()

	runtimes, err := s.manager.ListRuntimes(r.Context())
	if err != nil {
		// The registry snapshot is still useful when the runtime listing
		// fails; report what we have.
		s.logger.Warn("list runtimes", "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": sessions,
		"count":    len(sessions),
		"runtimes": runtimes,
	})
}

func (s *Server) handleAdminPause(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := ValidateSessionID(id); err != nil {
		writeValidationError(w, err.Error(), nil)
		return
	}
	status, err := s.manager.Pause(r.Context(), id)
	if err != nil {
		s.logger.Error("admin pause", "session_id", id, "error", err)
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessionId": id, "status": status})
}

func (s *Server) handleAdminResume(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := ValidateSessionID(id); err != nil {
		writeValidationError(w, err.Error(), nil)
		return
	}
	status, err := s.manager.Resume(r.Context(), id)
	if err != nil {
		s.logger.Error("admin resume", "session_id", id, "error", err)
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessionId": id, "status": status})
}
