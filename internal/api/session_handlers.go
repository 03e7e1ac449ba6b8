package api

import (
	"net/http"

	"github.com/m-hartl/glaskasten/internal/session"
)

type createSessionRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	StartURL   string `json:"url"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeValidationError(w, "invalid json: "+err.Error(), nil)
		return
	}

	if err := validateCreateRequest(req); err != nil {
		writeValidationError(w, err.Error(), nil)
		return
	}

	// The portal sends either field depending on whether the user is signed in.
	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Email
	}

	s.logger.Debug("create session request", "has_identifier", identifier != "", "url", req.StartURL)
	result, err := s.manager.Create(r.Context(), session.CreateOpts{
		Identifier: identifier,
		StartURL:   req.StartURL,
	})
	if err != nil {
		s.logger.Error("create session", "error", err)
		writeAPIError(w, err)
		return
	}
	s.logger.Debug("session created", "session_id", result.SessionID)
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := ValidateSessionID(id); err != nil {
		writeValidationError(w, err.Error(), nil)
		return
	}
	status, err := s.manager.Touch(r.Context(), id)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessionId": id, "status": status})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := ValidateSessionID(id); err != nil {
		writeValidationError(w, err.Error(), nil)
		return
	}
	s.logger.Debug("stop session", "session_id", id)
	if err := s.manager.Stop(r.Context(), id); err != nil {
		s.logger.Error("stop session", "session_id", id, "error", err)
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type browserCommandRequest struct {
	Action string `json:"action"`
	URL    string `json:"url"`
}

func (s *Server) handleBrowserCommand(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := ValidateSessionID(id); err != nil {
		writeValidationError(w, err.Error(), nil)
		return
	}

	var req browserCommandRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeValidationError(w, "invalid json: "+err.Error(), nil)
		return
	}

	if err := s.manager.SendCommand(r.Context(), id, req.Action, req.URL); err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleRemoteDisplay(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := ValidateSessionID(id); err != nil {
		writeValidationError(w, err.Error(), nil)
		return
	}

	// The iframe's requests carry the portal page as Referer; direct
	// navigation carries neither header and is admitted.
	origin := r.Header.Get("Referer")
	if origin == "" {
		origin = r.Header.Get("Origin")
	}

	endpoint, err := s.manager.ResolveRemoteEndpoint(id, origin, r.PathValue("path"), r.URL.RawQuery)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	http.Redirect(w, r, endpoint, http.StatusFound)
}
