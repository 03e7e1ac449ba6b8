package api

import (
	"net/http"
	"os"
	"time"
)

type downloadNotificationRequest struct {
	SessionID  string `json:"sessionId"`
	Filename   string `json:"filename"`
	SourcePath string `json:"filepath"`
	SizeBytes  int64  `json:"filesize"`
	Timestamp  string `json:"timestamp"`
}

func (s *Server) handleDownloadNotification(w http.ResponseWriter, r *http.Request) {
	var req downloadNotificationRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeValidationError(w, "invalid json: "+err.Error(), nil)
		return
	}

	if err := validateDownloadNotification(req); err != nil {
		writeValidationError(w, err.Error(), nil)
		return
	}

	producedAt, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		producedAt = time.Now().UTC()
	}

	dl, err := s.manager.RecordDownload(req.SessionID, req.Filename, req.SourcePath, req.SizeBytes, producedAt)
	if err != nil {
		s.logger.Error("record download", "session_id", req.SessionID, "filename", req.Filename, "error", err)
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dl)
}

func (s *Server) handleListDownloads(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := ValidateSessionID(id); err != nil {
		writeValidationError(w, err.Error(), nil)
		return
	}

	downloads, err := s.manager.ListDownloads(id)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId": id,
		"downloads": downloads,
	})
}

func (s *Server) handleStreamDownload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	filename := r.PathValue("filename")
	if err := ValidateSessionID(id); err != nil {
		writeValidationError(w, err.Error(), nil)
		return
	}

	path, err := s.manager.DownloadFilePath(id, filename)
	if err != nil {
		writeAPIError(w, err)
		return
	}

	if _, err := os.Stat(path); err != nil {
		s.logger.Warn("download file missing", "session_id", id, "filename", filename)
		writeJSON(w, http.StatusNotFound, APIError{
			Code:    ErrCodeFileNotFound,
			Message: "file not found: " + filename,
		})
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	http.ServeFile(w, r, path)

	// ServeFile has already written the response; a retrieval that got this
	// far counts as delivered.
	if err := s.manager.MarkRetrieved(id, filename); err != nil {
		s.logger.Warn("mark retrieved", "session_id", id, "filename", filename, "error", err)
	}
}
