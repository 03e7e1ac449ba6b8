package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-hartl/glaskasten/internal/session"
)

// Error codes returned in API responses
const (
	ErrCodeSessionNotFound      = "SESSION_NOT_FOUND"
	ErrCodeFileNotFound         = "FILE_NOT_FOUND"
	ErrCodeSessionNotActive     = "SESSION_NOT_ACTIVE"
	ErrCodeForbiddenOrigin      = "FORBIDDEN_ORIGIN"
	ErrCodeInvalidRequest       = "INVALID_REQUEST"
	ErrCodeOrchestrationFailure = "ORCHESTRATION_FAILURE"
	ErrCodeStorageFailure       = "STORAGE_FAILURE"
	ErrCodeInternalError        = "INTERNAL_ERROR"
	ErrCodeUnauthorized         = "UNAUTHORIZED"
)

// APIError represents a structured API error response
type APIError struct {
	Code    string                 `json:"error_code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// writeAPIError writes a structured error response with appropriate HTTP status
func writeAPIError(w http.ResponseWriter, err error) {
	var apiErr APIError
	var statusCode int

	switch {
	case errors.Is(err, session.ErrNotFound):
		apiErr = APIError{Code: ErrCodeSessionNotFound, Message: err.Error()}
		statusCode = http.StatusNotFound

	case errors.Is(err, session.ErrNotActive):
		apiErr = APIError{Code: ErrCodeSessionNotActive, Message: err.Error()}
		statusCode = http.StatusForbidden

	case errors.Is(err, session.ErrForbiddenOrigin):
		apiErr = APIError{Code: ErrCodeForbiddenOrigin, Message: err.Error()}
		statusCode = http.StatusForbidden

	case errors.Is(err, session.ErrInvalidRequest):
		apiErr = APIError{Code: ErrCodeInvalidRequest, Message: err.Error()}
		statusCode = http.StatusBadRequest

	case errors.Is(err, session.ErrOrchestration):
		apiErr = APIError{Code: ErrCodeOrchestrationFailure, Message: err.Error()}
		statusCode = http.StatusBadGateway

	case errors.Is(err, session.ErrStorage):
		apiErr = APIError{Code: ErrCodeStorageFailure, Message: err.Error()}
		statusCode = http.StatusInternalServerError

	default:
		apiErr = APIError{Code: ErrCodeInternalError, Message: err.Error()}
		statusCode = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErr)
}

// writeValidationError writes a 400 Bad Request with validation details
func writeValidationError(w http.ResponseWriter, message string, details map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(APIError{
		Code:    ErrCodeInvalidRequest,
		Message: message,
		Details: details,
	})
}

// writeUnauthorizedError writes a 401 Unauthorized error
func writeUnauthorizedError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(APIError{
		Code:    ErrCodeUnauthorized,
		Message: message,
	})
}
