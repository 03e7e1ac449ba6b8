package api

import (
	"fmt"
	"net/url"
	"regexp"
)

var (
	// sessionIDPattern matches UUID-shaped session IDs.
	sessionIDPattern = regexp.MustCompile(`^[a-zA-Z0-9-]{1,64}$`)
)

// ValidateSessionID rejects IDs that cannot have been issued by this service.
func ValidateSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("session id is required")
	}
	if !sessionIDPattern.MatchString(id) {
		return fmt.Errorf("invalid session id")
	}
	return nil
}

// validateCreateRequest validates session creation parameters
func validateCreateRequest(req createSessionRequest) error {
	if len(req.Identifier) > 254 {
		return fmt.Errorf("identifier must not exceed 254 characters")
	}

	if req.StartURL != "" {
		u, err := url.Parse(req.StartURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("url must be an absolute http or https URL")
		}
	}

	return nil
}

// validateDownloadNotification validates the runtime's download callback
func validateDownloadNotification(req downloadNotificationRequest) error {
	if req.SessionID == "" {
		return fmt.Errorf("sessionId is required")
	}
	if req.Filename == "" {
		return fmt.Errorf("filename is required")
	}
	if req.SizeBytes < 0 {
		return fmt.Errorf("filesize must be non-negative")
	}
	return nil
}
