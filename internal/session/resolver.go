package session

import (
	"fmt"
	"net/url"
	"strings"
)

const defaultDisplayPath = "vnc.html"
const defaultDisplayQuery = "autoconnect=true&resize=scale"

// remoteDisplayURL is the stable, session-manager-fronted address handed to
// the portal at creation; the /vnc route resolves it to the live endpoint.
func (m *Manager) remoteDisplayURL(id string) string {
	return m.cfg.PublicBaseURL + "/vnc/" + id + "/" + defaultDisplayPath + "?" + defaultDisplayQuery
}

// ResolveRemoteEndpoint computes the externally reachable remote-display URL
// for a session. Pure in-memory work: no external calls.
//
// Fails NotFound for an unknown session, ErrNotActive unless the session is
// Active, and ErrForbiddenOrigin when the caller's origin is present but is
// neither an allow-listed portal domain nor a local-development origin.
func (m *Manager) ResolveRemoteEndpoint(id, origin, subpath, rawQuery string) (string, error) {
	mu := m.sessionLock(id)
	mu.Lock()
	defer mu.Unlock()

	sess := m.lookup(id)
	if sess == nil {
		return "", notFound(id)
	}
	if sess.Status != StatusActive {
		return "", fmt.Errorf("%w: %s", ErrNotActive, id)
	}
	if origin != "" && !m.originAllowed(origin) {
		return "", fmt.Errorf("%w: %s", ErrForbiddenOrigin, origin)
	}

	base, err := url.Parse(m.cfg.PublicBaseURL)
	if err != nil {
		return "", fmt.Errorf("parse public base url: %w", err)
	}

	if subpath == "" {
		subpath = defaultDisplayPath
	}
	if rawQuery == "" {
		rawQuery = defaultDisplayQuery
	}

	endpoint := url.URL{
		Scheme:   base.Scheme,
		Host:     fmt.Sprintf("%s:%d", base.Hostname(), sess.Port),
		Path:     "/" + strings.TrimPrefix(subpath, "/"),
		RawQuery: rawQuery,
	}
	return endpoint.String(), nil
}

// originAllowed checks a caller origin (Origin or Referer value) against the
// configured portal origins plus localhost for development.
func (m *Manager) originAllowed(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Hostname() == "" {
		return false
	}
	host := u.Hostname()

	if host == "localhost" || host == "127.0.0.1" {
		return true
	}

	for _, allowed := range m.cfg.AllowedOrigins {
		au, err := url.Parse(allowed)
		if err != nil {
			continue
		}
		allowedHost := au.Hostname()
		if allowedHost == "" {
			allowedHost = allowed
		}
		if host == allowedHost || strings.HasSuffix(host, "."+allowedHost) {
			return true
		}
	}
	return false
}
