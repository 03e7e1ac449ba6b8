package session

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// RecordDownload registers a file the runtime produced. Records keep arrival
// order; the retrieval URL is deterministic from session id + filename.
func (m *Manager) RecordDownload(id, filename, sourcePath string, sizeBytes int64, producedAt time.Time) (*Download, error) {
	if err := validateFilename(filename); err != nil {
		return nil, err
	}

	mu := m.sessionLock(id)
	mu.Lock()
	defer mu.Unlock()

	sess := m.lookup(id)
	if sess == nil {
		return nil, notFound(id)
	}

	dl := &Download{
		Filename:     filename,
		SourcePath:   sourcePath,
		SizeBytes:    sizeBytes,
		ProducedAt:   producedAt,
		RetrievalURL: m.cfg.PublicBaseURL + "/download/" + id + "/" + url.PathEscape(filename),
	}

	m.mu.Lock()
	sess.Downloads = append(sess.Downloads, dl)
	m.mu.Unlock()

	m.logger.Info("download ready",
		"session_id", id, "filename", filename, "size_bytes", sizeBytes)

	out := *dl
	return &out, nil
}

// MarkRetrieved flips the retrieved flag on first successful streaming.
// Already-retrieved or unknown filenames are a no-op; only an unknown
// session is an error.
func (m *Manager) MarkRetrieved(id, filename string) error {
	mu := m.sessionLock(id)
	mu.Lock()
	defer mu.Unlock()

	sess := m.lookup(id)
	if sess == nil {
		return notFound(id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, dl := range sess.Downloads {
		if dl.Filename == filename {
			dl.Retrieved = true
			return nil
		}
	}
	return nil
}

// ListDownloads returns the session's downloads in arrival order. A session
// with no downloads yields an empty slice, not an error.
func (m *Manager) ListDownloads(id string) ([]Download, error) {
	mu := m.sessionLock(id)
	mu.Lock()
	defer mu.Unlock()

	sess := m.lookup(id)
	if sess == nil {
		return nil, notFound(id)
	}

	result := make([]Download, 0, len(sess.Downloads))
	for _, dl := range sess.Downloads {
		result = append(result, *dl)
	}
	return result, nil
}

// DownloadFilePath resolves the on-disk location of a download inside the
// owning user's durable profile.
func (m *Manager) DownloadFilePath(id, filename string) (string, error) {
	if err := validateFilename(filename); err != nil {
		return "", err
	}

	mu := m.sessionLock(id)
	mu.Lock()
	defer mu.Unlock()

	sess := m.lookup(id)
	if sess == nil {
		return "", notFound(id)
	}
	return filepath.Join(m.profiles.DownloadsDir(sess.UserKey), filename), nil
}

// validateFilename rejects names that could escape the downloads directory.
func validateFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("%w: empty filename", ErrInvalidRequest)
	}
	if strings.ContainsAny(filename, `/\`) || filename == "." || filename == ".." {
		return fmt.Errorf("%w: invalid filename: %s", ErrInvalidRequest, filename)
	}
	return nil
}
