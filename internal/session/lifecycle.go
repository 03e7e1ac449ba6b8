package session

import (
	"context"
	"fmt"
	"time"
)

// Touch is the heartbeat: refreshes the activity timestamp and, when the
// session was paused for idleness, resumes its runtime. Returns the status
// after the heartbeat took effect.
func (m *Manager) Touch(ctx context.Context, id string) (Status, error) {
	mu := m.sessionLock(id)
	mu.Lock()
	defer mu.Unlock()

	sess := m.lookup(id)
	if sess == nil {
		return "", notFound(id)
	}

	if sess.Status == StatusPaused {
		opCtx, cancel := m.opContext(ctx)
		err := m.orch.Resume(opCtx, sess.ContainerID)
		cancel()
		if err != nil {
			// The runtime is still suspended; keep the grace clock running
			// rather than refreshing activity on a wedged container.
			return "", fmt.Errorf("%w: resume: %v", ErrOrchestration, err)
		}
	}

	m.mu.Lock()
	sess.Status = StatusActive
	sess.LastActivity = m.now()
	m.mu.Unlock()

	if err := m.profiles.Touch(sess.UserKey); err != nil {
		m.logger.Warn("profile touch", "user_key", sess.UserKey, "error", err)
	}

	return StatusActive, nil
}

// Pause is the administrative suspend. Strict, unlike the sweeper path: a
// failed pause call leaves the session Active and reports the failure.
func (m *Manager) Pause(ctx context.Context, id string) (Status, error) {
	mu := m.sessionLock(id)
	mu.Lock()
	defer mu.Unlock()

	sess := m.lookup(id)
	if sess == nil {
		return "", notFound(id)
	}
	if sess.Status == StatusPaused {
		return StatusPaused, nil
	}

	opCtx, cancel := m.opContext(ctx)
	err := m.orch.Pause(opCtx, sess.ContainerID)
	cancel()
	if err != nil {
		return "", fmt.Errorf("%w: pause: %v", ErrOrchestration, err)
	}

	m.mu.Lock()
	sess.Status = StatusPaused
	m.mu.Unlock()

	m.logger.Info("session paused", "session_id", id)
	return StatusPaused, nil
}

// Resume is the administrative counterpart to Pause; resuming also counts as
// activity.
func (m *Manager) Resume(ctx context.Context, id string) (Status, error) {
	return m.Touch(ctx, id)
}

// Stop gracefully stops the runtime and removes the registry entry. The
// user's durable profile is left untouched. On orchestration failure the
// entry is retained so the caller can retry.
func (m *Manager) Stop(ctx context.Context, id string) error {
	mu := m.sessionLock(id)
	mu.Lock()
	defer mu.Unlock()

	sess := m.lookup(id)
	if sess == nil {
		return notFound(id)
	}

	opCtx, cancel := m.opContext(ctx)
	err := m.orch.Stop(opCtx, sess.ContainerID)
	cancel()
	if err != nil {
		return fmt.Errorf("%w: stop: %v", ErrOrchestration, err)
	}

	m.remove(id)
	m.removeSessionLock(id)
	m.logger.Info("session stopped", "session_id", id)
	return nil
}

// SendCommand injects a navigation action into the session's browser. The
// action is validated before any external call.
func (m *Manager) SendCommand(ctx context.Context, id, action, url string) error {
	switch action {
	case "back", "forward", "refresh":
	case "navigate":
		if url == "" {
			return fmt.Errorf("%w: navigate requires a url", ErrInvalidRequest)
		}
	default:
		return fmt.Errorf("%w: unknown action: %s", ErrInvalidRequest, action)
	}

	mu := m.sessionLock(id)
	mu.Lock()
	defer mu.Unlock()

	sess := m.lookup(id)
	if sess == nil {
		return notFound(id)
	}
	if sess.Status != StatusActive {
		return fmt.Errorf("%w: %s", ErrNotActive, id)
	}

	opCtx, cancel := m.opContext(ctx)
	err := m.orch.SendInputCommand(opCtx, sess.ContainerID, action, url)
	cancel()
	if err != nil {
		return fmt.Errorf("%w: input command: %v", ErrOrchestration, err)
	}

	m.mu.Lock()
	sess.LastActivity = m.now()
	m.mu.Unlock()
	return nil
}

// SweepEntry is the minimal view the lifecycle sweeper evaluates.
type SweepEntry struct {
	ID           string
	Status       Status
	LastActivity time.Time
}

// SweepList snapshots the registry for a sweeper tick.
func (m *Manager) SweepList() []SweepEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := make([]SweepEntry, 0, len(m.sessions))
	for _, sess := range m.sessions {
		entries = append(entries, SweepEntry{
			ID:           sess.ID,
			Status:       sess.Status,
			LastActivity: sess.LastActivity,
		})
	}
	return entries
}

// PauseForIdle suspends a session whose last activity is older than cutoff.
// The condition is re-checked under the session lock, so a heartbeat racing
// the sweeper wins. The registry is marked Paused even when the pause call
// fails (the container may already be paused from a previous attempt); the
// error comes back for logging only.
func (m *Manager) PauseForIdle(ctx context.Context, id string, cutoff time.Time) (bool, error) {
	mu := m.sessionLock(id)
	mu.Lock()
	defer mu.Unlock()

	sess := m.lookup(id)
	if sess == nil || sess.Status != StatusActive || sess.LastActivity.After(cutoff) {
		return false, nil
	}

	opCtx, cancel := m.opContext(ctx)
	err := m.orch.Pause(opCtx, sess.ContainerID)
	cancel()

	m.mu.Lock()
	sess.Status = StatusPaused
	m.mu.Unlock()

	return true, err
}

// Reap destroys the runtime of a session idle past the grace cutoff and
// deletes its registry entry. The entry is removed whether or not the
// destroy call succeeded: reclamation favors forward progress, and startup
// reconciliation catches leaked containers. The owning profile is never
// touched.
func (m *Manager) Reap(ctx context.Context, id string, cutoff time.Time) (bool, error) {
	mu := m.sessionLock(id)
	mu.Lock()
	defer mu.Unlock()

	sess := m.lookup(id)
	if sess == nil || sess.LastActivity.After(cutoff) {
		return false, nil
	}

	opCtx, cancel := m.opContext(ctx)
	err := m.orch.ForceDestroy(opCtx, sess.ContainerID)
	cancel()

	m.remove(id)
	m.removeSessionLock(id)

	return true, err
}

// ListRuntimes exposes the orchestrator's view of managed containers for the
// admin surface.
func (m *Manager) ListRuntimes(ctx context.Context) ([]RuntimeStatus, error) {
	infos, err := m.orch.ListManaged(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list runtimes: %v", ErrOrchestration, err)
	}
	result := make([]RuntimeStatus, 0, len(infos))
	for _, info := range infos {
		result = append(result, RuntimeStatus{
			SessionID:   info.SessionID,
			ContainerID: info.ContainerID,
			State:       info.State,
		})
	}
	return result, nil
}

// RuntimeStatus is the admin view of one managed container.
type RuntimeStatus struct {
	SessionID   string `json:"sessionId"`
	ContainerID string `json:"containerId"`
	State       string `json:"state"`
}
