package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m-hartl/glaskasten/internal/docker"
	"github.com/m-hartl/glaskasten/internal/identity"
)

type CreateOpts struct {
	Identifier string // email/username; empty means anonymous
	StartURL   string
}

// CreateResult is the creation response shape. JSON keys match what the
// portal frontend consumes.
type CreateResult struct {
	SessionID       string `json:"sessionId"`
	RemoteURL       string `json:"iframeSrc"`
	UserKey         string `json:"userId"`
	IsReturningUser bool   `json:"isReturningUser"`
}

const defaultStartURL = "https://google.com"

// Create provisions a new browser session: durable profile first, then the
// runtime, then the registry entry. Any failure unwinds completely — there
// is never a registry entry without a resolved port, and a failed creation
// never counts against the user's session counter.
func (m *Manager) Create(ctx context.Context, opts CreateOpts) (*CreateResult, error) {
	sessionID := uuid.New().String()

	identifier := opts.Identifier
	if identifier == "" {
		identifier = "anonymous-" + sessionID[:8]
	}
	startURL := opts.StartURL
	if startURL == "" {
		startURL = defaultStartURL
	}

	userKey, err := identity.DeriveUserKey(identifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	// The runtime mounts the profile directory, so it must exist before
	// anything is launched.
	if _, err := m.profiles.EnsureProfile(userKey); err != nil {
		return nil, fmt.Errorf("%w: ensure profile: %v", ErrStorage, err)
	}

	opCtx, cancel := m.opContext(ctx)
	defer cancel()

	containerID, err := m.orch.Launch(opCtx, docker.LaunchOpts{
		SessionID:   sessionID,
		StartURL:    startURL,
		ProfileDir:  m.profiles.Dir(userKey),
		CallbackURL: m.cfg.CallbackURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: launch: %v", ErrOrchestration, err)
	}

	port, err := m.orch.ResolvePort(opCtx, containerID)
	if err != nil {
		// The container is up but unreachable; reclaim it rather than leak.
		m.destroyQuietly(containerID, sessionID)
		return nil, fmt.Errorf("%w: resolve port: %v", ErrOrchestration, err)
	}

	count, err := m.profiles.RecordUsage(userKey, identifier)
	if err != nil {
		m.destroyQuietly(containerID, sessionID)
		return nil, fmt.Errorf("%w: record usage: %v", ErrStorage, err)
	}

	now := m.now()
	m.insert(&Session{
		ID:           sessionID,
		ContainerID:  containerID,
		UserKey:      userKey,
		Identifier:   identifier,
		Port:         port,
		Status:       StatusActive,
		CreatedAt:    now,
		LastActivity: now,
	})

	m.logger.Info("session created",
		"session_id", sessionID, "user_key", userKey, "port", port, "returning", count > 1)

	return &CreateResult{
		SessionID:       sessionID,
		RemoteURL:       m.remoteDisplayURL(sessionID),
		UserKey:         userKey,
		IsReturningUser: count > 1,
	}, nil
}

// opContext bounds an external orchestrator call.
func (m *Manager) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := time.Duration(m.cfg.Runtime.OpTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

// destroyQuietly reclaims a container during a failed create. Detached from
// the request context: the cleanup should proceed even if the caller is gone.
func (m *Manager) destroyQuietly(containerID, sessionID string) {
	ctx, cancel := m.opContext(context.Background())
	defer cancel()
	if err := m.orch.ForceDestroy(ctx, containerID); err != nil {
		m.logger.Error("cleanup after failed create", "session_id", sessionID, "error", err)
	}
}
