package session

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/m-hartl/glaskasten/internal/config"
)

type Status string

const (
	StatusActive Status = "active"
	StatusPaused Status = "paused"
	// Terminated is not a stored status: a terminated session is simply
	// absent from the registry.
)

// Download is one file surfaced by the runtime during a session.
type Download struct {
	Filename     string    `json:"filename"`
	SourcePath   string    `json:"filepath"`
	SizeBytes    int64     `json:"filesize"`
	ProducedAt   time.Time `json:"timestamp"`
	RetrievalURL string    `json:"downloadUrl"`
	Retrieved    bool      `json:"downloaded"`
}

// Session is the registry record tying a caller to one runtime instance.
// All fields except ID, UserKey, Identifier and CreatedAt are mutable and
// only touched under the per-session lock.
type Session struct {
	ID           string
	ContainerID  string
	UserKey      string
	Identifier   string
	Port         int
	Status       Status
	CreatedAt    time.Time
	LastActivity time.Time
	Downloads    []*Download
}

// SessionInfo is the read-only snapshot handed out of the registry.
type SessionInfo struct {
	ID           string    `json:"sessionId"`
	UserKey      string    `json:"userId"`
	Identifier   string    `json:"userIdentifier"`
	Status       Status    `json:"status"`
	Port         int       `json:"port"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
	Downloads    int       `json:"downloadCount"`
}

// Manager owns the in-memory session registry: the single source of truth
// for status and activity timestamps. Mutations affecting one session are
// serialized by a per-session mutex; the registry map itself has its own
// short-held mutex so listing never blocks per-session work for longer than
// the snapshot copy.
type Manager struct {
	cfg      *config.Config
	orch     Orchestrator
	profiles ProfileService
	logger   *slog.Logger

	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session

	locks   map[string]*sync.Mutex
	locksMu sync.Mutex
}

func NewManager(cfg *config.Config, orch Orchestrator, profiles ProfileService, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:      cfg,
		orch:     orch,
		profiles: profiles,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
		locks:    make(map[string]*sync.Mutex),
	}
}

func (m *Manager) sessionLock(id string) *sync.Mutex {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	mu, ok := m.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		m.locks[id] = mu
	}
	return mu
}

func (m *Manager) removeSessionLock(id string) {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	delete(m.locks, id)
}

func (m *Manager) lookup(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

func (m *Manager) insert(sess *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func snapshot(sess *Session) SessionInfo {
	return SessionInfo{
		ID:           sess.ID,
		UserKey:      sess.UserKey,
		Identifier:   sess.Identifier,
		Status:       sess.Status,
		Port:         sess.Port,
		CreatedAt:    sess.CreatedAt,
		LastActivity: sess.LastActivity,
		Downloads:    len(sess.Downloads),
	}
}

// Get returns a point-in-time snapshot of one session.
func (m *Manager) Get(id string) (*SessionInfo, error) {
	mu := m.sessionLock(id)
	mu.Lock()
	defer mu.Unlock()

	sess := m.lookup(id)
	if sess == nil {
		return nil, notFound(id)
	}
	info := snapshot(sess)
	return &info, nil
}

// List returns a point-in-time snapshot of the registry, newest first.
func (m *Manager) List() []SessionInfo {
	m.mu.Lock()
	result := make([]SessionInfo, 0, len(m.sessions))
	for _, sess := range m.sessions {
		result = append(result, snapshot(sess))
	}
	m.mu.Unlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}
