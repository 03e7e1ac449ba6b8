package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/m-hartl/glaskasten/internal/store"
)

const (
	downloadsDirName = "Downloads"
	prefsDirName     = "prefs"
	prefsFileName    = "preferences.yaml"
	initMarkerName   = ".initialized"
)

// defaultPrefs is the configuration payload seeded into a fresh profile.
// The browser image reads it on first start; afterwards the browser owns it.
type defaultPrefs struct {
	Homepage         string `yaml:"homepage"`
	DownloadDir      string `yaml:"download_dir"`
	RestoreSession   bool   `yaml:"restore_session"`
	HardwareDecoding bool   `yaml:"hardware_decoding"`
}

// Manager owns the durable per-identity layer: the on-disk profile
// directories mounted into browser containers, and the usage records in the
// store. Profile data survives every container destruction; nothing in this
// package deletes it.
type Manager struct {
	baseDir string
	store   *store.Store

	// Per-key mutexes so concurrent creates for the same identity cannot
	// race the directory materialization.
	locks   map[string]*sync.Mutex
	locksMu sync.Mutex
}

func NewManager(baseDir string, st *store.Store) *Manager {
	return &Manager{
		baseDir: baseDir,
		store:   st,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (m *Manager) keyLock(userKey string) *sync.Mutex {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	mu, ok := m.locks[userKey]
	if !ok {
		mu = &sync.Mutex{}
		m.locks[userKey] = mu
	}
	return mu
}

// Dir returns the profile directory for a user key.
func (m *Manager) Dir(userKey string) string {
	return filepath.Join(m.baseDir, userKey)
}

// DownloadsDir returns the directory the browser writes downloads into.
func (m *Manager) DownloadsDir(userKey string) string {
	return filepath.Join(m.baseDir, userKey, downloadsDirName)
}

// EnsureProfile materializes the durable profile structure for userKey if it
// does not exist yet. Idempotent: the second and later calls are no-ops
// returning created=false. Session creation must not launch a container when
// this fails — the runtime expects the directory to be mountable.
func (m *Manager) EnsureProfile(userKey string) (bool, error) {
	mu := m.keyLock(userKey)
	mu.Lock()
	defer mu.Unlock()

	marker := filepath.Join(m.Dir(userKey), initMarkerName)
	if _, err := os.Stat(marker); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat profile marker: %w", err)
	}

	if err := os.MkdirAll(m.DownloadsDir(userKey), 0o755); err != nil {
		return false, fmt.Errorf("create profile downloads dir: %w", err)
	}
	prefsDir := filepath.Join(m.Dir(userKey), prefsDirName)
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		return false, fmt.Errorf("create profile prefs dir: %w", err)
	}

	prefs, err := yaml.Marshal(defaultPrefs{
		Homepage:         "about:blank",
		DownloadDir:      "/profile/" + downloadsDirName,
		RestoreSession:   true,
		HardwareDecoding: false,
	})
	if err != nil {
		return false, fmt.Errorf("marshal default prefs: %w", err)
	}
	if err := os.WriteFile(filepath.Join(prefsDir, prefsFileName), prefs, 0o644); err != nil {
		return false, fmt.Errorf("write default prefs: %w", err)
	}

	// Marker last: a crash mid-materialization leaves no marker and the
	// next call redoes the structure.
	if err := os.WriteFile(marker, []byte(time.Now().UTC().Format(time.RFC3339)+"\n"), 0o644); err != nil {
		return false, fmt.Errorf("write profile marker: %w", err)
	}

	return true, nil
}

// RecordUsage registers a successful session creation for the identity and
// returns the total number of sessions ever created for it.
func (m *Manager) RecordUsage(userKey, identifier string) (int, error) {
	return m.store.RecordUsage(userKey, identifier, time.Now())
}

// Touch refreshes the profile's last-used timestamp. Missing records are
// tolerated: a heartbeat for a session whose profile row vanished out-of-band
// should not fail the heartbeat.
func (m *Manager) Touch(userKey string) error {
	err := m.store.TouchProfile(userKey, time.Now())
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

func (m *Manager) Get(userKey string) (*store.Profile, error) {
	return m.store.GetProfile(userKey)
}

func (m *Manager) List() ([]*store.Profile, error) {
	return m.store.ListProfiles()
}
