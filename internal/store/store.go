package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Sentinel errors
var (
	ErrNotFound = errors.New("not found")
)

// isBusyLock reports whether err indicates SQLite database lock (SQLITE_BUSY).
// Handles wrapped errors from database/sql.
func isBusyLock(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "database is locked") || strings.Contains(s, "SQLITE_BUSY")
}

// retryOnBusy runs fn and retries on SQLITE_BUSY with exponential backoff.
func retryOnBusy(fn func() error) error {
	const maxAttempts = 4
	backoff := 25 * time.Millisecond
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil || !isBusyLock(lastErr) {
			return lastErr
		}
		if attempt < maxAttempts-1 {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	return lastErr
}

// Profile is the durable per-identity record. It outlives any session and
// any container: reclaiming a runtime never touches this table.
type Profile struct {
	UserKey      string    `json:"userId"`
	Identifier   string    `json:"userIdentifier"`
	LastUsed     time.Time `json:"lastUsed"`
	SessionCount int       `json:"sessionsCount"`
}

type Store struct {
	db *sql.DB
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS profiles (
	user_key      TEXT PRIMARY KEY,
	identifier    TEXT NOT NULL,
	last_used     DATETIME NOT NULL,
	session_count INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_profiles_last_used ON profiles(last_used);
`

// dsnWithPragmas returns a connection string with WAL, busy_timeout, and perf
// pragmas applied to every new connection. PRAGMAs in the DSN are applied
// per-connection by the driver.
func dsnWithPragmas(dbPath string) string {
	// busy_timeout: 15s wait on lock (heartbeats + sweeper + creates overlap)
	// journal_mode=WAL: concurrent reads during writes
	// synchronous=NORMAL: safe in WAL, much faster writes than FULL
	return dbPath + "?_pragma=busy_timeout(15000)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)"
}

func New(dbPath string) (*Store, error) {
	dsn := dsnWithPragmas(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordUsage upserts the profile record for a successful session creation:
// last_used is refreshed and session_count incremented exactly once. Returns
// the new session count so the caller can tell a returning user apart.
func (s *Store) RecordUsage(userKey, identifier string, now time.Time) (int, error) {
	err := retryOnBusy(func() error {
		_, e := s.db.Exec(
			`INSERT INTO profiles (user_key, identifier, last_used, session_count)
			 VALUES (?, ?, ?, 1)
			 ON CONFLICT(user_key) DO UPDATE SET
			 	identifier = excluded.identifier,
			 	last_used = excluded.last_used,
			 	session_count = session_count + 1`,
			userKey, identifier, now.UTC(),
		)
		return e
	})
	if err != nil {
		return 0, fmt.Errorf("recording profile usage: %w", err)
	}

	var count int
	if err := s.db.QueryRow(`SELECT session_count FROM profiles WHERE user_key = ?`, userKey).Scan(&count); err != nil {
		return 0, fmt.Errorf("reading session count: %w", err)
	}
	return count, nil
}

// TouchProfile refreshes last_used on heartbeat activity.
func (s *Store) TouchProfile(userKey string, now time.Time) error {
	var result sql.Result
	err := retryOnBusy(func() error {
		var e error
		result, e = s.db.Exec(
			`UPDATE profiles SET last_used = ? WHERE user_key = ?`,
			now.UTC(), userKey,
		)
		return e
	})
	if err != nil {
		return fmt.Errorf("touching profile: %w", err)
	}
	return checkRowAffected(result, userKey)
}

func (s *Store) GetProfile(userKey string) (*Profile, error) {
	row := s.db.QueryRow(
		`SELECT user_key, identifier, last_used, session_count
		 FROM profiles WHERE user_key = ?`, userKey,
	)
	return scanProfile(row)
}

func (s *Store) ListProfiles() ([]*Profile, error) {
	rows, err := s.db.Query(
		`SELECT user_key, identifier, last_used, session_count
		 FROM profiles ORDER BY last_used DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating profiles: %w", err)
	}
	return profiles, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanProfile(row scannable) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.UserKey, &p.Identifier, &p.LastUsed, &p.SessionCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning profile: %w", err)
	}
	return &p, nil
}

func checkRowAffected(result sql.Result, userKey string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: profile %s", ErrNotFound, userKey)
	}
	return nil
}
