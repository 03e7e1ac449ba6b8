package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestRecordUsage_NewProfile(t *testing.T) {
	st := newTestStore(t)

	count, err := st.RecordUsage("a1b2c3d4e5f60718", "alice@example.com", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	p, err := st.GetProfile("a1b2c3d4e5f60718")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "alice@example.com", p.Identifier)
	assert.Equal(t, 1, p.SessionCount)
}

func TestRecordUsage_Increments(t *testing.T) {
	st := newTestStore(t)

	_, err := st.RecordUsage("a1b2c3d4e5f60718", "alice@example.com", time.Now())
	require.NoError(t, err)
	count, err := st.RecordUsage("a1b2c3d4e5f60718", "alice@example.com", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = st.RecordUsage("a1b2c3d4e5f60718", "alice@example.com", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestGetProfileNotFound(t *testing.T) {
	st := newTestStore(t)

	p, err := st.GetProfile("nonexistent")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestTouchProfile(t *testing.T) {
	st := newTestStore(t)

	created := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	_, err := st.RecordUsage("a1b2c3d4e5f60718", "alice@example.com", created)
	require.NoError(t, err)

	later := created.Add(time.Hour)
	require.NoError(t, st.TouchProfile("a1b2c3d4e5f60718", later))

	p, err := st.GetProfile("a1b2c3d4e5f60718")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.LastUsed.After(created))
	assert.Equal(t, 1, p.SessionCount, "touch must not change the session count")
}

func TestTouchProfileNotFound(t *testing.T) {
	st := newTestStore(t)

	err := st.TouchProfile("nonexistent", time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProfiles(t *testing.T) {
	st := newTestStore(t)

	now := time.Now()
	_, err := st.RecordUsage("key-a-0000000000", "a@example.com", now.Add(-time.Hour))
	require.NoError(t, err)
	_, err = st.RecordUsage("key-b-0000000000", "b@example.com", now)
	require.NoError(t, err)

	profiles, err := st.ListProfiles()
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "b@example.com", profiles[0].Identifier, "most recently used first")
}

func TestListProfilesEmpty(t *testing.T) {
	st := newTestStore(t)

	profiles, err := st.ListProfiles()
	require.NoError(t, err)
	assert.Empty(t, profiles)
}
