package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDownload_RoundTrip(t *testing.T) {
	m, _, _ := newTestManager(t)
	seedSession(m, "s1", StatusActive, time.Now())

	dl, err := m.RecordDownload("s1", "report.pdf", "/profile/Downloads/report.pdf", 2048, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", dl.Filename)
	assert.False(t, dl.Retrieved)
	assert.Equal(t, "http://localhost:3000/download/s1/report.pdf", dl.RetrievalURL)

	require.NoError(t, m.MarkRetrieved("s1", "report.pdf"))

	list, err := m.ListDownloads("s1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Retrieved)

	// Second mark is a no-op, no duplicate entries.
	require.NoError(t, m.MarkRetrieved("s1", "report.pdf"))
	list, err = m.ListDownloads("s1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Retrieved)
}

func TestRecordDownload_ArrivalOrder(t *testing.T) {
	m, _, _ := newTestManager(t)
	seedSession(m, "s1", StatusActive, time.Now())

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		_, err := m.RecordDownload("s1", name, "/profile/Downloads/"+name, 1, time.Now())
		require.NoError(t, err)
	}

	list, err := m.ListDownloads("s1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a.txt", list[0].Filename)
	assert.Equal(t, "b.txt", list[1].Filename)
	assert.Equal(t, "c.txt", list[2].Filename)
}

func TestRecordDownload_EscapesFilenameInURL(t *testing.T) {
	m, _, _ := newTestManager(t)
	seedSession(m, "s1", StatusActive, time.Now())

	dl, err := m.RecordDownload("s1", "quarterly report.pdf", "/profile/Downloads/quarterly report.pdf", 1, time.Now())
	require.NoError(t, err)
	assert.Contains(t, dl.RetrievalURL, "quarterly%20report.pdf")
}

func TestRecordDownload_UnknownSession(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, err := m.RecordDownload("nope", "a.txt", "/x", 1, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordDownload_RejectsPathTraversal(t *testing.T) {
	m, _, _ := newTestManager(t)
	seedSession(m, "s1", StatusActive, time.Now())

	for _, name := range []string{"", "..", "a/b.txt", `a\b.txt`} {
		_, err := m.RecordDownload("s1", name, "/x", 1, time.Now())
		assert.ErrorIs(t, err, ErrInvalidRequest, "filename %q", name)
	}
}

func TestMarkRetrieved_UnknownFilenameIsNoOp(t *testing.T) {
	m, _, _ := newTestManager(t)
	seedSession(m, "s1", StatusActive, time.Now())

	assert.NoError(t, m.MarkRetrieved("s1", "never-recorded.txt"))
}

func TestMarkRetrieved_UnknownSession(t *testing.T) {
	m, _, _ := newTestManager(t)

	assert.ErrorIs(t, m.MarkRetrieved("nope", "a.txt"), ErrNotFound)
}

func TestListDownloads_EmptyForFreshSession(t *testing.T) {
	m, _, _ := newTestManager(t)
	seedSession(m, "s1", StatusActive, time.Now())

	list, err := m.ListDownloads("s1")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestDownloadFilePath(t *testing.T) {
	m, _, prof := newTestManager(t)
	seedSession(m, "s1", StatusActive, time.Now())
	prof.On("DownloadsDir", "a1b2c3d4e5f60718").Return("/profiles/a1b2c3d4e5f60718/Downloads")

	path, err := m.DownloadFilePath("s1", "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/profiles/a1b2c3d4e5f60718/Downloads", "report.pdf"), path)
}

func TestDownloadFilePath_RejectsTraversal(t *testing.T) {
	m, _, _ := newTestManager(t)
	seedSession(m, "s1", StatusActive, time.Now())

	_, err := m.DownloadFilePath("s1", "../secrets")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
