package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSessionID(t *testing.T) {
	assert.NoError(t, ValidateSessionID("a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d"))
	assert.NoError(t, ValidateSessionID("s1"))

	assert.Error(t, ValidateSessionID(""))
	assert.Error(t, ValidateSessionID("has space"))
	assert.Error(t, ValidateSessionID("../escape"))
	assert.Error(t, ValidateSessionID(strings.Repeat("a", 65)))
}

func TestValidateCreateRequest(t *testing.T) {
	assert.NoError(t, validateCreateRequest(createSessionRequest{}))
	assert.NoError(t, validateCreateRequest(createSessionRequest{
		Identifier: "alice@example.com",
		StartURL:   "https://example.com/page",
	}))

	assert.Error(t, validateCreateRequest(createSessionRequest{StartURL: "ftp://example.com"}))
	assert.Error(t, validateCreateRequest(createSessionRequest{StartURL: "not a url"}))
	assert.Error(t, validateCreateRequest(createSessionRequest{StartURL: "https://"}))
	assert.Error(t, validateCreateRequest(createSessionRequest{Identifier: strings.Repeat("a", 255)}))
}

func TestValidateDownloadNotification(t *testing.T) {
	assert.NoError(t, validateDownloadNotification(downloadNotificationRequest{
		SessionID: "s1",
		Filename:  "a.txt",
		SizeBytes: 10,
	}))

	assert.Error(t, validateDownloadNotification(downloadNotificationRequest{Filename: "a.txt"}))
	assert.Error(t, validateDownloadNotification(downloadNotificationRequest{SessionID: "s1"}))
	assert.Error(t, validateDownloadNotification(downloadNotificationRequest{
		SessionID: "s1", Filename: "a.txt", SizeBytes: -1,
	}))
}
