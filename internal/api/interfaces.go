package api

import (
	"context"
	"time"

	"github.com/m-hartl/glaskasten/internal/session"
	"github.com/m-hartl/glaskasten/internal/store"
)

// SessionService abstracts session management operations needed by API handlers.
type SessionService interface {
	Create(ctx context.Context, opts session.CreateOpts) (*session.CreateResult, error)
	List() []session.SessionInfo
	Touch(ctx context.Context, id string) (session.Status, error)
	Pause(ctx context.Context, id string) (session.Status, error)
	Resume(ctx context.Context, id string) (session.Status, error)
	Stop(ctx context.Context, id string) error
	SendCommand(ctx context.Context, id, action, url string) error
	RecordDownload(id, filename, sourcePath string, sizeBytes int64, producedAt time.Time) (*session.Download, error)
	MarkRetrieved(id, filename string) error
	ListDownloads(id string) ([]session.Download, error)
	DownloadFilePath(id, filename string) (string, error)
	ResolveRemoteEndpoint(id, origin, subpath, rawQuery string) (string, error)
	ListRuntimes(ctx context.Context) ([]session.RuntimeStatus, error)
}

// ProfileDirectory abstracts the durable profile lookups the user and admin
// endpoints read from.
type ProfileDirectory interface {
	Get(userKey string) (*store.Profile, error)
	List() ([]*store.Profile, error)
}
