package session

import (
	"context"

	"github.com/m-hartl/glaskasten/internal/docker"
)

// Orchestrator is the process-control contract against the runtime facility.
// Implemented by docker.Client; faked in tests.
type Orchestrator interface {
	Launch(ctx context.Context, opts docker.LaunchOpts) (string, error)
	ResolvePort(ctx context.Context, containerID string) (int, error)
	Pause(ctx context.Context, containerID string) error
	Resume(ctx context.Context, containerID string) error
	Stop(ctx context.Context, containerID string) error
	ForceDestroy(ctx context.Context, containerID string) error
	SendInputCommand(ctx context.Context, containerID, action, url string) error
	ListManaged(ctx context.Context) ([]docker.RuntimeInfo, error)
}

// ProfileService is the durable identity layer consumed by the manager.
type ProfileService interface {
	EnsureProfile(userKey string) (bool, error)
	RecordUsage(userKey, identifier string) (int, error)
	Touch(userKey string) error
	DownloadsDir(userKey string) string
	Dir(userKey string) string
}
