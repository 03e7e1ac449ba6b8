package sweeper

import (
	"context"
	"time"

	"github.com/m-hartl/glaskasten/internal/docker"
	"github.com/m-hartl/glaskasten/internal/session"
)

// Registry abstracts the session manager operations the sweeper drives.
type Registry interface {
	SweepList() []session.SweepEntry
	PauseForIdle(ctx context.Context, id string, cutoff time.Time) (bool, error)
	Reap(ctx context.Context, id string, cutoff time.Time) (bool, error)
}

// Runtime abstracts the container operations needed for startup reconciliation.
type Runtime interface {
	ListManaged(ctx context.Context) ([]docker.RuntimeInfo, error)
	ForceDestroy(ctx context.Context, containerID string) error
}
