package sweeper

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/m-hartl/glaskasten/internal/docker"
	"github.com/m-hartl/glaskasten/internal/session"
)

type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) SweepList() []session.SweepEntry {
	args := m.Called()
	if entries := args.Get(0); entries != nil {
		return entries.([]session.SweepEntry)
	}
	return nil
}

func (m *MockRegistry) PauseForIdle(ctx context.Context, id string, cutoff time.Time) (bool, error) {
	args := m.Called(ctx, id, cutoff)
	return args.Bool(0), args.Error(1)
}

func (m *MockRegistry) Reap(ctx context.Context, id string, cutoff time.Time) (bool, error) {
	args := m.Called(ctx, id, cutoff)
	return args.Bool(0), args.Error(1)
}

type MockRuntime struct {
	mock.Mock
}

func (m *MockRuntime) ListManaged(ctx context.Context) ([]docker.RuntimeInfo, error) {
	args := m.Called(ctx)
	if infos := args.Get(0); infos != nil {
		return infos.([]docker.RuntimeInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRuntime) ForceDestroy(ctx context.Context, containerID string) error {
	args := m.Called(ctx, containerID)
	return args.Error(0)
}
