package session

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/m-hartl/glaskasten/internal/docker"
)

type MockOrchestrator struct {
	mock.Mock
}

func (m *MockOrchestrator) Launch(ctx context.Context, opts docker.LaunchOpts) (string, error) {
	args := m.Called(ctx, opts)
	return args.String(0), args.Error(1)
}

func (m *MockOrchestrator) ResolvePort(ctx context.Context, containerID string) (int, error) {
	args := m.Called(ctx, containerID)
	return args.Int(0), args.Error(1)
}

func (m *MockOrchestrator) Pause(ctx context.Context, containerID string) error {
	args := m.Called(ctx, containerID)
	return args.Error(0)
}

func (m *MockOrchestrator) Resume(ctx context.Context, containerID string) error {
	args := m.Called(ctx, containerID)
	return args.Error(0)
}

func (m *MockOrchestrator) Stop(ctx context.Context, containerID string) error {
	args := m.Called(ctx, containerID)
	return args.Error(0)
}

func (m *MockOrchestrator) ForceDestroy(ctx context.Context, containerID string) error {
	args := m.Called(ctx, containerID)
	return args.Error(0)
}

func (m *MockOrchestrator) SendInputCommand(ctx context.Context, containerID, action, url string) error {
	args := m.Called(ctx, containerID, action, url)
	return args.Error(0)
}

func (m *MockOrchestrator) ListManaged(ctx context.Context) ([]docker.RuntimeInfo, error) {
	args := m.Called(ctx)
	if infos := args.Get(0); infos != nil {
		return infos.([]docker.RuntimeInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) EnsureProfile(userKey string) (bool, error) {
	args := m.Called(userKey)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileService) RecordUsage(userKey, identifier string) (int, error) {
	args := m.Called(userKey, identifier)
	return args.Int(0), args.Error(1)
}

func (m *MockProfileService) Touch(userKey string) error {
	args := m.Called(userKey)
	return args.Error(0)
}

func (m *MockProfileService) DownloadsDir(userKey string) string {
	args := m.Called(userKey)
	return args.String(0)
}

func (m *MockProfileService) Dir(userKey string) string {
	args := m.Called(userKey)
	return args.String(0)
}
