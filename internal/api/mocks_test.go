package api

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/m-hartl/glaskasten/internal/session"
	"github.com/m-hartl/glaskasten/internal/store"
)

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Create(ctx context.Context, opts session.CreateOpts) (*session.CreateResult, error) {
	args := m.Called(ctx, opts)
	if result := args.Get(0); result != nil {
		return result.(*session.CreateResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionService) List() []session.SessionInfo {
	args := m.Called()
	if infos := args.Get(0); infos != nil {
		return infos.([]session.SessionInfo)
	}
	return nil
}

func (m *MockSessionService) Touch(ctx context.Context, id string) (session.Status, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(session.Status), args.Error(1)
}

func (m *MockSessionService) Pause(ctx context.Context, id string) (session.Status, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(session.Status), args.Error(1)
}

func (m *MockSessionService) Resume(ctx context.Context, id string) (session.Status, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(session.Status), args.Error(1)
}

func (m *MockSessionService) Stop(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionService) SendCommand(ctx context.Context, id, action, url string) error {
	args := m.Called(ctx, id, action, url)
	return args.Error(0)
}

func (m *MockSessionService) RecordDownload(id, filename, sourcePath string, sizeBytes int64, producedAt time.Time) (*session.Download, error) {
	args := m.Called(id, filename, sourcePath, sizeBytes, producedAt)
	if dl := args.Get(0); dl != nil {
		return dl.(*session.Download), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionService) MarkRetrieved(id, filename string) error {
	args := m.Called(id, filename)
	return args.Error(0)
}

func (m *MockSessionService) ListDownloads(id string) ([]session.Download, error) {
	args := m.Called(id)
	if dls := args.Get(0); dls != nil {
		return dls.([]session.Download), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionService) DownloadFilePath(id, filename string) (string, error) {
	args := m.Called(id, filename)
	return args.String(0), args.Error(1)
}

func (m *MockSessionService) ResolveRemoteEndpoint(id, origin, subpath, rawQuery string) (string, error) {
	args := m.Called(id, origin, subpath, rawQuery)
	return args.String(0), args.Error(1)
}

func (m *MockSessionService) ListRuntimes(ctx context.Context) ([]session.RuntimeStatus, error) {
	args := m.Called(ctx)
	if statuses := args.Get(0); statuses != nil {
		return statuses.([]session.RuntimeStatus), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockProfileDirectory struct {
	mock.Mock
}

func (m *MockProfileDirectory) Get(userKey string) (*store.Profile, error) {
	args := m.Called(userKey)
	if p := args.Get(0); p != nil {
		return p.(*store.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfileDirectory) List() ([]*store.Profile, error) {
	args := m.Called()
	if ps := args.Get(0); ps != nil {
		return ps.([]*store.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}
