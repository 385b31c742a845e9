package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/domain"
)

// MockJobService is a mock implementation of the jobPort.Service interface
type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) SubmitJob(ctx context.Context, filename string, archive io.Reader) (*domain.Job, error) {
	args := m.Called(ctx, filename, archive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobService) GetJobs(ctx context.Context, filter domain.JobFilters) ([]domain.Job, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}

func (m *MockJobService) GetJobByUUID(ctx context.Context, jobID domain.JobUUID) (*domain.Job, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobService) DeleteJob(ctx context.Context, jobID domain.JobUUID) error {
	args := m.Called(ctx, jobID)
	return args.Error(0)
}

func (m *MockJobService) DeleteAllJobs(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
