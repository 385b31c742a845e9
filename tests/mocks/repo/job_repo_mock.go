package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/domain"
)

// MockJobRepo is a mock implementation of the jobPort.Repo interface
type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job domain.Job) (domain.JobUUID, error) {
	args := m.Called(ctx, job)
	return args.Get(0).(domain.JobUUID), args.Error(1)
}

func (m *MockJobRepo) GetByUUID(ctx context.Context, jobID domain.JobUUID) (*domain.Job, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobRepo) Get(ctx context.Context, filter domain.JobFilters) ([]domain.Job, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}

func (m *MockJobRepo) Update(ctx context.Context, jobID domain.JobUUID, mutate func(*domain.Job) error) error {
	args := m.Called(ctx, jobID, mutate)
	return args.Error(0)
}

func (m *MockJobRepo) Delete(ctx context.Context, jobID domain.JobUUID) error {
	args := m.Called(ctx, jobID)
	return args.Error(0)
}

func (m *MockJobRepo) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
