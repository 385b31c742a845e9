package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/domain"
)

// MockTaskQueue is a mock implementation of the jobPort.TaskQueue interface
type MockTaskQueue struct {
	mock.Mock
}

func (m *MockTaskQueue) Enqueue(ctx context.Context, jobID domain.JobUUID) error {
	args := m.Called(ctx, jobID)
	return args.Error(0)
}

func (m *MockTaskQueue) Dequeue(ctx context.Context) (*domain.JobUUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobUUID), args.Error(1)
}
