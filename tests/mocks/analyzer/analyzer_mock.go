package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer/domain"
)

// MockCommandRunner is a mock implementation of the analyzer
// port.CommandRunner interface
type MockCommandRunner struct {
	mock.Mock
}

func (m *MockCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	callArgs := m.Called(ctx, name, args)
	if callArgs.Get(0) == nil {
		return nil, callArgs.Error(1)
	}
	return callArgs.Get(0).([]byte), callArgs.Error(1)
}

// MockAnalyzer is a mock implementation of the analyzer port.Analyzer
// interface
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockAnalyzer) Run(ctx context.Context, projectPath string) domain.Result {
	args := m.Called(ctx, projectPath)
	return args.Get(0).(domain.Result)
}

// MockAggregator is a mock implementation of the analyzer
// port.Aggregator interface
type MockAggregator struct {
	mock.Mock
}

func (m *MockAggregator) Analyze(ctx context.Context, projectPath string) (domain.Document, error) {
	args := m.Called(ctx, projectPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Document), args.Error(1)
}
