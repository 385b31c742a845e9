package port

import (
	"context"

	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer/domain"
)

// Analyzer wraps one external analysis tool. Run never returns a Go
// error; every failure mode is folded into the Result.
type Analyzer interface {
	Name() string
	Run(ctx context.Context, projectPath string) domain.Result
}

// CommandRunner abstracts subprocess invocation so analyzers can be
// tested without the real tools installed.
type CommandRunner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

type Aggregator interface {
	Analyze(ctx context.Context, projectPath string) (domain.Document, error)
}
