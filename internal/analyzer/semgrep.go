package analyzer

import (
	"context"

	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer/domain"
	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer/port"
)

// semgrepAnalyzer runs the community ruleset against the project tree.
type semgrepAnalyzer struct {
	runner port.CommandRunner
}

func NewSemgrepAnalyzer(runner port.CommandRunner) port.Analyzer {
	return &semgrepAnalyzer{runner: runner}
}

func (a *semgrepAnalyzer) Name() string {
	return domain.AnalyzerSemgrep
}

func (a *semgrepAnalyzer) Run(ctx context.Context, projectPath string) domain.Result {
	out, err := a.runner.Output(ctx, "semgrep", "--config=auto", projectPath, "--json")
	return resultFromToolOutput(a.Name(), out, err)
}
