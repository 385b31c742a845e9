package analyzer

import (
	"bytes"
	"context"
	"encoding/json"

	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer/domain"
	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer/port"
)

// banditAnalyzer scans Python sources for insecure code patterns.
type banditAnalyzer struct {
	runner port.CommandRunner
}

func NewBanditAnalyzer(runner port.CommandRunner) port.Analyzer {
	return &banditAnalyzer{runner: runner}
}

func (a *banditAnalyzer) Name() string {
	return domain.AnalyzerBandit
}

func (a *banditAnalyzer) Run(ctx context.Context, projectPath string) domain.Result {
	out, err := a.runner.Output(ctx, "bandit", "-r", projectPath, "-f", "json")
	return resultFromToolOutput(a.Name(), out, err)
}

// resultFromToolOutput interprets the raw output of an analysis tool.
// Valid JSON on stdout counts as success regardless of the exit code,
// bandit and semgrep exit nonzero whenever they find issues.
func resultFromToolOutput(tool string, out []byte, runErr error) domain.Result {
	trimmed := bytes.TrimSpace(out)
	if len(trimmed) > 0 && json.Valid(trimmed) {
		return domain.OK(trimmed)
	}

	if runErr != nil {
		return domain.Errf("%s failed: %v", tool, runErr)
	}

	return domain.Errf("%s produced no parseable JSON output", tool)
}
