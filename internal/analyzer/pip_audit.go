package analyzer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer/domain"
	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer/port"
)

const dependencyManifest = "requirements.txt"

// pipAuditAnalyzer audits the declared dependencies for known
// vulnerabilities. Projects without a manifest are clean by definition.
type pipAuditAnalyzer struct {
	runner port.CommandRunner
}

func NewPipAuditAnalyzer(runner port.CommandRunner) port.Analyzer {
	return &pipAuditAnalyzer{runner: runner}
}

func (a *pipAuditAnalyzer) Name() string {
	return domain.AnalyzerPipAudit
}

func (a *pipAuditAnalyzer) Run(ctx context.Context, projectPath string) domain.Result {
	manifest := filepath.Join(projectPath, dependencyManifest)
	if _, err := os.Stat(manifest); os.IsNotExist(err) {
		return domain.OK(json.RawMessage(`{"vulnerabilities_found": 0, "details": []}`))
	}

	out, err := a.runner.Output(ctx, "pip-audit", "-r", manifest, "-f", "json")
	return resultFromToolOutput(a.Name(), out, err)
}
