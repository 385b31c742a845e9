package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"path/filepath"
	"strings"

	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer/domain"
	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer/port"
)

// pylintAnalyzer lints every Python file in the tree individually and
// pools the messages into one array. A file that pylint cannot process
// contributes an inline error entry instead of failing the whole run.
type pylintAnalyzer struct {
	runner port.CommandRunner
}

func NewPylintAnalyzer(runner port.CommandRunner) port.Analyzer {
	return &pylintAnalyzer{runner: runner}
}

func (a *pylintAnalyzer) Name() string {
	return domain.AnalyzerPylint
}

func (a *pylintAnalyzer) Run(ctx context.Context, projectPath string) domain.Result {
	pyFiles, err := collectPythonFiles(projectPath)
	if err != nil {
		return domain.Errf("pylint failed to walk project tree: %v", err)
	}

	messages := make([]json.RawMessage, 0)
	for _, file := range pyFiles {
		out, runErr := a.runner.Output(ctx, "pylint", file, "-f", "json")

		trimmed := bytes.TrimSpace(out)
		if len(trimmed) > 0 && json.Valid(trimmed) {
			var fileMessages []json.RawMessage
			if err := json.Unmarshal(trimmed, &fileMessages); err == nil {
				messages = append(messages, fileMessages...)
				continue
			}
		}

		reason := "no parseable JSON output"
		if runErr != nil {
			reason = runErr.Error()
		}
		entry, _ := json.Marshal(map[string]string{"file": file, "error": reason})
		messages = append(messages, entry)
	}

	payload, err := json.Marshal(messages)
	if err != nil {
		return domain.Errf("pylint failed to encode messages: %v", err)
	}

	return domain.OK(payload)
}

func collectPythonFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".py") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
