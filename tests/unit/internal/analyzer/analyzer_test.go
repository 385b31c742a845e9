package analyzer_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer"
	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer/domain"
	analyzerMocks "gitlab.apk-group.net/siem/backend/project-analyzer/tests/mocks/analyzer"
)

func TestBanditAnalyzer_Run(t *testing.T) {
	tests := []struct {
		name           string
		output         []byte
		runErr         error
		validateResult func(t *testing.T, result domain.Result)
	}{
		{
			name:   "valid JSON with zero exit",
			output: []byte(`{"results": []}`),
			runErr: nil,
			validateResult: func(t *testing.T, result domain.Result) {
				assert.False(t, result.Failed())
				assert.Equal(t, json.RawMessage(`{"results": []}`), result.Payload)
			},
		},
		{
			name:   "valid JSON despite nonzero exit",
			output: []byte(`{"results": [{"issue_severity": "HIGH"}]}`),
			runErr: errors.New("exit status 1"),
			validateResult: func(t *testing.T, result domain.Result) {
				assert.False(t, result.Failed())
				assert.Equal(t, json.RawMessage(`{"results": [{"issue_severity": "HIGH"}]}`), result.Payload)
			},
		},
		{
			name:   "whitespace padded JSON is trimmed",
			output: []byte("\n  {\"results\": []}\n"),
			runErr: nil,
			validateResult: func(t *testing.T, result domain.Result) {
				assert.False(t, result.Failed())
				assert.Equal(t, json.RawMessage(`{"results": []}`), result.Payload)
			},
		},
		{
			name:   "garbage output with run error",
			output: []byte("Traceback (most recent call last):"),
			runErr: errors.New("exit status 2"),
			validateResult: func(t *testing.T, result domain.Result) {
				assert.True(t, result.Failed())
				assert.Equal(t, "bandit failed: exit status 2", result.Err)
			},
		},
		{
			name:   "empty output without run error",
			output: nil,
			runErr: nil,
			validateResult: func(t *testing.T, result domain.Result) {
				assert.True(t, result.Failed())
				assert.Equal(t, "bandit produced no parseable JSON output", result.Err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := new(analyzerMocks.MockCommandRunner)
			runner.On("Output", mock.Anything, "bandit", []string{"-r", "/tmp/project", "-f", "json"}).
				Return(tt.output, tt.runErr)

			result := analyzer.NewBanditAnalyzer(runner).Run(context.Background(), "/tmp/project")

			tt.validateResult(t, result)
			runner.AssertExpectations(t)
		})
	}
}

func TestSemgrepAnalyzer_Run(t *testing.T) {
	runner := new(analyzerMocks.MockCommandRunner)
	runner.On("Output", mock.Anything, "semgrep", []string{"--config=auto", "/tmp/project", "--json"}).
		Return([]byte(`{"results": []}`), errors.New("exit status 1"))

	result := analyzer.NewSemgrepAnalyzer(runner).Run(context.Background(), "/tmp/project")

	assert.False(t, result.Failed())
	assert.Equal(t, domain.AnalyzerSemgrep, analyzer.NewSemgrepAnalyzer(runner).Name())
	runner.AssertExpectations(t)
}

func TestPipAuditAnalyzer_NoManifestIsCleanByDefinition(t *testing.T) {
	projectDir := t.TempDir()
	runner := new(analyzerMocks.MockCommandRunner)

	result := analyzer.NewPipAuditAnalyzer(runner).Run(context.Background(), projectDir)

	assert.False(t, result.Failed())
	assert.JSONEq(t, `{"vulnerabilities_found": 0, "details": []}`, string(result.Payload))
	runner.AssertNotCalled(t, "Output", mock.Anything, mock.Anything, mock.Anything)
}

func TestPipAuditAnalyzer_RunsAgainstManifest(t *testing.T) {
	projectDir := t.TempDir()
	manifest := filepath.Join(projectDir, "requirements.txt")
	require.NoError(t, os.WriteFile(manifest, []byte("requests==2.19.0\n"), 0644))

	runner := new(analyzerMocks.MockCommandRunner)
	runner.On("Output", mock.Anything, "pip-audit", []string{"-r", manifest, "-f", "json"}).
		Return([]byte(`{"dependencies": []}`), nil)

	result := analyzer.NewPipAuditAnalyzer(runner).Run(context.Background(), projectDir)

	assert.False(t, result.Failed())
	assert.Equal(t, json.RawMessage(`{"dependencies": []}`), result.Payload)
	runner.AssertExpectations(t)
}

func TestPylintAnalyzer_PoolsPerFileMessages(t *testing.T) {
	projectDir := t.TempDir()
	fileA := filepath.Join(projectDir, "a.py")
	fileB := filepath.Join(projectDir, "b.py")
	require.NoError(t, os.WriteFile(fileA, []byte("print('a')\n"), 0644))
	require.NoError(t, os.WriteFile(fileB, []byte("print('b')\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "README.md"), []byte("docs\n"), 0644))

	runner := new(analyzerMocks.MockCommandRunner)
	runner.On("Output", mock.Anything, "pylint", []string{fileA, "-f", "json"}).
		Return([]byte(`[{"type": "convention", "message": "missing docstring"}, {"type": "warning", "message": "unused import"}]`), errors.New("exit status 4"))
	runner.On("Output", mock.Anything, "pylint", []string{fileB, "-f", "json"}).
		Return([]byte(`[]`), nil)

	result := analyzer.NewPylintAnalyzer(runner).Run(context.Background(), projectDir)

	require.False(t, result.Failed())
	var messages []map[string]interface{}
	require.NoError(t, json.Unmarshal(result.Payload, &messages))
	assert.Len(t, messages, 2)
	runner.AssertExpectations(t)
}

func TestPylintAnalyzer_BrokenFileBecomesInlineError(t *testing.T) {
	projectDir := t.TempDir()
	file := filepath.Join(projectDir, "broken.py")
	require.NoError(t, os.WriteFile(file, []byte("def"), 0644))

	runner := new(analyzerMocks.MockCommandRunner)
	runner.On("Output", mock.Anything, "pylint", []string{file, "-f", "json"}).
		Return([]byte("pylint crashed"), errors.New("exit status 32"))

	result := analyzer.NewPylintAnalyzer(runner).Run(context.Background(), projectDir)

	require.False(t, result.Failed())
	var messages []map[string]string
	require.NoError(t, json.Unmarshal(result.Payload, &messages))
	require.Len(t, messages, 1)
	assert.Equal(t, file, messages[0]["file"])
	assert.Equal(t, "exit status 32", messages[0]["error"])
}

func TestPylintAnalyzer_EmptyProjectProducesEmptyArray(t *testing.T) {
	projectDir := t.TempDir()
	runner := new(analyzerMocks.MockCommandRunner)

	result := analyzer.NewPylintAnalyzer(runner).Run(context.Background(), projectDir)

	require.False(t, result.Failed())
	assert.JSONEq(t, `[]`, string(result.Payload))
	runner.AssertNotCalled(t, "Output", mock.Anything, mock.Anything, mock.Anything)
}
