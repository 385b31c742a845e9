package report_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	analyzerDomain "gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer/domain"
	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/report"
	domainFixtures "gitlab.apk-group.net/siem/backend/project-analyzer/tests/fixtures/domain"
)

func TestScore_CleanDocument(t *testing.T) {
	doc := domainFixtures.NewTestDocument()

	assert.Equal(t, 10.0, report.Score(doc))
	assert.Equal(t, 0, report.TotalIssueCount(doc))
}

func TestScore_ThreeMediumFindings(t *testing.T) {
	// No dependency manifest, three medium static findings.
	doc := domainFixtures.NewTestDocument()
	doc[analyzerDomain.AnalyzerBandit] = analyzerDomain.OK(
		domainFixtures.BanditPayload("MEDIUM", "MEDIUM", "MEDIUM"))

	assert.Equal(t, 7.0, report.Score(doc))
}

func TestScore_SeverityWeights(t *testing.T) {
	tests := []struct {
		name       string
		severities []string
		expected   float64
	}{
		{
			name:       "one high finding",
			severities: []string{"HIGH"},
			expected:   7.0,
		},
		{
			name:       "high plus medium plus low",
			severities: []string{"HIGH", "MEDIUM", "LOW"},
			expected:   5.5,
		},
		{
			name:       "unknown severity counts as remainder",
			severities: []string{""},
			expected:   9.5,
		},
		{
			name:       "clamped at zero",
			severities: []string{"HIGH", "HIGH", "HIGH", "HIGH"},
			expected:   0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := domainFixtures.NewTestDocument()
			doc[analyzerDomain.AnalyzerBandit] = analyzerDomain.OK(
				domainFixtures.BanditPayload(tt.severities...))

			assert.Equal(t, tt.expected, report.Score(doc))
		})
	}
}

func TestScore_Deterministic(t *testing.T) {
	doc := domainFixtures.NewTestDocumentWithFindings("HIGH", "MEDIUM")

	first := report.Score(doc)
	second := report.Score(doc)

	assert.Equal(t, first, second)
}

func TestScore_FailedAnalyzerContributesNothing(t *testing.T) {
	doc := domainFixtures.NewTestDocument()
	doc[analyzerDomain.AnalyzerBandit] = analyzerDomain.Errf("bandit failed: executable not found")

	assert.Equal(t, 10.0, report.Score(doc))
}

func TestTotalIssueCount_PoolsEveryAnalyzer(t *testing.T) {
	doc := domainFixtures.NewTestDocumentWithFindings("HIGH", "MEDIUM")
	doc[analyzerDomain.AnalyzerPylint] = analyzerDomain.OK(json.RawMessage(
		`[{"type": "convention", "message": "missing docstring"}]`))

	// Two bandit findings, one dependency vulnerability, one pylint message.
	assert.Equal(t, 4, report.TotalIssueCount(doc))
}

func TestDependencyVulns_AcceptsEveryPayloadShape(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected int
	}{
		{
			name:     "no-manifest placeholder",
			payload:  `{"vulnerabilities_found": 0, "details": []}`,
			expected: 0,
		},
		{
			name:     "details array",
			payload:  `{"details": [{"package": "flask", "vulnerability": "CVE-2023-30861"}]}`,
			expected: 1,
		},
		{
			name:     "flat vulnerabilities array",
			payload:  `{"vulnerabilities": [{"name": "jinja2", "id": "PYSEC-2024-22"}]}`,
			expected: 1,
		},
		{
			name:     "nested dependencies form",
			payload:  `{"dependencies": [{"name": "requests", "version": "2.19.0", "vulns": [{"id": "a"}, {"id": "b"}]}]}`,
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := domainFixtures.NewTestDocument()
			doc[analyzerDomain.AnalyzerPipAudit] = analyzerDomain.OK(json.RawMessage(tt.payload))

			assert.Len(t, report.DependencyVulns(doc), tt.expected)
		})
	}
}
