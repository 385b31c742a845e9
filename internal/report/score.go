package report

import (
	"strings"

	analyzerDomain "gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer/domain"
)

// Score derives the 0..10 risk score from a stored result document.
// Issues are pooled from the static scanners and the dependency audit;
// each tool's native severity field is used, defaulting to unknown.
// Deterministic for a fixed document.
func Score(doc analyzerDomain.Document) float64 {
	score := 10.0

	for _, severity := range pooledSeverities(doc) {
		switch strings.ToUpper(severity) {
		case "HIGH":
			score -= 3
		case "MEDIUM":
			score -= 1
		default:
			score -= 0.5
		}
	}

	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

// SeverityCounts reports how many pooled issues sit in the high and
// medium buckets, for the report's executive summary.
func SeverityCounts(doc analyzerDomain.Document) (high, medium int) {
	for _, severity := range pooledSeverities(doc) {
		switch strings.ToUpper(severity) {
		case "HIGH":
			high++
		case "MEDIUM":
			medium++
		}
	}
	return high, medium
}

func pooledSeverities(doc analyzerDomain.Document) []string {
	var severities []string
	for _, issue := range BanditIssues(doc) {
		severities = append(severities, issue.Severity)
	}
	for _, issue := range SemgrepIssues(doc) {
		severities = append(severities, issue.Severity)
	}
	for _, vuln := range DependencyVulns(doc) {
		severities = append(severities, vuln.Severity)
	}
	return severities
}

// TotalIssueCount pools the finding counts of every analyzer, including
// the style checker which does not participate in the score.
func TotalIssueCount(doc analyzerDomain.Document) int {
	return len(BanditIssues(doc)) +
		len(SemgrepIssues(doc)) +
		len(DependencyVulns(doc)) +
		PylintMessageCount(doc)
}
