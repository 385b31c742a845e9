package report

import (
	"encoding/json"

	analyzerDomain "gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer/domain"
)

// CodeIssue is one normalized static-analysis finding.
type CodeIssue struct {
	Tool        string
	Title       string
	Severity    string
	File        string
	Line        int
	Description string
}

// DependencyVuln is one normalized dependency-audit finding.
type DependencyVuln struct {
	Package     string
	Version     string
	ID          string
	Severity    string
	Description string
}

const severityUnknown = "UNKNOWN"

func payloadOf(doc analyzerDomain.Document, name string) json.RawMessage {
	result, ok := doc[name]
	if !ok || result.Failed() {
		return nil
	}
	return result.Payload
}

// BanditIssues pulls the findings out of a bandit report payload.
func BanditIssues(doc analyzerDomain.Document) []CodeIssue {
	payload := payloadOf(doc, analyzerDomain.AnalyzerBandit)
	if payload == nil {
		return nil
	}

	var parsed struct {
		Results []struct {
			IssueText     string `json:"issue_text"`
			IssueSeverity string `json:"issue_severity"`
			Filename      string `json:"filename"`
			LineNumber    int    `json:"line_number"`
		} `json:"results"`
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil
	}

	issues := make([]CodeIssue, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		severity := r.IssueSeverity
		if severity == "" {
			severity = severityUnknown
		}
		issues = append(issues, CodeIssue{
			Tool:        analyzerDomain.AnalyzerBandit,
			Title:       r.IssueText,
			Severity:    severity,
			File:        r.Filename,
			Line:        r.LineNumber,
			Description: r.IssueText,
		})
	}
	return issues
}

// SemgrepIssues pulls the findings out of a semgrep report payload.
func SemgrepIssues(doc analyzerDomain.Document) []CodeIssue {
	payload := payloadOf(doc, analyzerDomain.AnalyzerSemgrep)
	if payload == nil {
		return nil
	}

	var parsed struct {
		Results []struct {
			CheckID string `json:"check_id"`
			Path    string `json:"path"`
			Start   struct {
				Line int `json:"line"`
			} `json:"start"`
			Extra struct {
				Message  string `json:"message"`
				Severity string `json:"severity"`
			} `json:"extra"`
		} `json:"results"`
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil
	}

	issues := make([]CodeIssue, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		severity := r.Extra.Severity
		if severity == "" {
			severity = severityUnknown
		}
		issues = append(issues, CodeIssue{
			Tool:        analyzerDomain.AnalyzerSemgrep,
			Title:       r.CheckID,
			Severity:    severity,
			File:        r.Path,
			Line:        r.Start.Line,
			Description: r.Extra.Message,
		})
	}
	return issues
}

// DependencyVulns pulls the findings out of a pip-audit payload. The tool
// has emitted several shapes over its releases, all of them are accepted:
// a "details" array (also the no-manifest placeholder), a flat
// "vulnerabilities" array and the nested "dependencies" form.
func DependencyVulns(doc analyzerDomain.Document) []DependencyVuln {
	payload := payloadOf(doc, analyzerDomain.AnalyzerPipAudit)
	if payload == nil {
		return nil
	}

	var parsed struct {
		Details         []pipAuditEntry `json:"details"`
		Vulnerabilities []pipAuditEntry `json:"vulnerabilities"`
		Dependencies    []struct {
			Name    string `json:"name"`
			Version string `json:"version"`
			Vulns   []struct {
				ID          string `json:"id"`
				Description string `json:"description"`
			} `json:"vulns"`
		} `json:"dependencies"`
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil
	}

	var vulns []DependencyVuln
	for _, entry := range append(parsed.Details, parsed.Vulnerabilities...) {
		vulns = append(vulns, entry.normalize())
	}
	for _, dep := range parsed.Dependencies {
		for _, v := range dep.Vulns {
			vulns = append(vulns, DependencyVuln{
				Package:     dep.Name,
				Version:     dep.Version,
				ID:          v.ID,
				Severity:    severityUnknown,
				Description: v.Description,
			})
		}
	}
	return vulns
}

type pipAuditEntry struct {
	Package          string `json:"package"`
	Name             string `json:"name"`
	InstalledVersion string `json:"installed_version"`
	Version          string `json:"version"`
	Vulnerability    string `json:"vulnerability"`
	ID               string `json:"id"`
	Severity         string `json:"severity"`
	Description      string `json:"description"`
}

func (e pipAuditEntry) normalize() DependencyVuln {
	pkg := e.Package
	if pkg == "" {
		pkg = e.Name
	}
	version := e.InstalledVersion
	if version == "" {
		version = e.Version
	}
	id := e.Vulnerability
	if id == "" {
		id = e.ID
	}
	severity := e.Severity
	if severity == "" {
		severity = severityUnknown
	}
	return DependencyVuln{
		Package:     pkg,
		Version:     version,
		ID:          id,
		Severity:    severity,
		Description: e.Description,
	}
}

// PylintMessageCount counts the pooled pylint messages.
func PylintMessageCount(doc analyzerDomain.Document) int {
	payload := payloadOf(doc, analyzerDomain.AnalyzerPylint)
	if payload == nil {
		return 0
	}

	var messages []json.RawMessage
	if err := json.Unmarshal(payload, &messages); err != nil {
		return 0
	}
	return len(messages)
}
