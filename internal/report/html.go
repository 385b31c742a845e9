package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	analyzerDomain "gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer/domain"
	jobDomain "gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/domain"
)

const (
	maxRenderedCodeIssues      = 20
	maxRenderedDependencyVulns = 10
)

type issueView struct {
	Title         string
	Severity      string
	SeverityClass string
	File          string
	Line          int
	Description   string
}

type issueSection struct {
	Issues    []issueView
	Remainder int
	Error     string
}

type vulnView struct {
	Package     string
	Version     string
	ID          string
	Description string
}

type vulnSection struct {
	Vulns     []vulnView
	Remainder int
	Error     string
}

type htmlReportData struct {
	Filename     string
	JobID        string
	Generated    string
	GeneratedISO string
	Score        string
	ScoreColor   string
	TotalIssues  int
	HighIssues   int
	MediumIssues int
	Status       string
	ScanDate     string
	Bandit       issueSection
	Semgrep      issueSection
	Dependencies vulnSection
	Version      string
	Generator    string
}

// RenderHTML produces the printable report for one job. The output is
// deterministic for a fixed job and document, only the generation
// timestamp varies between calls.
func RenderHTML(job jobDomain.Job, doc analyzerDomain.Document, now time.Time) ([]byte, error) {
	score := Score(doc)
	high, medium := SeverityCounts(doc)

	data := htmlReportData{
		Filename:     job.Filename,
		JobID:        job.JobID.String(),
		Generated:    now.UTC().Format("2006-01-02 15:04:05 UTC"),
		GeneratedISO: now.UTC().Format(time.RFC3339),
		Score:        fmt.Sprintf("%.1f", score),
		ScoreColor:   scoreColor(score),
		TotalIssues:  len(BanditIssues(doc)) + len(SemgrepIssues(doc)) + len(DependencyVulns(doc)),
		HighIssues:   high,
		MediumIssues: medium,
		Status:       string(job.Status),
		ScanDate:     job.CreatedAt.Format("2006-01-02 15:04:05"),
		Bandit:       buildIssueSection(BanditIssues(doc), doc, analyzerDomain.AnalyzerBandit),
		Semgrep:      buildIssueSection(SemgrepIssues(doc), doc, analyzerDomain.AnalyzerSemgrep),
		Dependencies: buildVulnSection(doc),
		Version:      reportVersion,
		Generator:    reportGenerator,
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render HTML report: %w", err)
	}
	return buf.Bytes(), nil
}

func scoreColor(score float64) string {
	switch {
	case score >= 8:
		return "#28a745"
	case score >= 6:
		return "#ffc107"
	default:
		return "#dc3545"
	}
}

func analyzerError(doc analyzerDomain.Document, name string) string {
	if result, ok := doc[name]; ok && result.Failed() {
		return result.Err
	}
	return ""
}

func buildIssueSection(issues []CodeIssue, doc analyzerDomain.Document, name string) issueSection {
	section := issueSection{Error: analyzerError(doc, name)}

	for i, issue := range issues {
		if i >= maxRenderedCodeIssues {
			section.Remainder = len(issues) - maxRenderedCodeIssues
			break
		}

		severity := strings.ToLower(issue.Severity)
		class := severity
		if class != "high" && class != "medium" && class != "low" {
			class = "low"
		}

		section.Issues = append(section.Issues, issueView{
			Title:         issue.Title,
			Severity:      strings.ToUpper(issue.Severity),
			SeverityClass: class,
			File:          issue.File,
			Line:          issue.Line,
			Description:   issue.Description,
		})
	}

	return section
}

func buildVulnSection(doc analyzerDomain.Document) vulnSection {
	vulns := DependencyVulns(doc)
	section := vulnSection{Error: analyzerError(doc, analyzerDomain.AnalyzerPipAudit)}

	for i, vuln := range vulns {
		if i >= maxRenderedDependencyVulns {
			section.Remainder = len(vulns) - maxRenderedDependencyVulns
			break
		}
		section.Vulns = append(section.Vulns, vulnView{
			Package:     vuln.Package,
			Version:     vuln.Version,
			ID:          vuln.ID,
			Description: vuln.Description,
		})
	}

	return section
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Security Report - {{.Filename}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; line-height: 1.6; }
        .header { border-bottom: 2px solid #333; padding-bottom: 20px; margin-bottom: 30px; }
        .header h1 { color: #333; margin: 0; }
        .header .subtitle { color: #666; margin: 5px 0; }
        .section { margin-bottom: 30px; }
        .section h2 { color: #333; border-bottom: 1px solid #ccc; padding-bottom: 10px; }
        .score { font-size: 24px; font-weight: bold; color: {{.ScoreColor}}; }
        .issue { background: #f8f9fa; border-left: 4px solid #dc3545; padding: 10px; margin: 10px 0; }
        .issue.medium { border-left-color: #ffc107; }
        .issue.low { border-left-color: #28a745; }
        .issue h4 { margin: 0 0 5px 0; color: #333; }
        .issue p { margin: 5px 0; color: #666; }
        .metadata { background: #f8f9fa; padding: 15px; border-radius: 5px; }
        .metadata table { width: 100%; }
        .metadata td { padding: 5px 0; }
        .metadata td:first-child { font-weight: bold; width: 150px; }
        @media print { body { margin: 20px; } }
    </style>
</head>
<body>
    <div class="header">
        <h1>Security Analysis Report</h1>
        <div class="subtitle">Project: {{.Filename}}</div>
        <div class="subtitle">Scan ID: {{.JobID}}</div>
        <div class="subtitle">Generated: {{.Generated}}</div>
    </div>

    <div class="section">
        <h2>Executive Summary</h2>
        <div class="metadata">
            <table>
                <tr><td>Security Score:</td><td><span class="score">{{.Score}}/10</span></td></tr>
                <tr><td>Total Issues:</td><td>{{.TotalIssues}}</td></tr>
                <tr><td>High Issues:</td><td>{{.HighIssues}}</td></tr>
                <tr><td>Medium Issues:</td><td>{{.MediumIssues}}</td></tr>
                <tr><td>Scan Status:</td><td>{{.Status}}</td></tr>
                <tr><td>Scan Date:</td><td>{{.ScanDate}}</td></tr>
            </table>
        </div>
    </div>

    <div class="section">
        <h2>Bandit Security Issues</h2>
        {{template "issues" .Bandit}}
    </div>

    <div class="section">
        <h2>Semgrep Security Issues</h2>
        {{template "issues" .Semgrep}}
    </div>

    <div class="section">
        <h2>Dependency Vulnerabilities</h2>
        {{template "vulns" .Dependencies}}
    </div>

    <div class="section">
        <h2>Recommendations</h2>
        <ul>
            <li>Address all high severity issues immediately</li>
            <li>Update vulnerable dependencies to their latest secure versions</li>
            <li>Implement regular security scanning in your CI/CD pipeline</li>
            <li>Review and fix medium and low severity issues when possible</li>
            <li>Consider implementing additional security measures based on the findings</li>
        </ul>
    </div>

    <div class="section">
        <h2>Report Metadata</h2>
        <div class="metadata">
            <table>
                <tr><td>Report Version:</td><td>{{.Version}}</td></tr>
                <tr><td>Generator:</td><td>{{.Generator}}</td></tr>
                <tr><td>Generated At:</td><td>{{.GeneratedISO}}</td></tr>
            </table>
        </div>
    </div>
</body>
</html>
{{define "issues"}}{{if .Error}}<p><em>Analyzer failed: {{.Error}}</em></p>{{else if not .Issues}}<p>No issues found.</p>{{else}}{{range .Issues}}
<div class="issue {{.SeverityClass}}">
    <h4>{{.Title}}</h4>
    <p><strong>Severity:</strong> {{.Severity}}</p>
    <p><strong>File:</strong> {{.File}}</p>
    <p><strong>Line:</strong> {{.Line}}</p>
    <p><strong>Description:</strong> {{.Description}}</p>
</div>
{{end}}{{if gt .Remainder 0}}<p><em>... and {{.Remainder}} more issues. See full JSON report for complete details.</em></p>{{end}}{{end}}{{end}}
{{define "vulns"}}{{if .Error}}<p><em>Analyzer failed: {{.Error}}</em></p>{{else if not .Vulns}}<p>No dependency vulnerabilities found.</p>{{else}}{{range .Vulns}}
<div class="issue">
    <h4>{{.Package}}</h4>
    <p><strong>Version:</strong> {{.Version}}</p>
    <p><strong>Vulnerability:</strong> {{.ID}}</p>
    <p><strong>Description:</strong> {{.Description}}</p>
</div>
{{end}}{{if gt .Remainder 0}}<p><em>... and {{.Remainder}} more vulnerabilities. See full JSON report for complete details.</em></p>{{end}}{{end}}{{end}}`))
