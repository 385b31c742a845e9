package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	analyzerDomain "gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer/domain"
	jobDomain "gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/domain"
)

// NewTestJob creates a basic pending test job with sensible defaults
func NewTestJob() jobDomain.Job {
	return jobDomain.Job{
		ID:        1,
		JobID:     uuid.New(),
		Filename:  "project.zip",
		Status:    jobDomain.JobStatusPending,
		Result:    json.RawMessage("{}"),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// NewTestJobWithStatus creates a test job in the given lifecycle state
func NewTestJobWithStatus(status jobDomain.JobStatus) jobDomain.Job {
	job := NewTestJob()
	job.Status = status
	if status.IsTerminal() {
		job.Summary = "Scan finished with 0 issues"
	}
	if status == jobDomain.JobStatusCompleted {
		now := time.Now()
		job.CompletedAt = &now
	}
	return job
}

// NewTestDocument creates a result document where every analyzer succeeded
// and nothing was found
func NewTestDocument() analyzerDomain.Document {
	return analyzerDomain.Document{
		analyzerDomain.AnalyzerBandit:   analyzerDomain.OK(json.RawMessage(`{"results": []}`)),
		analyzerDomain.AnalyzerSemgrep:  analyzerDomain.OK(json.RawMessage(`{"results": []}`)),
		analyzerDomain.AnalyzerPipAudit: analyzerDomain.OK(json.RawMessage(`{"vulnerabilities_found": 0, "details": []}`)),
		analyzerDomain.AnalyzerPylint:   analyzerDomain.OK(json.RawMessage(`[]`)),
	}
}

// NewTestDocumentWithFindings creates a result document with the given
// bandit severities plus one dependency vulnerability
func NewTestDocumentWithFindings(banditSeverities ...string) analyzerDomain.Document {
	doc := NewTestDocument()
	doc[analyzerDomain.AnalyzerBandit] = analyzerDomain.OK(BanditPayload(banditSeverities...))
	doc[analyzerDomain.AnalyzerPipAudit] = analyzerDomain.OK(json.RawMessage(
		`{"dependencies": [{"name": "requests", "version": "2.19.0", "vulns": [{"id": "PYSEC-2023-74", "description": "leaks Proxy-Authorization header"}]}]}`))
	return doc
}

// BanditPayload builds a bandit report with one finding per severity
func BanditPayload(severities ...string) json.RawMessage {
	results := make([]map[string]interface{}, 0, len(severities))
	for i, severity := range severities {
		results = append(results, map[string]interface{}{
			"issue_text":     fmt.Sprintf("test finding %d", i+1),
			"issue_severity": severity,
			"filename":       fmt.Sprintf("app/module_%d.py", i+1),
			"line_number":    10 + i,
		})
	}
	payload, _ := json.Marshal(map[string]interface{}{"results": results})
	return payload
}
