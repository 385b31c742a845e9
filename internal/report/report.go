package report

import (
	"encoding/json"
	"time"

	jobDomain "gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/domain"
)

const (
	reportVersion   = "1.0"
	reportGenerator = "Project Analyzer"
)

// JSONReport is the normalized report document served on download. It is
// a pure function of the job row and its stored result; regenerating it
// changes nothing but generated_at. The stored result is embedded
// verbatim, failure documents included.
type JSONReport struct {
	JobInfo        JobInfo         `json:"job_info"`
	ScanResults    json.RawMessage `json:"scan_results"`
	ReportMetadata ReportMetadata  `json:"report_metadata"`
}

type JobInfo struct {
	JobID       string     `json:"job_id"`
	Filename    string     `json:"filename"`
	Status      string     `json:"status"`
	Summary     string     `json:"summary"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

type ReportMetadata struct {
	GeneratedAt   time.Time `json:"generated_at"`
	ReportVersion string    `json:"report_version"`
	Generator     string    `json:"generator"`
}

// BuildJSON assembles the JSON report for one job.
func BuildJSON(job jobDomain.Job, now time.Time) JSONReport {
	results := job.Result
	if len(results) == 0 {
		results = json.RawMessage("{}")
	}

	return JSONReport{
		JobInfo: JobInfo{
			JobID:       job.JobID.String(),
			Filename:    job.Filename,
			Status:      string(job.Status),
			Summary:     job.Summary,
			CreatedAt:   job.CreatedAt,
			UpdatedAt:   job.UpdatedAt,
			CompletedAt: job.CompletedAt,
		},
		ScanResults:    results,
		ReportMetadata: ReportMetadata{
			GeneratedAt:   now,
			ReportVersion: reportVersion,
			Generator:     reportGenerator,
		},
	}
}
