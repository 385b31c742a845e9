package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	analyzerDomain "gitlab.apk-group.net/siem/backend/project-analyzer/internal/analyzer/domain"
	jobDomain "gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/domain"
	jobPort "gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/port"
	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/report"
	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/workspace"
	"gitlab.apk-group.net/siem/backend/project-analyzer/pkg/logger"
)

// ReportService synthesizes report artifacts on demand from stored job
// results.
type ReportService struct {
	service   jobPort.Service
	workspace *workspace.Workspace
}

// NewReportService creates a new ReportService
func NewReportService(srv jobPort.Service, ws *workspace.Workspace) *ReportService {
	return &ReportService{service: srv, workspace: ws}
}

// ReportFile is a generated artifact ready to be served as a download.
type ReportFile struct {
	Content     []byte
	Filename    string
	ContentType string
}

// GetJSONReport builds the JSON report, caches it to the report
// directory and returns it for download.
func (s *ReportService) GetJSONReport(ctx context.Context, id string) (*ReportFile, error) {
	job, err := s.loadJob(ctx, id)
	if err != nil {
		return nil, err
	}

	doc := report.BuildJSON(*job, time.Now())
	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON report: %w", err)
	}

	if _, err := s.workspace.WriteReport(job.JobID.String(), "json", content); err != nil {
		logger.WarnContext(ctx, "Report: Failed to cache JSON report for job %s: %v", job.JobID.String(), err)
	}

	return &ReportFile{
		Content:     content,
		Filename:    fmt.Sprintf("%s_security_report.json", job.Filename),
		ContentType: "application/json",
	}, nil
}

// GetHTMLReport renders the printable report. PDF conversion is
// deferred; the HTML is served with attachment headers instead.
func (s *ReportService) GetHTMLReport(ctx context.Context, id string) (*ReportFile, error) {
	job, err := s.loadJob(ctx, id)
	if err != nil {
		return nil, err
	}

	// Failure documents and empty results fall back to an empty
	// document; the rendering then carries the job status alone.
	var doc analyzerDomain.Document
	if err := json.Unmarshal(job.Result, &doc); err != nil {
		doc = analyzerDomain.Document{}
	}

	content, err := report.RenderHTML(*job, doc, time.Now())
	if err != nil {
		return nil, err
	}

	return &ReportFile{
		Content:     content,
		Filename:    fmt.Sprintf("%s_security_report.html", job.Filename),
		ContentType: "text/html",
	}, nil
}

func (s *ReportService) loadJob(ctx context.Context, id string) (*jobDomain.Job, error) {
	jobID, err := jobDomain.JobUUIDFromString(id)
	if err != nil {
		return nil, ErrInvalidJobUUID
	}

	job, err := s.service.GetJobByUUID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	return job, nil
}
