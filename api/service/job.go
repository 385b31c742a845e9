package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	jobDomain "gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/domain"
	jobPort "gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/port"
)

var (
	ErrJobNotFound    = errors.New("job not found")
	ErrInvalidJobUUID = errors.New("invalid job UUID")
	ErrMissingFile    = errors.New("no file provided")
	ErrNotZipArchive  = errors.New("only .zip archives are accepted")
)

// JobService provides API operations for analysis jobs
type JobService struct {
	service jobPort.Service
}

// NewJobService creates a new JobService
func NewJobService(srv jobPort.Service) *JobService {
	return &JobService{service: srv}
}

type UploadResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type JobSummary struct {
	JobID       string     `json:"job_id"`
	Filename    string     `json:"filename"`
	Status      string     `json:"status"`
	Summary     string     `json:"summary"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

type JobDetail struct {
	JobSummary
	Result json.RawMessage `json:"result"`
}

type DeleteResponse struct {
	Message string `json:"message"`
}

type DeleteAllResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deleted_count"`
}

// Upload submits an uploaded archive as a new pending job
func (s *JobService) Upload(ctx context.Context, filename string, archive io.Reader) (*UploadResponse, error) {
	job, err := s.service.SubmitJob(ctx, filename, archive)
	if err != nil {
		switch {
		case errors.Is(err, jobDomain.ErrMissingFilename):
			return nil, ErrMissingFile
		case errors.Is(err, jobDomain.ErrNotZipArchive):
			return nil, ErrNotZipArchive
		default:
			return nil, err
		}
	}

	return &UploadResponse{
		JobID:  job.JobID.String(),
		Status: string(job.Status),
	}, nil
}

// ListJobs returns job summaries, newest first, without result bodies
func (s *JobService) ListJobs(ctx context.Context) ([]JobSummary, error) {
	jobs, err := s.service.GetJobs(ctx, jobDomain.JobFilters{})
	if err != nil {
		return nil, err
	}

	summaries := make([]JobSummary, 0, len(jobs))
	for _, job := range jobs {
		summaries = append(summaries, jobSummaryFromDomain(job))
	}
	return summaries, nil
}

// GetJob returns the full job record including the parsed result
func (s *JobService) GetJob(ctx context.Context, id string) (*JobDetail, error) {
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

	result := job.Result
	if len(result) == 0 {
		result = json.RawMessage("{}")
	}

	return &JobDetail{
		JobSummary: jobSummaryFromDomain(*job),
		Result:     result,
	}, nil
}

// DeleteJob removes one job and its files
func (s *JobService) DeleteJob(ctx context.Context, id string) (*DeleteResponse, error) {
	jobID, err := jobDomain.JobUUIDFromString(id)
	if err != nil {
		return nil, ErrInvalidJobUUID
	}

	if err := s.service.DeleteJob(ctx, jobID); err != nil {
		if errors.Is(err, jobDomain.ErrJobNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	return &DeleteResponse{Message: "Job " + id + " deleted successfully"}, nil
}

// DeleteAllJobs removes every job
func (s *JobService) DeleteAllJobs(ctx context.Context) (*DeleteAllResponse, error) {
	count, err := s.service.DeleteAllJobs(ctx)
	if err != nil {
		return nil, err
	}

	return &DeleteAllResponse{
		Message:      "All jobs deleted successfully",
		DeletedCount: count,
	}, nil
}

func jobSummaryFromDomain(job jobDomain.Job) JobSummary {
	return JobSummary{
		JobID:       job.JobID.String(),
		Filename:    job.Filename,
		Status:      string(job.Status),
		Summary:     job.Summary,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
		CompletedAt: job.CompletedAt,
	}
}
