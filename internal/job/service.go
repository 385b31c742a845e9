package job

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/domain"
	jobPort "gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/port"
	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/workspace"
	appCtx "gitlab.apk-group.net/siem/backend/project-analyzer/pkg/context"
	"gitlab.apk-group.net/siem/backend/project-analyzer/pkg/logger"
)

// service implements jobPort.Service
type service struct {
	repo      jobPort.Repo
	queue     jobPort.TaskQueue
	workspace *workspace.Workspace
}

// NewJobService creates a new job service
func NewJobService(repo jobPort.Repo, queue jobPort.TaskQueue, ws *workspace.Workspace) jobPort.Service {
	return &service{
		repo:      repo,
		queue:     queue,
		workspace: ws,
	}
}

// SubmitJob saves and extracts the uploaded archive, creates the pending
// job record and enqueues the scan task.
func (s *service) SubmitJob(ctx context.Context, filename string, archive io.Reader) (*domain.Job, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, domain.ErrMissingFilename
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".zip") {
		return nil, domain.ErrNotZipArchive
	}

	// A worker can dequeue the task the moment Enqueue returns, so the job
	// row must be durable first. Detach from any transaction bound to the
	// request context; the create commits on the base connection.
	ctx = appCtx.NewAppContext(ctx)

	job := domain.NewPendingJob(filename)
	jobID := job.JobID.String()

	if _, err := s.workspace.SaveArchive(jobID, filename, archive); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrJobCreateFailed, err)
	}

	if _, err := s.workspace.ExtractArchive(jobID, filename); err != nil {
		if cleanupErr := s.workspace.Remove(jobID, filename); cleanupErr != nil {
			logger.WarnContext(ctx, "Service: Failed to clean up workspace for job %s: %v", jobID, cleanupErr)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrNotZipArchive, err)
	}

	if _, err := s.repo.Create(ctx, job); err != nil {
		if cleanupErr := s.workspace.Remove(jobID, filename); cleanupErr != nil {
			logger.WarnContext(ctx, "Service: Failed to clean up workspace for job %s: %v", jobID, cleanupErr)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrJobCreateFailed, err)
	}

	if err := s.queue.Enqueue(ctx, job.JobID); err != nil {
		// The record stays pending; a later redelivery or manual requeue
		// can still pick it up.
		logger.ErrorContext(ctx, "Service: Failed to enqueue job %s: %v", jobID, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrJobCreateFailed, err)
	}

	logger.InfoContext(ctx, "Service: Job %s submitted for file %s", jobID, filename)

	created, err := s.repo.GetByUUID(ctx, job.JobID)
	if err != nil || created == nil {
		return &job, nil
	}
	return created, nil
}

// GetJobs retrieves jobs matching the filter, newest first
func (s *service) GetJobs(ctx context.Context, filter domain.JobFilters) ([]domain.Job, error) {
	return s.repo.Get(ctx, filter)
}

// GetJobByUUID retrieves a single job; (nil, nil) when absent
func (s *service) GetJobByUUID(ctx context.Context, jobID domain.JobUUID) (*domain.Job, error) {
	return s.repo.GetByUUID(ctx, jobID)
}

// DeleteJob removes the job record and every workspace artifact
func (s *service) DeleteJob(ctx context.Context, jobID domain.JobUUID) error {
	job, err := s.repo.GetByUUID(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return domain.ErrJobNotFound
	}

	if err := s.repo.Delete(ctx, jobID); err != nil {
		return err
	}

	if err := s.workspace.Remove(jobID.String(), job.Filename); err != nil {
		logger.WarnContext(ctx, "Service: Failed to remove files for job %s: %v", jobID.String(), err)
	}

	return nil
}

// DeleteAllJobs removes every job record and its files, returning the
// number of deleted records
func (s *service) DeleteAllJobs(ctx context.Context) (int64, error) {
	jobs, err := s.repo.Get(ctx, domain.JobFilters{})
	if err != nil {
		return 0, err
	}

	count, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}

	for _, job := range jobs {
		if err := s.workspace.Remove(job.JobID.String(), job.Filename); err != nil {
			logger.WarnContext(ctx, "Service: Failed to remove files for job %s: %v", job.JobID.String(), err)
		}
	}

	return count, nil
}
