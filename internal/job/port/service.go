package port

import (
	"context"
	"io"

	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/domain"
)

type Service interface {
	SubmitJob(ctx context.Context, filename string, archive io.Reader) (*domain.Job, error)
	GetJobs(ctx context.Context, filter domain.JobFilters) ([]domain.Job, error)
	GetJobByUUID(ctx context.Context, jobID domain.JobUUID) (*domain.Job, error)
	DeleteJob(ctx context.Context, jobID domain.JobUUID) error
	DeleteAllJobs(ctx context.Context) (int64, error)
}
