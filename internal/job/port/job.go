package port

import (
	"context"

	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/domain"
)

type Repo interface {
	Create(ctx context.Context, job domain.Job) (domain.JobUUID, error)
	// GetByUUID returns (nil, nil) when no job with that UUID exists.
	GetByUUID(ctx context.Context, jobID domain.JobUUID) (*domain.Job, error)
	Get(ctx context.Context, filter domain.JobFilters) ([]domain.Job, error)
	// Update loads the job under a row lock, applies mutate and persists the
	// outcome in one transaction. A mutate error aborts without writing.
	Update(ctx context.Context, jobID domain.JobUUID, mutate func(*domain.Job) error) error
	Delete(ctx context.Context, jobID domain.JobUUID) error
	DeleteAll(ctx context.Context) (int64, error)
}

// TaskQueue hands job UUIDs from the HTTP side to the scan workers.
// Delivery is at-least-once; consumers must tolerate redelivery.
type TaskQueue interface {
	Enqueue(ctx context.Context, jobID domain.JobUUID) error
	// Dequeue blocks briefly and returns (nil, nil) when nothing is queued.
	Dequeue(ctx context.Context) (*domain.JobUUID, error)
}
