package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrJobNotFound     = errors.New("job not found")
	ErrDuplicateJobID  = errors.New("job ID already exists")
	ErrInvalidJobUUID  = errors.New("invalid job UUID")
	ErrMissingFilename = errors.New("no file provided")
	ErrNotZipArchive   = errors.New("only .zip archives are accepted")
	ErrJobCreateFailed = errors.New("failed to create job")
)

type JobUUID = uuid.UUID

func JobUUIDFromString(s string) (JobUUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrInvalidJobUUID
	}
	return id, nil
}

// JobStatus is the lifecycle state of an analysis job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// IsTerminal reports whether the status allows no further transitions.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job represents one submitted project analysis and its outcome
type Job struct {
	ID          int64
	JobID       JobUUID
	Filename    string
	Status      JobStatus
	Summary     string
	Result      json.RawMessage
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// NewPendingJob builds a fresh job for an uploaded archive. The UUID is
// generated here and never changes afterwards.
func NewPendingJob(filename string) Job {
	return Job{
		JobID:    uuid.New(),
		Filename: filename,
		Status:   JobStatusPending,
		Result:   json.RawMessage("{}"),
	}
}

// JobFilters defines supported filters for querying jobs
type JobFilters struct {
	Status JobStatus
}
