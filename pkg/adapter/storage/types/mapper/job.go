package mapper

import (
	"encoding/json"

	jobDomain "gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/domain"
	"gitlab.apk-group.net/siem/backend/project-analyzer/pkg/adapter/storage/types"
)

// JobStorage2Domain maps storage Job to domain Job
func JobStorage2Domain(s types.Job) (*jobDomain.Job, error) {
	jobUUID, err := jobDomain.JobUUIDFromString(s.JobID)
	if err != nil {
		return nil, err
	}

	summary := ""
	if s.Summary != nil {
		summary = *s.Summary
	}

	result := s.Result
	if result == "" {
		result = "{}"
	}

	return &jobDomain.Job{
		ID:          s.ID,
		JobID:       jobUUID,
		Filename:    s.Filename,
		Status:      jobDomain.JobStatus(s.Status),
		Summary:     summary,
		Result:      json.RawMessage(result),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		CompletedAt: s.CompletedAt,
	}, nil
}

// JobDomain2Storage maps domain Job to storage Job
func JobDomain2Storage(d jobDomain.Job) *types.Job {
	var summary *string
	if d.Summary != "" {
		summary = &d.Summary
	}

	result := string(d.Result)
	if result == "" {
		result = "{}"
	}

	return &types.Job{
		ID:          d.ID,
		JobID:       d.JobID.String(),
		Filename:    d.Filename,
		Status:      string(d.Status),
		Summary:     summary,
		Result:      result,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		CompletedAt: d.CompletedAt,
	}
}
