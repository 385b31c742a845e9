package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	jobDomain "gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/domain"
	jobPort "gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/port"
	"gitlab.apk-group.net/siem/backend/project-analyzer/pkg/adapter/storage/types"
	"gitlab.apk-group.net/siem/backend/project-analyzer/pkg/adapter/storage/types/mapper"
	appCtx "gitlab.apk-group.net/siem/backend/project-analyzer/pkg/context"
	"gitlab.apk-group.net/siem/backend/project-analyzer/pkg/logger"
)

type jobRepo struct {
	db *gorm.DB
}

// NewJobRepo creates a new job repository
func NewJobRepo(db *gorm.DB) jobPort.Repo {
	return &jobRepo{db: db}
}

// getDB returns the transaction bound to the context when one exists,
// otherwise the repository's own connection.
func (r *jobRepo) getDB(ctx context.Context) *gorm.DB {
	if db := appCtx.GetDB(ctx); db != nil {
		return db
	}
	return r.db
}

func (r *jobRepo) Create(ctx context.Context, job jobDomain.Job) (jobDomain.JobUUID, error) {
	logger.DebugContext(ctx, "Repository: Creating job %s for file %s", job.JobID.String(), job.Filename)

	db := r.getDB(ctx)

	record := mapper.JobDomain2Storage(job)
	record.ID = 0
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now

	if err := db.WithContext(ctx).Create(record).Error; err != nil {
		if isDuplicateKeyError(err) {
			return jobDomain.JobUUID{}, jobDomain.ErrDuplicateJobID
		}
		logger.ErrorContext(ctx, "Repository: Failed to create job: %v", err)
		return jobDomain.JobUUID{}, err
	}

	return job.JobID, nil
}

func (r *jobRepo) GetByUUID(ctx context.Context, jobID jobDomain.JobUUID) (*jobDomain.Job, error) {
	db := r.getDB(ctx)

	var record types.Job
	err := db.WithContext(ctx).
		Where("job_id = ?", jobID.String()).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return mapper.JobStorage2Domain(record)
}

func (r *jobRepo) Get(ctx context.Context, filter jobDomain.JobFilters) ([]jobDomain.Job, error) {
	db := r.getDB(ctx)

	query := db.WithContext(ctx).Model(&types.Job{})
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var records []types.Job
	if err := query.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}

	jobs := make([]jobDomain.Job, 0, len(records))
	for _, record := range records {
		job, err := mapper.JobStorage2Domain(record)
		if err != nil {
			logger.WarnContext(ctx, "Repository: Skipping job with malformed UUID: %s", record.JobID)
			continue
		}
		jobs = append(jobs, *job)
	}

	return jobs, nil
}

// Update applies mutate to the job under a SELECT ... FOR UPDATE lock so
// concurrent status transitions serialize on the row.
func (r *jobRepo) Update(ctx context.Context, jobID jobDomain.JobUUID, mutate func(*jobDomain.Job) error) error {
	db := r.getDB(ctx)

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record types.Job
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("job_id = ?", jobID.String()).
			First(&record).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return jobDomain.ErrJobNotFound
			}
			return err
		}

		job, err := mapper.JobStorage2Domain(record)
		if err != nil {
			return err
		}

		if err := mutate(job); err != nil {
			return err
		}

		updated := mapper.JobDomain2Storage(*job)
		updated.ID = record.ID
		updated.CreatedAt = record.CreatedAt
		updated.UpdatedAt = time.Now()

		return tx.Model(&types.Job{}).
			Where("id = ?", record.ID).
			Select("status", "summary", "result", "updated_at", "completed_at").
			Updates(updated).Error
	})
}

func (r *jobRepo) Delete(ctx context.Context, jobID jobDomain.JobUUID) error {
	logger.InfoContext(ctx, "Repository: Deleting job %s", jobID.String())

	db := r.getDB(ctx)

	result := db.WithContext(ctx).
		Where("job_id = ?", jobID.String()).
		Delete(&types.Job{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return jobDomain.ErrJobNotFound
	}

	return nil
}

func (r *jobRepo) DeleteAll(ctx context.Context) (int64, error) {
	logger.InfoContext(ctx, "Repository: Deleting all jobs")

	db := r.getDB(ctx)

	result := db.WithContext(ctx).
		Where("1 = 1").
		Delete(&types.Job{})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// MySQL error 1062, kept as a string match so the check also covers
	// wrapped driver errors.
	return strings.Contains(err.Error(), "Duplicate entry") ||
		strings.Contains(err.Error(), "1062")
}
