package types

import (
	"time"
)

// Job is the storage model for one submitted analysis job.
type Job struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement"`
	JobID       string     `gorm:"column:job_id;size:36;not null;uniqueIndex"`
	Filename    string     `gorm:"column:filename;size:255;not null"`
	Status      string     `gorm:"column:status;type:enum('pending','running','completed','failed');not null;default:pending"`
	Summary     *string    `gorm:"column:summary;size:255"`
	Result      string     `gorm:"column:result;type:text"`
	CreatedAt   time.Time  `gorm:"column:created_at;type:datetime;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;type:datetime;default:CURRENT_TIMESTAMP"`
	CompletedAt *time.Time `gorm:"column:completed_at;type:datetime"`
}

func (Job) TableName() string {
	return "jobs"
}
