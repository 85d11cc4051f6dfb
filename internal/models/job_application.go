package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobApplication is unique per (job, provider). Position is the 1-based
// application order within the job.
type JobApplication struct {
	ID         string            `gorm:"size:36;primaryKey"`
	JobID      string            `gorm:"size:36;not null;uniqueIndex:idx_application_job_provider,priority:1"`
	ProviderID string            `gorm:"size:36;not null;uniqueIndex:idx_application_job_provider,priority:2;index"`
	Position   int               `gorm:"not null"`
	Status     ApplicationStatus `gorm:"size:20;not null;default:pending;index"`
	Note       string            `gorm:"type:text"`
	AppliedAt  time.Time         `gorm:"not null"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime"`
}

func (a *JobApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.AppliedAt.IsZero() {
		a.AppliedAt = time.Now().UTC()
	}
	return nil
}
