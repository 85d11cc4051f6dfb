package models

import (
	"time"

	"gorm.io/datatypes"
)

type Compensation struct {
	Amount float64   `gorm:"not null;default:0"`
	Period PayPeriod `gorm:"size:20;not null"`
}

type Job struct {
	BaseModel
	Title          string                      `gorm:"size:200;not null"`
	Description    string                      `gorm:"type:text"`
	Location       string                      `gorm:"size:200;index"`
	Compensation   Compensation                `gorm:"embedded;embeddedPrefix:compensation_"`
	EmploymentType EmploymentType              `gorm:"size:20;not null"`
	Requirements   datatypes.JSONSlice[string] `gorm:"not null"`
	RequesterID    string                      `gorm:"size:36;not null;index"`
	ProviderID     *string                     `gorm:"size:36;index"`
	Status         JobStatus                   `gorm:"size:20;not null;index;default:open"`
	StartDate      *time.Time
	EndDate        *time.Time
	HiredAt        *time.Time
	CompletedAt    *time.Time
	CancelledAt    *time.Time

	// Applications in application order.
	Applications []JobApplication `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`
}

// AcceptedCount counts accepted applications; never above one.
func (j *Job) AcceptedCount() int {
	n := 0
	for _, a := range j.Applications {
		if a.Status == ApplicationStatusAccepted {
			n++
		}
	}
	return n
}

// IsParty reports whether userID is the requester or the hired provider.
func (j *Job) IsParty(userID string) bool {
	if j.RequesterID == userID {
		return true
	}
	return j.ProviderID != nil && *j.ProviderID == userID
}
