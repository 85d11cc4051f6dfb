package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationEvent string

const (
	EventApplicationCreated  NotificationEvent = "application.created"
	EventApplicationAccepted NotificationEvent = "application.accepted"
	EventApplicationRejected NotificationEvent = "application.rejected"
	EventJobStatusChanged    NotificationEvent = "job.status_changed"
	EventReviewCreated       NotificationEvent = "review.created"
)

type Notification struct {
	BaseModel
	UserID  string            `gorm:"size:36;not null;index"`
	Event   NotificationEvent `gorm:"size:50;not null"`
	Title   string            `gorm:"size:200;not null"`
	Message string            `gorm:"type:text"`
	Data    datatypes.JSON
	IsRead  bool `gorm:"not null;default:false"`
	ReadAt  *time.Time
}

// NotificationPayload is what a state transition hands to the gateway.
type NotificationPayload struct {
	Recipients []string
	Title      string
	Message    string
	Data       map[string]interface{}
}
