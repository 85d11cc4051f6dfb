package dto

import (
	"encoding/json"
	"time"

	"maidmatch_backend/internal/models"
)

type CompensationDTO struct {
	Amount float64          `json:"amount" validate:"min=0"`
	Period models.PayPeriod `json:"period" validate:"required,is-pay-period"`
}

type CreateJobRequest struct {
	Title          string                `json:"title" validate:"required,min=3,max=200"`
	Description    string                `json:"description" validate:"omitempty,max=5000"`
	Location       string                `json:"location" validate:"required,max=200"`
	Compensation   CompensationDTO       `json:"compensation"`
	EmploymentType models.EmploymentType `json:"employment_type" validate:"required,is-employment-type"`
	Requirements   []string              `json:"requirements" validate:"omitempty,max=50,dive,required,max=300"`
	StartDate      *time.Time            `json:"start_date"`
	EndDate        *time.Time            `json:"end_date"`
}

// JobPatch is a raw partial update keyed by JSON field name.
type JobPatch map[string]json.RawMessage

// UpdateJobFields is the decoded form of the updatable fields of a JobPatch.
type UpdateJobFields struct {
	Title        *string           `json:"title" validate:"omitempty,min=3,max=200"`
	Description  *string           `json:"description" validate:"omitempty,max=5000"`
	Location     *string           `json:"location" validate:"omitempty,min=1,max=200"`
	Compensation *CompensationDTO  `json:"compensation"`
	StartDate    *time.Time        `json:"start_date"`
	EndDate      *time.Time        `json:"end_date"`
	Requirements *[]string         `json:"requirements" validate:"omitempty,max=50,dive,required,max=300"`
	Status       *models.JobStatus `json:"status" validate:"omitempty,is-job-status"`
}

type JobFilterRequest struct {
	Status         []models.JobStatus    `form:"status" validate:"omitempty,dive,is-job-status"`
	Location       string                `form:"location" validate:"omitempty,max=200"`
	RequesterID    string                `form:"requester_id" validate:"omitempty,max=64"`
	ProviderID     string                `form:"provider_id" validate:"omitempty,max=64"`
	EmploymentType models.EmploymentType `form:"employment_type" validate:"omitempty,is-employment-type"`
}

type JobResponse struct {
	ID             string                 `json:"id"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	Location       string                 `json:"location"`
	Compensation   CompensationDTO        `json:"compensation"`
	EmploymentType models.EmploymentType  `json:"employment_type"`
	Requirements   []string               `json:"requirements"`
	RequesterID    string                 `json:"requester_id"`
	ProviderID     *string                `json:"provider_id,omitempty"`
	Status         models.JobStatus       `json:"status"`
	StartDate      *time.Time             `json:"start_date,omitempty"`
	EndDate        *time.Time             `json:"end_date,omitempty"`
	HiredAt        *time.Time             `json:"hired_at,omitempty"`
	CompletedAt    *time.Time             `json:"completed_at,omitempty"`
	CancelledAt    *time.Time             `json:"cancelled_at,omitempty"`
	Applications   []*ApplicationResponse `json:"applications,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

type JobListResponse struct {
	Jobs []*JobResponse `json:"jobs"`
	Pagination
}

func NewJobResponse(job *models.Job) *JobResponse {
	requirements := []string(job.Requirements)
	if requirements == nil {
		requirements = []string{}
	}
	resp := &JobResponse{
		ID:          job.ID,
		Title:       job.Title,
		Description: job.Description,
		Location:    job.Location,
		Compensation: CompensationDTO{
			Amount: job.Compensation.Amount,
			Period: job.Compensation.Period,
		},
		EmploymentType: job.EmploymentType,
		Requirements:   requirements,
		RequesterID:    job.RequesterID,
		ProviderID:     job.ProviderID,
		Status:         job.Status,
		StartDate:      job.StartDate,
		EndDate:        job.EndDate,
		HiredAt:        job.HiredAt,
		CompletedAt:    job.CompletedAt,
		CancelledAt:    job.CancelledAt,
		CreatedAt:      job.CreatedAt,
		UpdatedAt:      job.UpdatedAt,
	}
	for i := range job.Applications {
		resp.Applications = append(resp.Applications, NewApplicationResponse(&job.Applications[i]))
	}
	return resp
}
