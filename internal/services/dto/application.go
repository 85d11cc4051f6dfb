package dto

import (
	"time"

	"maidmatch_backend/internal/models"
)

type ApplyRequest struct {
	Note string `json:"note" validate:"omitempty,max=2000"`
}

type HireRequest struct {
	ProviderID string `json:"provider_id" validate:"required"`
}

type ApplicationResponse struct {
	ID         string                   `json:"id"`
	JobID      string                   `json:"job_id"`
	ProviderID string                   `json:"provider_id"`
	Position   int                      `json:"position"`
	Status     models.ApplicationStatus `json:"status"`
	Note       string                   `json:"note,omitempty"`
	AppliedAt  time.Time                `json:"applied_at"`
}

type ApplicationListResponse struct {
	Applications []*ApplicationResponse `json:"applications"`
	Pagination
}

func NewApplicationResponse(app *models.JobApplication) *ApplicationResponse {
	return &ApplicationResponse{
		ID:         app.ID,
		JobID:      app.JobID,
		ProviderID: app.ProviderID,
		Position:   app.Position,
		Status:     app.Status,
		Note:       app.Note,
		AppliedAt:  app.AppliedAt,
	}
}
