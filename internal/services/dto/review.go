package dto

import (
	"time"

	"maidmatch_backend/internal/models"
)

// SubmitReviewRequest leaves the rating range check to the review ledger.
type SubmitReviewRequest struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

type ReviewResponse struct {
	ID         string            `json:"id"`
	JobID      string            `json:"job_id"`
	ReviewerID string            `json:"reviewer_id"`
	RevieweeID string            `json:"reviewee_id"`
	Rating     int               `json:"rating"`
	Comment    *string           `json:"comment,omitempty"`
	ReviewType models.ReviewType `json:"review_type"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

type ReviewListResponse struct {
	Reviews []*ReviewResponse `json:"reviews"`
	Pagination
}

func NewReviewResponse(r *models.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:         r.ID,
		JobID:      r.JobID,
		ReviewerID: r.ReviewerID,
		RevieweeID: r.RevieweeID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		ReviewType: r.ReviewType,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
