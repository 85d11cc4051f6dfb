package dto

import "maidmatch_backend/internal/models"

type UpsertIdentityRequest struct {
	Name               string                    `json:"name" validate:"omitempty,max=200"`
	Role               models.UserRole           `json:"role" validate:"required,is-user-role"`
	VerificationStatus models.VerificationStatus `json:"verification_status" validate:"omitempty,is-verification-status"`
}

type IdentityResponse struct {
	ID                 string                    `json:"id"`
	Name               string                    `json:"name"`
	Role               models.UserRole           `json:"role"`
	VerificationStatus models.VerificationStatus `json:"verification_status"`
	Rating             float64                   `json:"rating"`
	ReviewCount        int64                     `json:"review_count"`
}

func NewIdentityResponse(u *models.User) *IdentityResponse {
	return &IdentityResponse{
		ID:                 u.ID,
		Name:               u.Name,
		Role:               u.Role,
		VerificationStatus: u.VerificationStatus,
		Rating:             u.Rating,
		ReviewCount:        u.ReviewCount,
	}
}
