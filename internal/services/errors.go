package services

import (
	"errors"
	"fmt"

	"maidmatch_backend/internal/models"
	"maidmatch_backend/internal/repositories"
	"maidmatch_backend/pkg/apperrors"
)

var (
	ErrJobNotFound          = apperrors.ErrNotFound("job", "Job not found")
	ErrApplicationNotFound  = apperrors.ErrNotFound("application", "Application not found")
	ErrReviewNotFound       = apperrors.ErrNotFound("review", "Review not found")
	ErrUserNotFound         = apperrors.ErrNotFound("identity", "User not found")
	ErrNotificationNotFound = apperrors.ErrNotFound("notification", "Notification not found")

	ErrNotRequester = apperrors.ErrForbidden("job", "Only requesters can create jobs")
	ErrNotJobOwner  = apperrors.ErrForbidden("job", "Only the job's requester can perform this action")
	ErrNotProvider  = apperrors.ErrForbidden("application", "Only providers can apply to jobs")
	ErrNotJobParty  = apperrors.ErrForbidden("review", "Only the requester or the hired provider of this job can review it")
	ErrNotReviewer  = apperrors.ErrForbidden("review", "Only the original reviewer can change this review")

	ErrJobNotOpen            = apperrors.ErrInvalidState("job", "Job is not open")
	ErrApplicationNotPending = apperrors.ErrInvalidState("application", "Application is not pending")
	ErrJobNotCompleted       = apperrors.ErrInvalidState("review", "Can only review completed jobs")
)

func errInvalidTransition(from, to models.JobStatus) *apperrors.AppError {
	return apperrors.ErrInvalidTransition("job", fmt.Sprintf("Job cannot move from %s to %s", from, to))
}

// translate turns repository errors into AppErrors. Anything unknown is
// classified by apperrors.FromStore.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrJobNotFound):
		return ErrJobNotFound
	case errors.Is(err, repositories.ErrApplicationNotFound):
		return ErrApplicationNotFound
	case errors.Is(err, repositories.ErrReviewNotFound):
		return ErrReviewNotFound
	case errors.Is(err, repositories.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrNotificationNotFound):
		return ErrNotificationNotFound
	case errors.Is(err, repositories.ErrDuplicateApplication):
		return apperrors.ErrDuplicateApplication
	case errors.Is(err, repositories.ErrDuplicateReview):
		return apperrors.ErrDuplicateReview
	}
	return apperrors.FromStore(err)
}
