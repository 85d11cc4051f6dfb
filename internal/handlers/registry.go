package handlers

import (
	"maidmatch_backend/internal/services"
	"maidmatch_backend/internal/validator"
)

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	JobHandler          *JobHandler
	ApplicationHandler  *ApplicationHandler
	ReviewHandler       *ReviewHandler
	IdentityHandler     *IdentityHandler
	NotificationHandler *NotificationHandler
}

func NewAppHandlers(svc *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)
	return &AppHandlers{
		JobHandler:          NewJobHandler(base, svc.JobService),
		ApplicationHandler:  NewApplicationHandler(base, svc.ApplicationService),
		ReviewHandler:       NewReviewHandler(base, svc.ReviewService),
		IdentityHandler:     NewIdentityHandler(base, svc.IdentityService),
		NotificationHandler: NewNotificationHandler(base, svc.NotificationService),
	}
}
