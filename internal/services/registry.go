package services

import (
	"time"

	"maidmatch_backend/internal/repositories"
	"maidmatch_backend/internal/validator"
)

// Options tunes every service.
type Options struct {
	// QueryTimeout bounds one unit of work against the store; zero disables it.
	QueryTimeout time.Duration
	// ListPageSize is the page size ListJobs uses while streaming.
	ListPageSize int
}

func (o Options) listPageSize() int {
	if o.ListPageSize <= 0 {
		return 100
	}
	return o.ListPageSize
}

// ServiceContainer holds every application service.
type ServiceContainer struct {
	IdentityService     IdentityService
	JobService          JobService
	ApplicationService  ApplicationService
	ReviewService       ReviewService
	NotificationService NotificationService
}

// NewServiceContainer wires the services on top of the gorm repositories.
func NewServiceContainer(notifier NotificationGateway, v *validator.Validator, opts Options) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	jobRepo := repositories.NewJobRepository()
	appRepo := repositories.NewApplicationRepository()
	reviewRepo := repositories.NewReviewRepository()
	notificationRepo := repositories.NewNotificationRepository()

	identityService := NewIdentityService(userRepo, opts)

	return &ServiceContainer{
		IdentityService:     identityService,
		JobService:          NewJobService(jobRepo, identityService, notifier, v, opts),
		ApplicationService:  NewApplicationService(jobRepo, appRepo, identityService, notifier, opts),
		ReviewService:       NewReviewService(reviewRepo, jobRepo, userRepo, notifier, opts),
		NotificationService: NewNotificationService(notificationRepo, opts),
	}
}
