package services

import (
	"errors"

	"maidmatch_backend/internal/logger"
	"maidmatch_backend/internal/models"
	"maidmatch_backend/internal/repositories"
	"maidmatch_backend/internal/services/dto"

	"gorm.io/gorm"
)

// ApplicationService mutates the applications of a job: apply, hire and reject.
type ApplicationService interface {
	Apply(db *gorm.DB, jobID, providerID string, req *dto.ApplyRequest) (*dto.ApplicationResponse, error)
	// Hire accepts providerID's pending application, rejects every other
	// application and moves the job to in_progress, all in one transaction.
	Hire(db *gorm.DB, jobID, requesterID, providerID string) (*dto.JobResponse, error)
	RejectApplication(db *gorm.DB, jobID, requesterID, providerID string) (*dto.ApplicationResponse, error)
	GetJobApplications(db *gorm.DB, jobID string, actor Actor) ([]*dto.ApplicationResponse, error)
	GetProviderApplications(db *gorm.DB, providerID string, status models.ApplicationStatus, page, pageSize int) (*dto.ApplicationListResponse, error)
}

type applicationService struct {
	store
	jobRepo  repositories.JobRepository
	appRepo  repositories.ApplicationRepository
	identity IdentityDirectory
	notifier NotificationGateway
}

func NewApplicationService(
	jobRepo repositories.JobRepository,
	appRepo repositories.ApplicationRepository,
	identity IdentityDirectory,
	notifier NotificationGateway,
	opts Options,
) ApplicationService {
	return &applicationService{
		store:    store{timeout: opts.QueryTimeout},
		jobRepo:  jobRepo,
		appRepo:  appRepo,
		identity: identity,
		notifier: notifier,
	}
}

func (s *applicationService) Apply(db *gorm.DB, jobID, providerID string, req *dto.ApplyRequest) (*dto.ApplicationResponse, error) {
	if err := requireRole(s.identity, db, providerID, models.UserRoleProvider, ErrNotProvider); err != nil {
		return nil, err
	}

	var (
		app *models.JobApplication
		job *models.Job
	)
	err := s.transaction(db, func(tx *gorm.DB) error {
		var err error
		job, err = s.jobRepo.FindByIDForUpdate(tx, jobID)
		if err != nil {
			return err
		}
		if job.Status != models.JobStatusOpen {
			return ErrJobNotOpen
		}

		if _, err := s.appRepo.FindByJobAndProvider(tx, jobID, providerID); err == nil {
			return repositories.ErrDuplicateApplication
		} else if !errors.Is(err, repositories.ErrApplicationNotFound) {
			return err
		}

		position, err := s.appRepo.NextPosition(tx, jobID)
		if err != nil {
			return err
		}
		app = &models.JobApplication{
			JobID:      jobID,
			ProviderID: providerID,
			Position:   position,
			Status:     models.ApplicationStatusPending,
		}
		if req != nil {
			app.Note = req.Note
		}
		// the unique index still guards a race the check above cannot see
		return s.appRepo.Create(tx, app)
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(contextOf(db), "application created", "job_id", jobID, "provider_id", providerID)
	s.notifier.Notify(contextOf(db), models.EventApplicationCreated, models.NotificationPayload{
		Recipients: []string{job.RequesterID},
		Title:      "New application",
		Message:    "A provider applied to " + job.Title,
		Data:       map[string]interface{}{"job_id": jobID, "provider_id": providerID},
	})
	return dto.NewApplicationResponse(app), nil
}

func (s *applicationService) Hire(db *gorm.DB, jobID, requesterID, providerID string) (*dto.JobResponse, error) {
	var (
		job      *models.Job
		rejected []string
	)

	err := s.transaction(db, func(tx *gorm.DB) error {
		current, err := s.jobRepo.FindByIDForUpdate(tx, jobID)
		if err != nil {
			return err
		}
		if current.RequesterID != requesterID {
			return ErrNotJobOwner
		}
		if current.Status != models.JobStatusOpen {
			return ErrJobNotOpen
		}

		app, err := s.appRepo.FindByJobAndProvider(tx, jobID, providerID)
		if err != nil {
			return err
		}
		if app.Status != models.ApplicationStatusPending {
			return ErrApplicationNotPending
		}

		hiredAt := now()
		ok, err := s.jobRepo.CompareAndSetStatus(tx, jobID,
			[]models.JobStatus{models.JobStatusOpen}, models.JobStatusInProgress,
			map[string]interface{}{"provider_id": providerID, "hired_at": hiredAt})
		if err != nil {
			return err
		}
		if !ok {
			return ErrJobNotOpen
		}

		ok, err = s.appRepo.SetStatus(tx, app.ID, models.ApplicationStatusPending, models.ApplicationStatusAccepted)
		if err != nil {
			return err
		}
		if !ok {
			return ErrApplicationNotPending
		}

		if rejected, err = s.appRepo.RejectSiblings(tx, jobID, providerID); err != nil {
			return err
		}

		job, err = s.jobRepo.FindByID(tx, jobID)
		return err
	})
	if err != nil {
		return nil, err
	}

	ctx := contextOf(db)
	logger.CtxInfo(ctx, "provider hired", "job_id", jobID, "provider_id", providerID, "rejected", len(rejected))

	s.notifier.Notify(ctx, models.EventApplicationAccepted, models.NotificationPayload{
		Recipients: []string{providerID},
		Title:      "You have been hired",
		Message:    "Your application for " + job.Title + " was accepted",
		Data:       map[string]interface{}{"job_id": jobID},
	})
	if len(rejected) > 0 {
		s.notifier.Notify(ctx, models.EventApplicationRejected, models.NotificationPayload{
			Recipients: rejected,
			Title:      "Application not selected",
			Message:    "Another provider was hired for " + job.Title,
			Data:       map[string]interface{}{"job_id": jobID},
		})
	}
	s.notifier.Notify(ctx, models.EventJobStatusChanged, models.NotificationPayload{
		Recipients: []string{job.RequesterID, providerID},
		Title:      "Job status changed",
		Message:    job.Title + " is now " + string(job.Status),
		Data: map[string]interface{}{
			"job_id": jobID,
			"from":   models.JobStatusOpen,
			"to":     job.Status,
		},
	})
	return dto.NewJobResponse(job), nil
}

func (s *applicationService) RejectApplication(db *gorm.DB, jobID, requesterID, providerID string) (*dto.ApplicationResponse, error) {
	var (
		app *models.JobApplication
		job *models.Job
	)

	err := s.transaction(db, func(tx *gorm.DB) error {
		var err error
		job, err = s.jobRepo.FindByIDForUpdate(tx, jobID)
		if err != nil {
			return err
		}
		if job.RequesterID != requesterID {
			return ErrNotJobOwner
		}
		if job.Status != models.JobStatusOpen {
			return ErrJobNotOpen
		}

		app, err = s.appRepo.FindByJobAndProvider(tx, jobID, providerID)
		if err != nil {
			return err
		}
		ok, err := s.appRepo.SetStatus(tx, app.ID, models.ApplicationStatusPending, models.ApplicationStatusRejected)
		if err != nil {
			return err
		}
		if !ok {
			return ErrApplicationNotPending
		}
		app.Status = models.ApplicationStatusRejected
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(contextOf(db), models.EventApplicationRejected, models.NotificationPayload{
		Recipients: []string{providerID},
		Title:      "Application not selected",
		Message:    "Your application for " + job.Title + " was declined",
		Data:       map[string]interface{}{"job_id": jobID},
	})
	return dto.NewApplicationResponse(app), nil
}

func (s *applicationService) GetJobApplications(db *gorm.DB, jobID string, actor Actor) ([]*dto.ApplicationResponse, error) {
	var job *models.Job
	err := s.read(db, func(db *gorm.DB) error {
		var err error
		job, err = s.jobRepo.FindByID(db, jobID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if job.RequesterID != actor.ID && !actor.IsAdmin() {
		return nil, ErrNotJobOwner
	}

	resp := make([]*dto.ApplicationResponse, 0, len(job.Applications))
	for i := range job.Applications {
		resp = append(resp, dto.NewApplicationResponse(&job.Applications[i]))
	}
	return resp, nil
}

func (s *applicationService) GetProviderApplications(db *gorm.DB, providerID string, status models.ApplicationStatus, page, pageSize int) (*dto.ApplicationListResponse, error) {
	var (
		apps  []models.JobApplication
		total int64
	)
	err := s.read(db, func(db *gorm.DB) error {
		var err error
		apps, total, err = s.appRepo.FindByProvider(db, providerID, status, page, pageSize)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.ApplicationListResponse{
		Applications: make([]*dto.ApplicationResponse, 0, len(apps)),
		Pagination:   dto.NewPagination(total, page, pageSize),
	}
	for i := range apps {
		resp.Applications = append(resp.Applications, dto.NewApplicationResponse(&apps[i]))
	}
	return resp, nil
}
