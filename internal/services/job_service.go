package services

import (
	"bytes"
	"encoding/json"
	"iter"
	"sort"
	"strings"

	"maidmatch_backend/internal/logger"
	"maidmatch_backend/internal/models"
	"maidmatch_backend/internal/repositories"
	"maidmatch_backend/internal/services/dto"
	"maidmatch_backend/internal/validator"
	"maidmatch_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// updatableJobFields is the whitelist for UpdateJob, keyed by JSON name.
var updatableJobFields = map[string]bool{
	"title":        true,
	"description":  true,
	"location":     true,
	"compensation": true,
	"start_date":   true,
	"end_date":     true,
	"requirements": true,
	"status":       true,
}

// JobService owns jobs and their state machine.
type JobService interface {
	CreateJob(db *gorm.DB, requesterID string, req *dto.CreateJobRequest) (*dto.JobResponse, error)
	GetJob(db *gorm.DB, jobID string) (*dto.JobResponse, error)
	// ListJobs lazily pages through every job matching filter. Each call to
	// the returned sequence starts over from the first job.
	ListJobs(db *gorm.DB, filter dto.JobFilterRequest) iter.Seq2[*dto.JobResponse, error]
	SearchJobs(db *gorm.DB, filter dto.JobFilterRequest, page, pageSize int) (*dto.JobListResponse, error)
	UpdateJob(db *gorm.DB, jobID, requesterID string, patch dto.JobPatch) (*dto.JobResponse, error)
	CancelJob(db *gorm.DB, jobID string, actor Actor) (*dto.JobResponse, error)
	CompleteJob(db *gorm.DB, jobID string, actor Actor) (*dto.JobResponse, error)
}

type jobService struct {
	store
	jobRepo   repositories.JobRepository
	identity  IdentityDirectory
	notifier  NotificationGateway
	validator *validator.Validator
	pageSize  int
}

func NewJobService(
	jobRepo repositories.JobRepository,
	identity IdentityDirectory,
	notifier NotificationGateway,
	v *validator.Validator,
	opts Options,
) JobService {
	return &jobService{
		store:     store{timeout: opts.QueryTimeout},
		jobRepo:   jobRepo,
		identity:  identity,
		notifier:  notifier,
		validator: v,
		pageSize:  opts.listPageSize(),
	}
}

func (s *jobService) CreateJob(db *gorm.DB, requesterID string, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	if err := requireRole(s.identity, db, requesterID, models.UserRoleRequester, ErrNotRequester); err != nil {
		return nil, err
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, apperrors.ValidationError(map[string]string{"end_date": "Must not be before start_date"})
	}

	requirements := req.Requirements
	if requirements == nil {
		requirements = []string{}
	}
	job := &models.Job{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Location:    strings.TrimSpace(req.Location),
		Compensation: models.Compensation{
			Amount: req.Compensation.Amount,
			Period: req.Compensation.Period,
		},
		EmploymentType: req.EmploymentType,
		Requirements:   datatypes.JSONSlice[string](requirements),
		RequesterID:    requesterID,
		Status:         models.JobStatusOpen,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
	}

	err := s.read(db, func(db *gorm.DB) error {
		return s.jobRepo.Create(db, job)
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(contextOf(db), "job created", "job_id", job.ID, "requester_id", requesterID)
	return dto.NewJobResponse(job), nil
}

func (s *jobService) GetJob(db *gorm.DB, jobID string) (*dto.JobResponse, error) {
	var job *models.Job
	err := s.read(db, func(db *gorm.DB) error {
		var err error
		job, err = s.jobRepo.FindByID(db, jobID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto.NewJobResponse(job), nil
}

func toRepoFilter(f dto.JobFilterRequest) repositories.JobFilter {
	return repositories.JobFilter{
		Statuses:       f.Status,
		Location:       strings.TrimSpace(f.Location),
		RequesterID:    f.RequesterID,
		ProviderID:     f.ProviderID,
		EmploymentType: f.EmploymentType,
	}
}

func (s *jobService) ListJobs(db *gorm.DB, filter dto.JobFilterRequest) iter.Seq2[*dto.JobResponse, error] {
	repoFilter := toRepoFilter(filter)

	return func(yield func(*dto.JobResponse, error) bool) {
		var cursor *repositories.JobCursor
		for {
			var page []models.Job
			err := s.read(db, func(db *gorm.DB) error {
				var err error
				page, err = s.jobRepo.FindAfter(db, repoFilter, cursor, s.pageSize)
				return err
			})
			if err != nil {
				yield(nil, err)
				return
			}

			for i := range page {
				if !yield(dto.NewJobResponse(&page[i]), nil) {
					return
				}
			}
			if len(page) < s.pageSize {
				return
			}
			last := page[len(page)-1]
			cursor = &repositories.JobCursor{CreatedAt: last.CreatedAt, ID: last.ID}
		}
	}
}

func (s *jobService) SearchJobs(db *gorm.DB, filter dto.JobFilterRequest, page, pageSize int) (*dto.JobListResponse, error) {
	var (
		jobs  []models.Job
		total int64
	)
	err := s.read(db, func(db *gorm.DB) error {
		var err error
		jobs, total, err = s.jobRepo.FindPage(db, toRepoFilter(filter), page, pageSize)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.JobListResponse{
		Jobs:       make([]*dto.JobResponse, 0, len(jobs)),
		Pagination: dto.NewPagination(total, page, pageSize),
	}
	for i := range jobs {
		resp.Jobs = append(resp.Jobs, dto.NewJobResponse(&jobs[i]))
	}
	return resp, nil
}

// decodeJobPatch rejects keys outside the whitelist and decodes the rest.
func (s *jobService) decodeJobPatch(patch dto.JobPatch) (*dto.UpdateJobFields, error) {
	var invalid []string
	for key := range patch {
		if !updatableJobFields[key] {
			invalid = append(invalid, key)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return nil, apperrors.ErrInvalidField(invalid)
	}

	raw, err := json.Marshal(patch)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Invalid patch body")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var fields dto.UpdateJobFields
	if err := dec.Decode(&fields); err != nil {
		return nil, apperrors.NewBadRequestError("Invalid patch body: " + err.Error())
	}
	if err := s.validator.Validate(&fields); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			return nil, apperrors.ValidationError(vErr.Errors)
		}
		return nil, apperrors.InternalError(err)
	}
	return &fields, nil
}

func (s *jobService) UpdateJob(db *gorm.DB, jobID, requesterID string, patch dto.JobPatch) (*dto.JobResponse, error) {
	var (
		job     *models.Job
		changed *models.JobStatus
		from    models.JobStatus
	)

	err := s.transaction(db, func(tx *gorm.DB) error {
		current, err := s.jobRepo.FindByIDForUpdate(tx, jobID)
		if err != nil {
			return err
		}
		if current.RequesterID != requesterID {
			return ErrNotJobOwner
		}

		fields, err := s.decodeJobPatch(patch)
		if err != nil {
			return err
		}
		if current.Status.IsTerminal() {
			return apperrors.ErrInvalidTransition("job", "Job is "+string(current.Status)+" and can no longer be changed")
		}

		updates := map[string]interface{}{}
		if fields.Title != nil {
			updates["title"] = strings.TrimSpace(*fields.Title)
		}
		if fields.Description != nil {
			updates["description"] = *fields.Description
		}
		if fields.Location != nil {
			updates["location"] = strings.TrimSpace(*fields.Location)
		}
		if fields.Compensation != nil {
			updates["compensation_amount"] = fields.Compensation.Amount
			updates["compensation_period"] = fields.Compensation.Period
		}
		if fields.Requirements != nil {
			reqs := *fields.Requirements
			if reqs == nil {
				reqs = []string{}
			}
			updates["requirements"] = datatypes.JSONSlice[string](reqs)
		}

		start, end := current.StartDate, current.EndDate
		if _, ok := patch["start_date"]; ok {
			start = fields.StartDate
			updates["start_date"] = fields.StartDate
		}
		if _, ok := patch["end_date"]; ok {
			end = fields.EndDate
			updates["end_date"] = fields.EndDate
		}
		if start != nil && end != nil && end.Before(*start) {
			return apperrors.ValidationError(map[string]string{"end_date": "Must not be before start_date"})
		}

		if fields.Status != nil && *fields.Status != current.Status {
			next := *fields.Status
			// in_progress is reachable only through hire.
			if next == models.JobStatusInProgress || !current.Status.CanTransitionTo(next) {
				return errInvalidTransition(current.Status, next)
			}
			updates["status"] = next
			stampTransition(updates, next)
			from, changed = current.Status, &next
		}

		if len(updates) > 0 {
			if changed != nil {
				ok, err := s.jobRepo.CompareAndSetStatus(tx, jobID, []models.JobStatus{current.Status}, *changed, updates)
				if err != nil {
					return err
				}
				if !ok {
					return errInvalidTransition(current.Status, *changed)
				}
			} else if err := s.jobRepo.Update(tx, jobID, updates); err != nil {
				return err
			}
		}

		job, err = s.jobRepo.FindByID(tx, jobID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if changed != nil {
		s.notifyStatusChanged(db, job, from)
	}
	return dto.NewJobResponse(job), nil
}

func (s *jobService) CancelJob(db *gorm.DB, jobID string, actor Actor) (*dto.JobResponse, error) {
	return s.transition(db, jobID, actor, models.JobStatusCancelled, func(job *models.Job) bool {
		return actor.IsAdmin() || job.RequesterID == actor.ID
	})
}

func (s *jobService) CompleteJob(db *gorm.DB, jobID string, actor Actor) (*dto.JobResponse, error) {
	return s.transition(db, jobID, actor, models.JobStatusCompleted, func(job *models.Job) bool {
		return actor.IsSystem() || actor.IsAdmin() || job.RequesterID == actor.ID
	})
}

// transition moves a job along one edge of the state machine. Applications
// are left untouched.
func (s *jobService) transition(db *gorm.DB, jobID string, actor Actor, to models.JobStatus, allowed func(*models.Job) bool) (*dto.JobResponse, error) {
	var (
		job  *models.Job
		from models.JobStatus
	)

	err := s.transaction(db, func(tx *gorm.DB) error {
		current, err := s.jobRepo.FindByIDForUpdate(tx, jobID)
		if err != nil {
			return err
		}
		if !allowed(current) {
			return ErrNotJobOwner
		}
		if !current.Status.CanTransitionTo(to) {
			return errInvalidTransition(current.Status, to)
		}

		extra := map[string]interface{}{}
		stampTransition(extra, to)
		ok, err := s.jobRepo.CompareAndSetStatus(tx, jobID, []models.JobStatus{current.Status}, to, extra)
		if err != nil {
			return err
		}
		if !ok {
			return errInvalidTransition(current.Status, to)
		}

		from = current.Status
		job, err = s.jobRepo.FindByID(tx, jobID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(contextOf(db), "job status changed",
		"job_id", jobID, "from", from, "to", to, "actor_id", actor.ID)
	s.notifyStatusChanged(db, job, from)
	return dto.NewJobResponse(job), nil
}

func stampTransition(fields map[string]interface{}, to models.JobStatus) {
	switch to {
	case models.JobStatusCompleted:
		fields["completed_at"] = now()
	case models.JobStatusCancelled:
		fields["cancelled_at"] = now()
	}
}

func (s *jobService) notifyStatusChanged(db *gorm.DB, job *models.Job, from models.JobStatus) {
	recipients := []string{job.RequesterID}
	if job.ProviderID != nil {
		recipients = append(recipients, *job.ProviderID)
	}
	s.notifier.Notify(contextOf(db), models.EventJobStatusChanged, models.NotificationPayload{
		Recipients: recipients,
		Title:      "Job status changed",
		Message:    job.Title + " is now " + string(job.Status),
		Data: map[string]interface{}{
			"job_id": job.ID,
			"from":   from,
			"to":     job.Status,
		},
	})
}
