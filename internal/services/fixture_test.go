package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"maidmatch_backend/internal/logger"
	"maidmatch_backend/internal/models"
	"maidmatch_backend/internal/services/dto"
	"maidmatch_backend/internal/testutil"
	"maidmatch_backend/internal/validator"
	"maidmatch_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	logger.Init("test")
}

type sentEvent struct {
	Event   models.NotificationEvent
	Payload models.NotificationPayload
}

// recordingGateway captures notifications synchronously.
type recordingGateway struct {
	mu     sync.Mutex
	events []sentEvent
}

func (g *recordingGateway) Notify(_ context.Context, event models.NotificationEvent, payload models.NotificationPayload) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, sentEvent{Event: event, Payload: payload})
}

func (g *recordingGateway) byEvent(event models.NotificationEvent) []sentEvent {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []sentEvent
	for _, e := range g.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func (g *recordingGateway) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = nil
}

type fixture struct {
	t   *testing.T
	db  *gorm.DB
	gw  *recordingGateway
	svc *ServiceContainer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gw := &recordingGateway{}
	return &fixture{
		t:  t,
		db: testutil.NewTestDB(t),
		gw: gw,
		svc: NewServiceContainer(gw, validator.New(), Options{
			QueryTimeout: 10 * time.Second,
			ListPageSize: 2,
		}),
	}
}

func (f *fixture) requester() *models.User { return testutil.CreateRequester(f.t, f.db) }
func (f *fixture) provider() *models.User  { return testutil.CreateProvider(f.t, f.db) }
func (f *fixture) admin() *models.User     { return testutil.CreateAdmin(f.t, f.db) }

func newJobRequest(title string) *dto.CreateJobRequest {
	return &dto.CreateJobRequest{
		Title:          title,
		Description:    "Weekly cleaning of a two-bedroom flat",
		Location:       "Almaty, Medeu district",
		Compensation:   dto.CompensationDTO{Amount: 15000, Period: models.PayPeriodDaily},
		EmploymentType: models.EmploymentTemporary,
		Requirements:   []string{"references", "own supplies"},
	}
}

func (f *fixture) createJob(requesterID string) *dto.JobResponse {
	f.t.Helper()
	job, err := f.svc.JobService.CreateJob(f.db, requesterID, newJobRequest("Apartment cleaning"))
	require.NoError(f.t, err)
	return job
}

func (f *fixture) apply(jobID, providerID string) *dto.ApplicationResponse {
	f.t.Helper()
	app, err := f.svc.ApplicationService.Apply(f.db, jobID, providerID, &dto.ApplyRequest{Note: "available weekdays"})
	require.NoError(f.t, err)
	return app
}

// hiredJob returns a job in progress with provider hired.
func (f *fixture) hiredJob(requesterID, providerID string) *dto.JobResponse {
	f.t.Helper()
	job := f.createJob(requesterID)
	f.apply(job.ID, providerID)
	hired, err := f.svc.ApplicationService.Hire(f.db, job.ID, requesterID, providerID)
	require.NoError(f.t, err)
	return hired
}

func (f *fixture) completedJob(requesterID, providerID string) *dto.JobResponse {
	f.t.Helper()
	job := f.hiredJob(requesterID, providerID)
	done, err := f.svc.JobService.CompleteJob(f.db, job.ID, Actor{ID: requesterID, Role: models.UserRoleRequester})
	require.NoError(f.t, err)
	return done
}

func (f *fixture) loadJob(id string) *models.Job {
	f.t.Helper()
	var job models.Job
	require.NoError(f.t, f.db.Preload("Applications").First(&job, "id = ?", id).Error)
	return &job
}

func (f *fixture) applicationStatus(jobID, providerID string) models.ApplicationStatus {
	f.t.Helper()
	var app models.JobApplication
	require.NoError(f.t, f.db.First(&app, "job_id = ? AND provider_id = ?", jobID, providerID).Error)
	return app.Status
}

func assertCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected *AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code, appErr.Message)
}
