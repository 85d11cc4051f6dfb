package services

import (
	"errors"
	"sync"
	"testing"

	"maidmatch_backend/internal/models"
	"maidmatch_backend/internal/services/dto"
	"maidmatch_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestApply(t *testing.T) {
	f := newFixture(t)
	req := f.requester()
	p1, p2 := f.provider(), f.provider()
	job := f.createJob(req.ID)

	a1 := f.apply(job.ID, p1.ID)
	a2 := f.apply(job.ID, p2.ID)

	assert.Equal(t, models.ApplicationStatusPending, a1.Status)
	assert.Equal(t, 1, a1.Position)
	assert.Equal(t, 2, a2.Position)
	assert.Equal(t, "available weekdays", a1.Note)

	events := f.gw.byEvent(models.EventApplicationCreated)
	require.Len(t, events, 2)
	assert.Equal(t, []string{req.ID}, events[0].Payload.Recipients)
}

func TestApply_Errors(t *testing.T) {
	f := newFixture(t)
	req := f.requester()
	prov := f.provider()
	job := f.createJob(req.ID)
	f.apply(job.ID, prov.ID)

	_, err := f.svc.ApplicationService.Apply(f.db, job.ID, prov.ID, nil)
	assertCode(t, err, apperrors.CodeDuplicateApplication)

	_, err = f.svc.ApplicationService.Apply(f.db, job.ID, req.ID, nil)
	assertCode(t, err, apperrors.CodeForbidden)

	_, err = f.svc.ApplicationService.Apply(f.db, job.ID, "unknown-identity", nil)
	assertCode(t, err, apperrors.CodeForbidden)

	_, err = f.svc.ApplicationService.Apply(f.db, "missing", f.provider().ID, nil)
	assertCode(t, err, apperrors.CodeNotFound)

	_, err = f.svc.JobService.CancelJob(f.db, job.ID, Actor{ID: req.ID, Role: models.UserRoleRequester})
	require.NoError(t, err)
	_, err = f.svc.ApplicationService.Apply(f.db, job.ID, f.provider().ID, nil)
	assertCode(t, err, apperrors.CodeInvalidState)
}

func TestHire(t *testing.T) {
	f := newFixture(t)
	req := f.requester()
	p1, p2, p3 := f.provider(), f.provider(), f.provider()
	job := f.createJob(req.ID)
	f.apply(job.ID, p1.ID)
	f.apply(job.ID, p2.ID)
	f.apply(job.ID, p3.ID)

	hired, err := f.svc.ApplicationService.Hire(f.db, job.ID, req.ID, p1.ID)
	require.NoError(t, err)

	assert.Equal(t, models.JobStatusInProgress, hired.Status)
	require.NotNil(t, hired.ProviderID)
	assert.Equal(t, p1.ID, *hired.ProviderID)
	assert.NotNil(t, hired.HiredAt)

	assert.Equal(t, models.ApplicationStatusAccepted, f.applicationStatus(job.ID, p1.ID))
	assert.Equal(t, models.ApplicationStatusRejected, f.applicationStatus(job.ID, p2.ID))
	assert.Equal(t, models.ApplicationStatusRejected, f.applicationStatus(job.ID, p3.ID))
	assert.Equal(t, 1, f.loadJob(job.ID).AcceptedCount())

	accepted := f.gw.byEvent(models.EventApplicationAccepted)
	require.Len(t, accepted, 1)
	assert.Equal(t, []string{p1.ID}, accepted[0].Payload.Recipients)
	rejected := f.gw.byEvent(models.EventApplicationRejected)
	require.Len(t, rejected, 1)
	assert.ElementsMatch(t, []string{p2.ID, p3.ID}, rejected[0].Payload.Recipients)
	assert.Len(t, f.gw.byEvent(models.EventJobStatusChanged), 1)
}

func TestHire_AfterHireFails(t *testing.T) {
	f := newFixture(t)
	req := f.requester()
	p1, p2 := f.provider(), f.provider()
	job := f.createJob(req.ID)
	f.apply(job.ID, p1.ID)
	f.apply(job.ID, p2.ID)
	_, err := f.svc.ApplicationService.Hire(f.db, job.ID, req.ID, p1.ID)
	require.NoError(t, err)
	f.gw.reset()

	_, err = f.svc.ApplicationService.Hire(f.db, job.ID, req.ID, p2.ID)
	assertCode(t, err, apperrors.CodeInvalidState)

	// repeating the same hire is rejected as well
	_, err = f.svc.ApplicationService.Hire(f.db, job.ID, req.ID, p1.ID)
	assertCode(t, err, apperrors.CodeInvalidState)

	stored := f.loadJob(job.ID)
	assert.Equal(t, models.JobStatusInProgress, stored.Status)
	assert.Equal(t, p1.ID, *stored.ProviderID)
	assert.Equal(t, models.ApplicationStatusAccepted, f.applicationStatus(job.ID, p1.ID))
	assert.Equal(t, models.ApplicationStatusRejected, f.applicationStatus(job.ID, p2.ID))
	assert.Empty(t, f.gw.events)
}

func TestHire_Errors(t *testing.T) {
	f := newFixture(t)
	req := f.requester()
	other := f.requester()
	p1, p2 := f.provider(), f.provider()
	job := f.createJob(req.ID)
	f.apply(job.ID, p1.ID)
	f.apply(job.ID, p2.ID)

	_, err := f.svc.ApplicationService.Hire(f.db, "missing", req.ID, p1.ID)
	assertCode(t, err, apperrors.CodeNotFound)

	_, err = f.svc.ApplicationService.Hire(f.db, job.ID, other.ID, p1.ID)
	assertCode(t, err, apperrors.CodeForbidden)

	_, err = f.svc.ApplicationService.Hire(f.db, job.ID, req.ID, f.provider().ID)
	assertCode(t, err, apperrors.CodeNotFound)

	_, err = f.svc.ApplicationService.RejectApplication(f.db, job.ID, req.ID, p2.ID)
	require.NoError(t, err)
	_, err = f.svc.ApplicationService.Hire(f.db, job.ID, req.ID, p2.ID)
	assertCode(t, err, apperrors.CodeInvalidState)

	stored := f.loadJob(job.ID)
	assert.Equal(t, models.JobStatusOpen, stored.Status)
	assert.Nil(t, stored.ProviderID)
	assert.Equal(t, models.ApplicationStatusPending, f.applicationStatus(job.ID, p1.ID))
}

func TestHire_ConcurrentSingleWinner(t *testing.T) {
	f := newFixture(t)
	req := f.requester()
	job := f.createJob(req.ID)

	var providers []string
	for i := 0; i < 6; i++ {
		p := f.provider()
		f.apply(job.ID, p.ID)
		providers = append(providers, p.ID)
	}

	var (
		mu      sync.Mutex
		winners []string
		g       errgroup.Group
	)
	for _, pid := range providers {
		g.Go(func() error {
			_, err := f.svc.ApplicationService.Hire(f.db, job.ID, req.ID, pid)
			if err == nil {
				mu.Lock()
				winners = append(winners, pid)
				mu.Unlock()
				return nil
			}
			if !apperrors.HasCode(err, apperrors.CodeInvalidState) {
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.Len(t, winners, 1)
	stored := f.loadJob(job.ID)
	assert.Equal(t, models.JobStatusInProgress, stored.Status)
	assert.Equal(t, winners[0], *stored.ProviderID)
	assert.Equal(t, 1, stored.AcceptedCount())
	for _, pid := range providers {
		want := models.ApplicationStatusRejected
		if pid == winners[0] {
			want = models.ApplicationStatusAccepted
		}
		assert.Equal(t, want, f.applicationStatus(job.ID, pid))
	}
}

func TestApply_ConcurrentDuplicates(t *testing.T) {
	f := newFixture(t)
	req := f.requester()
	prov := f.provider()
	job := f.createJob(req.ID)

	var (
		g          errgroup.Group
		mu         sync.Mutex
		successes  int
		duplicates int
	)
	for i := 0; i < 5; i++ {
		g.Go(func() error {
			_, err := f.svc.ApplicationService.Apply(f.db, job.ID, prov.ID, &dto.ApplyRequest{})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case apperrors.HasCode(err, apperrors.CodeDuplicateApplication):
				duplicates++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 1, successes)
	assert.Equal(t, 4, duplicates)

	var count int64
	require.NoError(t, f.db.Model(&models.JobApplication{}).Where("job_id = ?", job.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRejectApplication(t *testing.T) {
	f := newFixture(t)
	req := f.requester()
	p1, p2 := f.provider(), f.provider()
	job := f.createJob(req.ID)
	f.apply(job.ID, p1.ID)
	f.apply(job.ID, p2.ID)

	app, err := f.svc.ApplicationService.RejectApplication(f.db, job.ID, req.ID, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusRejected, app.Status)
	assert.Equal(t, models.ApplicationStatusPending, f.applicationStatus(job.ID, p2.ID))
	assert.Equal(t, models.JobStatusOpen, f.loadJob(job.ID).Status)

	_, err = f.svc.ApplicationService.RejectApplication(f.db, job.ID, req.ID, p1.ID)
	assertCode(t, err, apperrors.CodeInvalidState)

	_, err = f.svc.ApplicationService.RejectApplication(f.db, job.ID, p2.ID, p2.ID)
	assertCode(t, err, apperrors.CodeForbidden)
}

func TestGetJobApplications(t *testing.T) {
	f := newFixture(t)
	req := f.requester()
	admin := f.admin()
	p1, p2 := f.provider(), f.provider()
	job := f.createJob(req.ID)
	f.apply(job.ID, p1.ID)
	f.apply(job.ID, p2.ID)

	apps, err := f.svc.ApplicationService.GetJobApplications(f.db, job.ID, Actor{ID: req.ID, Role: models.UserRoleRequester})
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, p1.ID, apps[0].ProviderID)
	assert.Equal(t, p2.ID, apps[1].ProviderID)

	_, err = f.svc.ApplicationService.GetJobApplications(f.db, job.ID, Actor{ID: admin.ID, Role: models.UserRoleAdmin})
	require.NoError(t, err)

	_, err = f.svc.ApplicationService.GetJobApplications(f.db, job.ID, Actor{ID: p1.ID, Role: models.UserRoleProvider})
	assert.True(t, errors.Is(err, ErrNotJobOwner))
}

func TestGetProviderApplications(t *testing.T) {
	f := newFixture(t)
	req := f.requester()
	prov := f.provider()
	first := f.createJob(req.ID)
	second := f.createJob(req.ID)
	f.apply(first.ID, prov.ID)
	f.apply(second.ID, prov.ID)
	_, err := f.svc.ApplicationService.Hire(f.db, first.ID, req.ID, prov.ID)
	require.NoError(t, err)

	all, err := f.svc.ApplicationService.GetProviderApplications(f.db, prov.ID, "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)

	accepted, err := f.svc.ApplicationService.GetProviderApplications(f.db, prov.ID, models.ApplicationStatusAccepted, 1, 20)
	require.NoError(t, err)
	require.Len(t, accepted.Applications, 1)
	assert.Equal(t, first.ID, accepted.Applications[0].JobID)
}
