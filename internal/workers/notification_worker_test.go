package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"maidmatch_backend/internal/logger"
	"maidmatch_backend/internal/models"
	"maidmatch_backend/internal/repositories"
	"maidmatch_backend/internal/testutil"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	logger.Init("test")
}

type failingRepo struct {
	repositories.NotificationRepository
	calls atomic.Int32
}

func (f *failingRepo) Create(*gorm.DB, *models.Notification) error {
	f.calls.Add(1)
	return errors.New("store down")
}

func TestNotificationWorker_PersistsPerRecipient(t *testing.T) {
	db := testutil.NewTestDB(t)
	cfg := testutil.TestConfig()
	w := NewNotificationWorker(db, repositories.NewNotificationRepository(), cfg)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	w.Notify(context.Background(), models.EventJobStatusChanged, models.NotificationPayload{
		Recipients: []string{"req-1", "prov-1"},
		Title:      "Job status changed",
		Message:    "Cleaning is now completed",
		Data:       map[string]interface{}{"job_id": "job-1", "to": "completed"},
	})

	cancel()
	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}

	var stored []models.Notification
	require.NoError(t, db.Order("user_id").Find(&stored).Error)
	require.Len(t, stored, 2)
	assert.Equal(t, "prov-1", stored[0].UserID)
	assert.Equal(t, "req-1", stored[1].UserID)
	assert.Equal(t, models.EventJobStatusChanged, stored[0].Event)
	assert.JSONEq(t, `{"job_id":"job-1","to":"completed"}`, string(stored[0].Data))
	assert.False(t, stored[0].IsRead)
}

func TestNotificationWorker_NotifyNeverBlocks(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.Notifications.QueueSize = 1
	// not started: the queue fills after one event
	w := NewNotificationWorker(nil, &failingRepo{}, cfg)

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			w.Notify(context.Background(), models.EventReviewCreated, models.NotificationPayload{Recipients: []string{"u"}})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on a full queue")
	}
	assert.Len(t, w.queue, 1)
}

func TestNotificationWorker_BreakerOpensOnFailures(t *testing.T) {
	db := testutil.NewTestDB(t)
	cfg := testutil.TestConfig()
	cfg.Notifications.Breaker.MinRequests = 3
	cfg.Notifications.Breaker.FailureRatio = 0.5
	cfg.Notifications.Breaker.TimeoutSec = 60

	repo := &failingRepo{}
	w := NewNotificationWorker(db, repo, cfg)

	for i := 0; i < 5; i++ {
		w.deliver(notificationItem{
			ctx:     context.Background(),
			event:   models.EventApplicationCreated,
			payload: models.NotificationPayload{Recipients: []string{"requester"}},
		})
	}

	// three failures trip the breaker, the remaining calls are short-circuited
	assert.Equal(t, int32(3), repo.calls.Load())
	assert.Equal(t, gobreaker.StateOpen, w.breaker.State())
}
