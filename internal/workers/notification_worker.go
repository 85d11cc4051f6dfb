package workers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"maidmatch_backend/internal/config"
	"maidmatch_backend/internal/logger"
	"maidmatch_backend/internal/models"
	"maidmatch_backend/internal/repositories"

	"github.com/sony/gobreaker"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const notificationWorkerName = "notification_worker"

type notificationItem struct {
	ctx     context.Context
	event   models.NotificationEvent
	payload models.NotificationPayload
}

// NotificationWorker is the notification gateway. Notify enqueues without
// blocking; a single goroutine persists in-app notifications behind a
// circuit breaker. Every failure is logged and dropped.
type NotificationWorker struct {
	db        *gorm.DB
	repo      repositories.NotificationRepository
	queue     chan notificationItem
	breaker   *gobreaker.CircuitBreaker
	timeout   time.Duration
	done      chan struct{}
	startOnce sync.Once
}

func NewNotificationWorker(db *gorm.DB, repo repositories.NotificationRepository, cfg *config.Config) *NotificationWorker {
	n := cfg.Notifications
	minRequests := n.Breaker.MinRequests
	failureRatio := n.Breaker.FailureRatio

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        notificationWorkerName,
		MaxRequests: n.Breaker.MaxRequests,
		Interval:    time.Duration(n.Breaker.IntervalSec) * time.Second,
		Timeout:     time.Duration(n.Breaker.TimeoutSec) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= minRequests && ratio >= failureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	queueSize := n.QueueSize
	if queueSize <= 0 {
		queueSize = 1
	}
	timeout := cfg.QueryTimeout()
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &NotificationWorker{
		db:      db,
		repo:    repo,
		queue:   make(chan notificationItem, queueSize),
		breaker: breaker,
		timeout: timeout,
		done:    make(chan struct{}),
	}
}

// Notify never blocks: with a full queue the event is dropped.
func (w *NotificationWorker) Notify(ctx context.Context, event models.NotificationEvent, payload models.NotificationPayload) {
	if ctx == nil {
		ctx = context.Background()
	}
	item := notificationItem{
		// detached so request cancellation does not drop delivery
		ctx:     context.WithoutCancel(ctx),
		event:   event,
		payload: payload,
	}
	select {
	case w.queue <- item:
	default:
		logger.CtxWarn(ctx, "notification queue full, event dropped",
			"event", event, "recipients", len(payload.Recipients))
	}
}

// Start launches the delivery loop. It stops when ctx is done, after
// draining what is already queued.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.startOnce.Do(func() {
		go w.run(ctx)
	})
}

// Done is closed when the delivery loop has exited.
func (w *NotificationWorker) Done() <-chan struct{} {
	return w.done
}

func (w *NotificationWorker) run(ctx context.Context) {
	defer close(w.done)
	logger.WorkerLog(notificationWorkerName, "start", nil)

	for {
		select {
		case <-ctx.Done():
			w.drain()
			logger.WorkerLog(notificationWorkerName, "stop", nil)
			return
		case item := <-w.queue:
			w.deliver(item)
		}
	}
}

func (w *NotificationWorker) drain() {
	for {
		select {
		case item := <-w.queue:
			w.deliver(item)
		default:
			return
		}
	}
}

func (w *NotificationWorker) deliver(item notificationItem) {
	var data datatypes.JSON
	if item.payload.Data != nil {
		raw, err := json.Marshal(item.payload.Data)
		if err != nil {
			logger.CtxWarn(item.ctx, "notification payload not serializable", "event", item.event, "error", err.Error())
		} else {
			data = datatypes.JSON(raw)
		}
	}

	for _, recipient := range item.payload.Recipients {
		n := &models.Notification{
			UserID:  recipient,
			Event:   item.event,
			Title:   item.payload.Title,
			Message: item.payload.Message,
			Data:    data,
		}
		_, err := w.breaker.Execute(func() (interface{}, error) {
			ctx, cancel := context.WithTimeout(item.ctx, w.timeout)
			defer cancel()
			return nil, w.repo.Create(w.db.WithContext(ctx), n)
		})
		if err != nil {
			logger.WorkerLog(notificationWorkerName, "deliver", err,
				"event", item.event, "recipient", recipient, "request_id", logger.GetRequestID(item.ctx))
		}
	}
}
