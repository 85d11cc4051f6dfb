package services

import (
	"context"

	"maidmatch_backend/internal/models"
	"maidmatch_backend/internal/repositories"
	"maidmatch_backend/internal/services/dto"

	"gorm.io/gorm"
)

// NotificationGateway is informed of state transitions. Notify must not
// block and its failures never reach the caller.
type NotificationGateway interface {
	Notify(ctx context.Context, event models.NotificationEvent, payload models.NotificationPayload)
}

// NoopGateway discards every event.
type NoopGateway struct{}

func (NoopGateway) Notify(context.Context, models.NotificationEvent, models.NotificationPayload) {}

type NotificationService interface {
	GetUserNotifications(db *gorm.DB, userID string, unreadOnly bool, page, pageSize int) (*dto.NotificationListResponse, error)
	MarkAsRead(db *gorm.DB, userID, notificationID string) error
	GetUnreadCount(db *gorm.DB, userID string) (int64, error)
}

type notificationService struct {
	store
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository, opts Options) NotificationService {
	return &notificationService{
		store:            store{timeout: opts.QueryTimeout},
		notificationRepo: notificationRepo,
	}
}

func (s *notificationService) GetUserNotifications(db *gorm.DB, userID string, unreadOnly bool, page, pageSize int) (*dto.NotificationListResponse, error) {
	var (
		items  []models.Notification
		total  int64
		unread int64
	)
	err := s.read(db, func(db *gorm.DB) error {
		var err error
		if items, total, err = s.notificationRepo.FindByUser(db, userID, unreadOnly, page, pageSize); err != nil {
			return err
		}
		unread, err = s.notificationRepo.CountUnread(db, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.NotificationListResponse{
		Notifications: make([]*dto.NotificationResponse, 0, len(items)),
		UnreadCount:   unread,
		Pagination:    dto.NewPagination(total, page, pageSize),
	}
	for i := range items {
		resp.Notifications = append(resp.Notifications, dto.NewNotificationResponse(&items[i]))
	}
	return resp, nil
}

func (s *notificationService) MarkAsRead(db *gorm.DB, userID, notificationID string) error {
	return s.read(db, func(db *gorm.DB) error {
		return s.notificationRepo.MarkAsRead(db, notificationID, userID)
	})
}

func (s *notificationService) GetUnreadCount(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := s.read(db, func(db *gorm.DB) error {
		var err error
		count, err = s.notificationRepo.CountUnread(db, userID)
		return err
	})
	return count, err
}
