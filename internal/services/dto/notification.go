package dto

import (
	"encoding/json"
	"time"

	"maidmatch_backend/internal/models"
)

type NotificationResponse struct {
	ID        string                   `json:"id"`
	Event     models.NotificationEvent `json:"event"`
	Title     string                   `json:"title"`
	Message   string                   `json:"message"`
	Data      json.RawMessage          `json:"data,omitempty"`
	IsRead    bool                     `json:"is_read"`
	ReadAt    *time.Time               `json:"read_at,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	UnreadCount   int64                   `json:"unread_count"`
	Pagination
}

func NewNotificationResponse(n *models.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:        n.ID,
		Event:     n.Event,
		Title:     n.Title,
		Message:   n.Message,
		Data:      json.RawMessage(n.Data),
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
