package dto

import (
	"time"

	"ecowork_backend/internal/models"
)

type NotificationResponse struct {
	ID        string                  `json:"id"`
	Type      models.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Body      string                  `json:"body,omitempty"`
	ReadAt    *time.Time              `json:"read_at,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int64                  `json:"total"`
	Unread        int64                  `json:"unread"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}

func ToNotificationResponse(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Body,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

func ToNotificationListResponse(notifications []models.Notification, total, unread int64, page, pageSize int) NotificationListResponse {
	items := make([]NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, ToNotificationResponse(&notifications[i]))
	}
	return NotificationListResponse{Notifications: items, Total: total, Unread: unread, Page: page, PageSize: pageSize}
}
