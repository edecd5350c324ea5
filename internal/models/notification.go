package models

import "time"

type NotificationType string

const (
	NotificationApplicationReceived NotificationType = "application_received"
	NotificationApplicationAccepted NotificationType = "application_accepted"
	NotificationApplicationRejected NotificationType = "application_rejected"
	NotificationNewMessage          NotificationType = "new_message"
	NotificationReviewReceived      NotificationType = "review_received"
)

type Notification struct {
	BaseModel
	UserID string           `gorm:"not null;index"`
	Type   NotificationType `gorm:"type:varchar(40);not null"`
	Title  string           `gorm:"not null"`
	Body   string           `gorm:"type:text"`
	ReadAt *time.Time
}
