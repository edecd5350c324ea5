package repositories

import (
	"errors"
	"time"

	"ecowork_backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	Create(db *gorm.DB, notification *models.Notification) error
	CreateBatch(db *gorm.DB, notifications []models.Notification) error
	ListByUser(db *gorm.DB, userID string, unreadOnly bool, page, pageSize int) ([]models.Notification, int64, error)
	MarkRead(db *gorm.DB, id, userID string, at time.Time) error
	MarkAllRead(db *gorm.DB, userID string, at time.Time) (int64, error)
	UnreadCount(db *gorm.DB, userID string) (int64, error)
}

type NotificationRepositoryImpl struct{}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{}
}

func (r *NotificationRepositoryImpl) Create(db *gorm.DB, notification *models.Notification) error {
	return db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) CreateBatch(db *gorm.DB, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return db.Create(&notifications).Error
}

func (r *NotificationRepositoryImpl) ListByUser(db *gorm.DB, userID string, unreadOnly bool, page, pageSize int) ([]models.Notification, int64, error) {
	query := db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepositoryImpl) MarkRead(db *gorm.DB, id, userID string, at time.Time) error {
	result := db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", id, userID).
		Update("read_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllRead(db *gorm.DB, userID string, at time.Time) (int64, error) {
	result := db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", at)
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) UnreadCount(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}
