package services

import (
	"errors"
	"time"

	"ecowork_backend/internal/repositories"
	"ecowork_backend/internal/services/dto"
	"ecowork_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type NotificationService interface {
	List(db *gorm.DB, userID string, unreadOnly bool, page, pageSize int) (*dto.NotificationListResponse, error)
	MarkRead(db *gorm.DB, userID, notificationID string) error
	MarkAllRead(db *gorm.DB, userID string) (int64, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) List(db *gorm.DB, userID string, unreadOnly bool, page, pageSize int) (*dto.NotificationListResponse, error) {
	page = normalizePage(page)
	pageSize = normalizePageSize(pageSize)

	notifications, total, err := s.notificationRepo.ListByUser(db, userID, unreadOnly, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	unread, err := s.notificationRepo.UnreadCount(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.ToNotificationListResponse(notifications, total, unread, page, pageSize)
	return &resp, nil
}

func (s *notificationService) MarkRead(db *gorm.DB, userID, notificationID string) error {
	err := s.notificationRepo.MarkRead(db, notificationID, userID, time.Now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(db *gorm.DB, userID string) (int64, error) {
	marked, err := s.notificationRepo.MarkAllRead(db, userID, time.Now())
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return marked, nil
}
