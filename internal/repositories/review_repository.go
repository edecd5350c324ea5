package repositories

import (
	"errors"

	"ecowork_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("review already exists for this engagement")
)

type RatingStats struct {
	Average float64
	Count   int64
}

type ReviewRepository interface {
	Create(db *gorm.DB, review *models.Review) error
	FindByID(db *gorm.DB, id string) (*models.Review, error)
	ListByReviewed(db *gorm.DB, reviewedID string, page, pageSize int) ([]models.Review, int64, error)
	ListByEngagement(db *gorm.DB, kind models.EngagementKind, engagementID string) ([]models.Review, error)
	Stats(db *gorm.DB, reviewedID string) (RatingStats, error)
}

type ReviewRepositoryImpl struct{}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

func (r *ReviewRepositoryImpl) Create(db *gorm.DB, review *models.Review) error {
	if err := db.Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrReviewAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ReviewRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Review, error) {
	var review models.Review
	err := db.First(&review, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) ListByReviewed(db *gorm.DB, reviewedID string, page, pageSize int) ([]models.Review, int64, error) {
	query := db.Model(&models.Review{}).Where("reviewed_id = ?", reviewedID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *ReviewRepositoryImpl) ListByEngagement(db *gorm.DB, kind models.EngagementKind, engagementID string) ([]models.Review, error) {
	var reviews []models.Review
	err := db.Where("engagement_kind = ? AND engagement_id = ?", kind, engagementID).
		Order("created_at ASC").
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepositoryImpl) Stats(db *gorm.DB, reviewedID string) (RatingStats, error) {
	var stats RatingStats
	err := db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("reviewed_id = ?", reviewedID).
		Scan(&stats).Error
	return stats, err
}
