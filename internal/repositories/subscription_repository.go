package repositories

import (
	"errors"
	"time"

	"ecowork_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPlanNotFound         = errors.New("subscription plan not found")
	ErrPlanAlreadyExists    = errors.New("subscription plan already exists")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrNoActiveSubscription = errors.New("user has no active subscription")
)

type SubscriptionRepository interface {
	CreatePlan(db *gorm.DB, plan *models.SubscriptionPlan) error
	FindPlanByID(db *gorm.DB, id string) (*models.SubscriptionPlan, error)
	FindPlanByName(db *gorm.DB, name string) (*models.SubscriptionPlan, error)
	ListPlans(db *gorm.DB, activeOnly bool) ([]models.SubscriptionPlan, error)
	UpdatePlan(db *gorm.DB, plan *models.SubscriptionPlan) error
	DeactivatePlan(db *gorm.DB, id string) error

	CreateSubscription(db *gorm.DB, subscription *models.UserSubscription) error
	FindActiveByUser(db *gorm.DB, userID string) (*models.UserSubscription, error)
	ListByUser(db *gorm.DB, userID string) ([]models.UserSubscription, error)
	Cancel(db *gorm.DB, id string, at time.Time) error
	// ExpireDue flips every active subscription whose end date has passed
	// and returns how many it touched.
	ExpireDue(db *gorm.DB, now time.Time) (int64, error)
}

type SubscriptionRepositoryImpl struct{}

func NewSubscriptionRepository() SubscriptionRepository {
	return &SubscriptionRepositoryImpl{}
}

func (r *SubscriptionRepositoryImpl) CreatePlan(db *gorm.DB, plan *models.SubscriptionPlan) error {
	if err := db.Create(plan).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrPlanAlreadyExists
		}
		return err
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) FindPlanByID(db *gorm.DB, id string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := db.First(&plan, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *SubscriptionRepositoryImpl) FindPlanByName(db *gorm.DB, name string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := db.First(&plan, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *SubscriptionRepositoryImpl) ListPlans(db *gorm.DB, activeOnly bool) ([]models.SubscriptionPlan, error) {
	query := db.Model(&models.SubscriptionPlan{})
	if activeOnly {
		query = query.Where("is_active = true")
	}

	var plans []models.SubscriptionPlan
	err := query.Order("price ASC").Find(&plans).Error
	return plans, err
}

func (r *SubscriptionRepositoryImpl) UpdatePlan(db *gorm.DB, plan *models.SubscriptionPlan) error {
	return db.Save(plan).Error
}

func (r *SubscriptionRepositoryImpl) DeactivatePlan(db *gorm.DB, id string) error {
	result := db.Model(&models.SubscriptionPlan{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) CreateSubscription(db *gorm.DB, subscription *models.UserSubscription) error {
	return db.Create(subscription).Error
}

func (r *SubscriptionRepositoryImpl) FindActiveByUser(db *gorm.DB, userID string) (*models.UserSubscription, error) {
	var subscription models.UserSubscription
	err := db.Preload("Plan").
		First(&subscription, "user_id = ? AND status = ?", userID, models.SubscriptionStatusActive).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveSubscription
	}
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (r *SubscriptionRepositoryImpl) ListByUser(db *gorm.DB, userID string) ([]models.UserSubscription, error) {
	var subscriptions []models.UserSubscription
	err := db.Preload("Plan").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subscriptions).Error
	return subscriptions, err
}

func (r *SubscriptionRepositoryImpl) Cancel(db *gorm.DB, id string, at time.Time) error {
	result := db.Model(&models.UserSubscription{}).
		Where("id = ? AND status = ?", id, models.SubscriptionStatusActive).
		Updates(map[string]interface{}{
			"status":       models.SubscriptionStatusCancelled,
			"cancelled_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) ExpireDue(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Model(&models.UserSubscription{}).
		Where("status = ? AND end_date IS NOT NULL AND end_date < ?", models.SubscriptionStatusActive, now).
		Update("status", models.SubscriptionStatusExpired)
	return result.RowsAffected, result.Error
}
