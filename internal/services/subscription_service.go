package services

import (
	"encoding/json"
	"errors"
	"time"

	"ecowork_backend/internal/models"
	"ecowork_backend/internal/repositories"
	"ecowork_backend/internal/services/dto"
	"ecowork_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// Limit keys understood by CheckLimit. A plan without the key, or with
// a non-positive value, is treated as unlimited.
const (
	LimitOpenProjects         = "open_projects"
	LimitOpenDemands          = "open_demands"
	LimitApplicationsPerMonth = "applications_per_month"
)

type SubscriptionService interface {
	// Plans (admin)
	CreatePlan(db *gorm.DB, req *dto.CreatePlanRequest) (*dto.PlanResponse, error)
	UpdatePlan(db *gorm.DB, id string, req *dto.UpdatePlanRequest) (*dto.PlanResponse, error)
	DeactivatePlan(db *gorm.DB, id string) error
	ListPlans(db *gorm.DB, activeOnly bool) ([]dto.PlanResponse, error)

	// User subscriptions
	Subscribe(db *gorm.DB, userID string, req *dto.SubscribeRequest) (*dto.SubscriptionResponse, error)
	GetMySubscription(db *gorm.DB, userID string) (*dto.SubscriptionResponse, error)
	CancelMySubscription(db *gorm.DB, userID string) error

	// CheckLimit returns ErrSubscriptionLimit when the user's plan caps
	// the feature at or below the current usage.
	CheckLimit(db *gorm.DB, userID, limitKey string, currentUsage int64) error
}

type subscriptionService struct {
	subscriptionRepo repositories.SubscriptionRepository
}

func NewSubscriptionService(subscriptionRepo repositories.SubscriptionRepository) SubscriptionService {
	return &subscriptionService{subscriptionRepo: subscriptionRepo}
}

func (s *subscriptionService) CreatePlan(db *gorm.DB, req *dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	features, err := json.Marshal(req.Features)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	limits, err := json.Marshal(req.Limits)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	currency := req.Currency
	if currency == "" {
		currency = "BRL"
	}

	plan := &models.SubscriptionPlan{
		Name:     req.Name,
		Price:    req.Price,
		Currency: currency,
		Duration: req.Duration,
		Features: features,
		Limits:   limits,
		IsActive: true,
	}
	if err := s.subscriptionRepo.CreatePlan(db, plan); err != nil {
		if errors.Is(err, repositories.ErrPlanAlreadyExists) {
			return nil, apperrors.ErrAlreadyExists(err)
		}
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToPlanResponse(plan)
	return &resp, nil
}

func (s *subscriptionService) UpdatePlan(db *gorm.DB, id string, req *dto.UpdatePlanRequest) (*dto.PlanResponse, error) {
	plan, err := s.subscriptionRepo.FindPlanByID(db, id)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	if req.Name != nil {
		plan.Name = *req.Name
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.Duration != nil {
		plan.Duration = *req.Duration
	}
	if req.Features != nil {
		raw, err := json.Marshal(req.Features)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		plan.Features = raw
	}
	if req.Limits != nil {
		raw, err := json.Marshal(req.Limits)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		plan.Limits = raw
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}

	if err := s.subscriptionRepo.UpdatePlan(db, plan); err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToPlanResponse(plan)
	return &resp, nil
}

func (s *subscriptionService) DeactivatePlan(db *gorm.DB, id string) error {
	if err := s.subscriptionRepo.DeactivatePlan(db, id); err != nil {
		if errors.Is(err, repositories.ErrPlanNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *subscriptionService) ListPlans(db *gorm.DB, activeOnly bool) ([]dto.PlanResponse, error) {
	plans, err := s.subscriptionRepo.ListPlans(db, activeOnly)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	items := make([]dto.PlanResponse, 0, len(plans))
	for i := range plans {
		items = append(items, dto.ToPlanResponse(&plans[i]))
	}
	return items, nil
}

func (s *subscriptionService) Subscribe(db *gorm.DB, userID string, req *dto.SubscribeRequest) (*dto.SubscriptionResponse, error) {
	plan, err := s.subscriptionRepo.FindPlanByID(db, req.PlanID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if !plan.IsActive {
		return nil, apperrors.ErrInvalidOperation("subscription", "Plan is no longer available")
	}

	var subscription *models.UserSubscription
	err = db.Transaction(func(tx *gorm.DB) error {
		// At most one active subscription per user: cancel the current
		// one before starting the new.
		if current, err := s.subscriptionRepo.FindActiveByUser(tx, userID); err == nil {
			if err := s.subscriptionRepo.Cancel(tx, current.ID, time.Now()); err != nil {
				return apperrors.InternalError(err)
			}
		}

		subscription = &models.UserSubscription{
			UserID:    userID,
			PlanID:    plan.ID,
			Status:    models.SubscriptionStatusActive,
			StartDate: time.Now(),
			EndDate:   planEndDate(plan.Duration, time.Now()),
		}
		if err := s.subscriptionRepo.CreateSubscription(tx, subscription); err != nil {
			return apperrors.InternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	subscription.Plan = *plan
	resp := dto.ToSubscriptionResponse(subscription)
	return &resp, nil
}

func (s *subscriptionService) GetMySubscription(db *gorm.DB, userID string) (*dto.SubscriptionResponse, error) {
	subscription, err := s.subscriptionRepo.FindActiveByUser(db, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	resp := dto.ToSubscriptionResponse(subscription)
	return &resp, nil
}

func (s *subscriptionService) CancelMySubscription(db *gorm.DB, userID string) error {
	subscription, err := s.subscriptionRepo.FindActiveByUser(db, userID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}
	if err := s.subscriptionRepo.Cancel(db, subscription.ID, time.Now()); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *subscriptionService) CheckLimit(db *gorm.DB, userID, limitKey string, currentUsage int64) error {
	subscription, err := s.subscriptionRepo.FindActiveByUser(db, userID)
	if err != nil {
		// No subscription row means no caps apply.
		if errors.Is(err, repositories.ErrNoActiveSubscription) {
			return nil
		}
		return apperrors.InternalError(err)
	}

	limit := planLimit(&subscription.Plan, limitKey)
	if limit > 0 && currentUsage >= limit {
		return apperrors.ErrSubscriptionLimit
	}
	return nil
}

func planLimit(plan *models.SubscriptionPlan, key string) int64 {
	if len(plan.Limits) == 0 {
		return 0
	}
	limits := map[string]int64{}
	if err := json.Unmarshal(plan.Limits, &limits); err != nil {
		return 0
	}
	return limits[key]
}

func planEndDate(duration string, from time.Time) *time.Time {
	var end time.Time
	switch duration {
	case "monthly":
		end = from.AddDate(0, 1, 0)
	case "yearly":
		end = from.AddDate(1, 0, 0)
	default:
		return nil
	}
	return &end
}
