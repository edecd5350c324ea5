package dto

import (
	"encoding/json"
	"time"

	"ecowork_backend/internal/models"
)

type CreatePlanRequest struct {
	Name     string           `json:"name" validate:"required,min=2,max=100"`
	Price    float64          `json:"price" validate:"min=0"`
	Currency string           `json:"currency" validate:"omitempty,len=3"`
	Duration string           `json:"duration" validate:"required,oneof=monthly yearly unlimited"`
	Features []string         `json:"features" validate:"omitempty"`
	Limits   map[string]int64 `json:"limits" validate:"omitempty"`
}

type UpdatePlanRequest struct {
	Name     *string          `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Price    *float64         `json:"price,omitempty" validate:"omitempty,min=0"`
	Duration *string          `json:"duration,omitempty" validate:"omitempty,oneof=monthly yearly unlimited"`
	Features []string         `json:"features,omitempty"`
	Limits   map[string]int64 `json:"limits,omitempty"`
	IsActive *bool            `json:"is_active,omitempty"`
}

type SubscribeRequest struct {
	PlanID string `json:"plan_id" validate:"required,uuid"`
}

type PlanResponse struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Price    float64          `json:"price"`
	Currency string           `json:"currency"`
	Duration string           `json:"duration"`
	Features []string         `json:"features"`
	Limits   map[string]int64 `json:"limits"`
	IsActive bool             `json:"is_active"`
}

type SubscriptionResponse struct {
	ID          string                    `json:"id"`
	PlanID      string                    `json:"plan_id"`
	Plan        *PlanResponse             `json:"plan,omitempty"`
	Status      models.SubscriptionStatus `json:"status"`
	StartDate   time.Time                 `json:"start_date"`
	EndDate     *time.Time                `json:"end_date,omitempty"`
	CancelledAt *time.Time                `json:"cancelled_at,omitempty"`
}

func ToPlanResponse(p *models.SubscriptionPlan) PlanResponse {
	features := []string{}
	if len(p.Features) > 0 {
		_ = json.Unmarshal(p.Features, &features)
	}
	limits := map[string]int64{}
	if len(p.Limits) > 0 {
		_ = json.Unmarshal(p.Limits, &limits)
	}
	return PlanResponse{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Currency: p.Currency,
		Duration: p.Duration,
		Features: features,
		Limits:   limits,
		IsActive: p.IsActive,
	}
}

func ToSubscriptionResponse(s *models.UserSubscription) SubscriptionResponse {
	resp := SubscriptionResponse{
		ID:          s.ID,
		PlanID:      s.PlanID,
		Status:      s.Status,
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
		CancelledAt: s.CancelledAt,
	}
	if s.Plan.ID != "" {
		plan := ToPlanResponse(&s.Plan)
		resp.Plan = &plan
	}
	return resp
}
