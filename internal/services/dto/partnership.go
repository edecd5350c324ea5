package dto

import (
	"time"

	"ecowork_backend/internal/models"
)

type CreateDemandRequest struct {
	CategoryID        string                   `json:"category_id" validate:"required,uuid"`
	CollaborationType models.CollaborationType `json:"collaboration_type" validate:"required,oneof=subcontract joint_project consulting equipment_share"`
	Title             string                   `json:"title" validate:"required,min=3,max=150"`
	Description       string                   `json:"description" validate:"omitempty,max=5000"`
	City              string                   `json:"city" validate:"omitempty,max=100"`
	State             string                   `json:"state" validate:"omitempty,br_state"`
}

type UpdateDemandRequest struct {
	CategoryID        *string                   `json:"category_id,omitempty" validate:"omitempty,uuid"`
	CollaborationType *models.CollaborationType `json:"collaboration_type,omitempty" validate:"omitempty,oneof=subcontract joint_project consulting equipment_share"`
	Title             *string                   `json:"title,omitempty" validate:"omitempty,min=3,max=150"`
	Description       *string                   `json:"description,omitempty" validate:"omitempty,max=5000"`
	City              *string                   `json:"city,omitempty" validate:"omitempty,max=100"`
	State             *string                   `json:"state,omitempty" validate:"omitempty,br_state"`
}

type ListDemandsQuery struct {
	CategoryID        string `form:"category_id" validate:"omitempty,uuid"`
	CollaborationType string `form:"collaboration_type" validate:"omitempty,oneof=subcontract joint_project consulting equipment_share"`
	City              string `form:"city"`
	State             string `form:"state" validate:"omitempty,br_state"`
	Page              int    `form:"page" validate:"omitempty,min=1"`
	PageSize          int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type DemandResponse struct {
	ID                string                   `json:"id"`
	ProfessionalID    string                   `json:"professional_id"`
	CategoryID        string                   `json:"category_id"`
	Category          *CategoryResponse        `json:"category,omitempty"`
	CollaborationType models.CollaborationType `json:"collaboration_type"`
	Title             string                   `json:"title"`
	Description       string                   `json:"description,omitempty"`
	City              string                   `json:"city,omitempty"`
	State             string                   `json:"state,omitempty"`
	Status            models.EngagementStatus  `json:"status"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
}

type DemandListResponse struct {
	Demands  []DemandResponse `json:"demands"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

type PartnershipApplicationResponse struct {
	ID             string                   `json:"id"`
	DemandID       string                   `json:"demand_id"`
	ProfessionalID string                   `json:"professional_id"`
	Message        string                   `json:"message,omitempty"`
	Status         models.ApplicationStatus `json:"status"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

func ToDemandResponse(d *models.PartnershipDemand) DemandResponse {
	resp := DemandResponse{
		ID:                d.ID,
		ProfessionalID:    d.ProfessionalID,
		CategoryID:        d.CategoryID,
		CollaborationType: d.CollaborationType,
		Title:             d.Title,
		Description:       d.Description,
		City:              d.City,
		State:             d.State,
		Status:            d.Status,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
	if d.Category.ID != "" {
		category := ToCategoryResponse(&d.Category)
		resp.Category = &category
	}
	return resp
}

func ToDemandListResponse(demands []models.PartnershipDemand, total int64, page, pageSize int) DemandListResponse {
	items := make([]DemandResponse, 0, len(demands))
	for i := range demands {
		items = append(items, ToDemandResponse(&demands[i]))
	}
	return DemandListResponse{Demands: items, Total: total, Page: page, PageSize: pageSize}
}

func ToPartnershipApplicationResponse(a *models.PartnershipApplication) PartnershipApplicationResponse {
	return PartnershipApplicationResponse{
		ID:             a.ID,
		DemandID:       a.DemandID,
		ProfessionalID: a.ProfessionalID,
		Message:        a.Message,
		Status:         a.Status,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func ToPartnershipApplicationResponses(applications []models.PartnershipApplication) []PartnershipApplicationResponse {
	items := make([]PartnershipApplicationResponse, 0, len(applications))
	for i := range applications {
		items = append(items, ToPartnershipApplicationResponse(&applications[i]))
	}
	return items
}
