package dto

import (
	"time"

	"ecowork_backend/internal/models"
)

type CreateProjectRequest struct {
	CategoryID  string   `json:"category_id" validate:"required,uuid"`
	Title       string   `json:"title" validate:"required,min=3,max=150"`
	Description string   `json:"description" validate:"omitempty,max=5000"`
	City        string   `json:"city" validate:"omitempty,max=100"`
	State       string   `json:"state" validate:"omitempty,br_state"`
	BudgetMin   *float64 `json:"budget_min,omitempty" validate:"omitempty,min=0"`
	BudgetMax   *float64 `json:"budget_max,omitempty" validate:"omitempty,min=0,gtefield=BudgetMin"`
}

type UpdateProjectRequest struct {
	CategoryID  *string  `json:"category_id,omitempty" validate:"omitempty,uuid"`
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=3,max=150"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	City        *string  `json:"city,omitempty" validate:"omitempty,max=100"`
	State       *string  `json:"state,omitempty" validate:"omitempty,br_state"`
	BudgetMin   *float64 `json:"budget_min,omitempty" validate:"omitempty,min=0"`
	BudgetMax   *float64 `json:"budget_max,omitempty" validate:"omitempty,min=0"`
}

type TransitionRequest struct {
	Status models.EngagementStatus `json:"status" validate:"required,engagement_status"`
}

type ListProjectsQuery struct {
	CategoryID string   `form:"category_id" validate:"omitempty,uuid"`
	City       string   `form:"city"`
	State      string   `form:"state" validate:"omitempty,br_state"`
	BudgetMin  *float64 `form:"budget_min" validate:"omitempty,min=0"`
	BudgetMax  *float64 `form:"budget_max" validate:"omitempty,min=0"`
	Page       int      `form:"page" validate:"omitempty,min=1"`
	PageSize   int      `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type ProjectResponse struct {
	ID          string                  `json:"id"`
	ClientID    string                  `json:"client_id"`
	CategoryID  string                  `json:"category_id"`
	Category    *CategoryResponse       `json:"category,omitempty"`
	Title       string                  `json:"title"`
	Description string                  `json:"description,omitempty"`
	City        string                  `json:"city,omitempty"`
	State       string                  `json:"state,omitempty"`
	BudgetMin   *float64                `json:"budget_min,omitempty"`
	BudgetMax   *float64                `json:"budget_max,omitempty"`
	Status      models.EngagementStatus `json:"status"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

func ToProjectResponse(p *models.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:          p.ID,
		ClientID:    p.ClientID,
		CategoryID:  p.CategoryID,
		Title:       p.Title,
		Description: p.Description,
		City:        p.City,
		State:       p.State,
		BudgetMin:   p.BudgetMin,
		BudgetMax:   p.BudgetMax,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Category.ID != "" {
		category := ToCategoryResponse(&p.Category)
		resp.Category = &category
	}
	return resp
}

func ToProjectListResponse(projects []models.Project, total int64, page, pageSize int) ProjectListResponse {
	items := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		items = append(items, ToProjectResponse(&projects[i]))
	}
	return ProjectListResponse{Projects: items, Total: total, Page: page, PageSize: pageSize}
}
