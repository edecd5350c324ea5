package dto

import (
	"time"

	"ecowork_backend/internal/models"
)

type CreateApplicationRequest struct {
	Message string `json:"message" validate:"omitempty,max=2000"`
}

type ApplicationResponse struct {
	ID             string                   `json:"id"`
	ProjectID      string                   `json:"project_id"`
	ProfessionalID string                   `json:"professional_id"`
	Message        string                   `json:"message,omitempty"`
	Status         models.ApplicationStatus `json:"status"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

func ToApplicationResponse(a *models.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:             a.ID,
		ProjectID:      a.ProjectID,
		ProfessionalID: a.ProfessionalID,
		Message:        a.Message,
		Status:         a.Status,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func ToApplicationResponses(applications []models.Application) []ApplicationResponse {
	items := make([]ApplicationResponse, 0, len(applications))
	for i := range applications {
		items = append(items, ToApplicationResponse(&applications[i]))
	}
	return items
}
