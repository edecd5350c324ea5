package dto

import (
	"encoding/json"
	"time"

	"ecowork_backend/internal/models"
)

type UpdateClientProfileRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	CompanyName *string `json:"company_name,omitempty" validate:"omitempty,max=150"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	City        *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State       *string `json:"state,omitempty" validate:"omitempty,br_state"`
}

type UpdateProfessionalProfileRequest struct {
	Name           *string  `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	DocumentNumber *string  `json:"document_number,omitempty" validate:"omitempty,max=20"`
	Phone          *string  `json:"phone,omitempty" validate:"omitempty,max=20"`
	City           *string  `json:"city,omitempty" validate:"omitempty,max=100"`
	State          *string  `json:"state,omitempty" validate:"omitempty,br_state"`
	Bio            *string  `json:"bio,omitempty" validate:"omitempty,max=2000"`
	Specialties    []string `json:"specialties,omitempty" validate:"omitempty,dive,slug"`
	IsPublic       *bool    `json:"is_public,omitempty"`
}

type ListProfessionalsQuery struct {
	City      string `form:"city"`
	State     string `form:"state" validate:"omitempty,br_state"`
	Specialty string `form:"specialty" validate:"omitempty,slug"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type ClientProfileResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	CompanyName string    `json:"company_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProfessionalProfileResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	DocumentNumber string    `json:"document_number,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	City           string    `json:"city,omitempty"`
	State          string    `json:"state,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	Specialties    []string  `json:"specialties"`
	AverageRating  float64   `json:"average_rating"`
	ReviewCount    int       `json:"review_count"`
	IsPublic       bool      `json:"is_public"`
	CreatedAt      time.Time `json:"created_at"`
}

func ToClientProfileResponse(p *models.ClientProfile) ClientProfileResponse {
	return ClientProfileResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		CompanyName: p.CompanyName,
		Phone:       p.Phone,
		City:        p.City,
		State:       p.State,
		CreatedAt:   p.CreatedAt,
	}
}

func ToProfessionalProfileResponse(p *models.ProfessionalProfile) ProfessionalProfileResponse {
	specialties := []string{}
	if len(p.Specialties) > 0 {
		_ = json.Unmarshal(p.Specialties, &specialties)
	}
	return ProfessionalProfileResponse{
		ID:             p.ID,
		UserID:         p.UserID,
		Name:           p.Name,
		DocumentNumber: p.DocumentNumber,
		Phone:          p.Phone,
		City:           p.City,
		State:          p.State,
		Bio:            p.Bio,
		Specialties:    specialties,
		AverageRating:  p.AverageRating,
		ReviewCount:    p.ReviewCount,
		IsPublic:       p.IsPublic,
		CreatedAt:      p.CreatedAt,
	}
}
