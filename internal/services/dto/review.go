package dto

import (
	"time"

	"ecowork_backend/internal/models"
)

type CreateReviewRequest struct {
	EngagementKind models.EngagementKind `json:"engagement_kind" validate:"required,oneof=project partnership"`
	EngagementID   string                `json:"engagement_id" validate:"required,uuid"`
	Rating         int                   `json:"rating" validate:"required,min=1,max=5"`
	Comment        string                `json:"comment" validate:"omitempty,max=2000"`
}

type ReviewResponse struct {
	ID             string                `json:"id"`
	EngagementKind models.EngagementKind `json:"engagement_kind"`
	EngagementID   string                `json:"engagement_id"`
	ReviewerID     string                `json:"reviewer_id"`
	ReviewedID     string                `json:"reviewed_id"`
	Rating         int                   `json:"rating"`
	Comment        string                `json:"comment,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

type ReviewListResponse struct {
	Reviews       []ReviewResponse `json:"reviews"`
	Total         int64            `json:"total"`
	AverageRating float64          `json:"average_rating"`
	Page          int              `json:"page"`
	PageSize      int              `json:"page_size"`
}

func ToReviewResponse(r *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:             r.ID,
		EngagementKind: r.EngagementKind,
		EngagementID:   r.EngagementID,
		ReviewerID:     r.ReviewerID,
		ReviewedID:     r.ReviewedID,
		Rating:         r.Rating,
		Comment:        r.Comment,
		CreatedAt:      r.CreatedAt,
	}
}

func ToReviewResponses(reviews []models.Review) []ReviewResponse {
	items := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, ToReviewResponse(&reviews[i]))
	}
	return items
}
