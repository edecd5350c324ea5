package services

import (
	"errors"

	"ecowork_backend/internal/logger"
	"ecowork_backend/internal/models"
	"ecowork_backend/internal/repositories"
	"ecowork_backend/internal/services/dto"
	"ecowork_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ReviewService interface {
	// Create accepts a review from either participant of a completed
	// engagement; the counterpart is derived, never client-supplied.
	Create(db *gorm.DB, reviewerID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	ListForUser(db *gorm.DB, userID string, page, pageSize int) (*dto.ReviewListResponse, error)
	ListForEngagement(db *gorm.DB, kind models.EngagementKind, engagementID string) ([]dto.ReviewResponse, error)
}

type reviewService struct {
	reviewRepo       repositories.ReviewRepository
	projectRepo      repositories.ProjectRepository
	applicationRepo  repositories.ApplicationRepository
	partnershipRepo  repositories.PartnershipRepository
	profileRepo      repositories.ProfileRepository
	notificationRepo repositories.NotificationRepository
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	projectRepo repositories.ProjectRepository,
	applicationRepo repositories.ApplicationRepository,
	partnershipRepo repositories.PartnershipRepository,
	profileRepo repositories.ProfileRepository,
	notificationRepo repositories.NotificationRepository,
) ReviewService {
	return &reviewService{
		reviewRepo:       reviewRepo,
		projectRepo:      projectRepo,
		applicationRepo:  applicationRepo,
		partnershipRepo:  partnershipRepo,
		profileRepo:      profileRepo,
		notificationRepo: notificationRepo,
	}
}

func (s *reviewService) Create(db *gorm.DB, reviewerID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	reviewedID, err := s.resolveCounterpart(db, req.EngagementKind, req.EngagementID, reviewerID)
	if err != nil {
		return nil, err
	}
	if reviewedID == reviewerID {
		return nil, apperrors.ErrSelfReviewNotAllowed
	}

	review := &models.Review{
		EngagementKind: req.EngagementKind,
		EngagementID:   req.EngagementID,
		ReviewerID:     reviewerID,
		ReviewedID:     reviewedID,
		Rating:         req.Rating,
		Comment:        req.Comment,
	}
	if err := s.reviewRepo.Create(db, review); err != nil {
		if errors.Is(err, repositories.ErrReviewAlreadyExists) {
			return nil, apperrors.ErrReviewAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	// The denormalized rating on the professional profile is refreshed
	// outside the uniqueness path; a failure only staggers the cache.
	if err := s.profileRepo.RefreshRatingCache(db, reviewedID); err != nil {
		logger.Warn("rating cache refresh failed", "user_id", reviewedID, "error", err)
	}

	notification := &models.Notification{
		UserID: reviewedID,
		Type:   models.NotificationReviewReceived,
		Title:  "New review",
		Body:   "You received a new review",
	}
	if err := s.notificationRepo.Create(db, notification); err != nil {
		logger.Warn("notification write failed", "user_id", reviewedID, "error", err)
	}

	resp := dto.ToReviewResponse(review)
	return &resp, nil
}

func (s *reviewService) ListForUser(db *gorm.DB, userID string, page, pageSize int) (*dto.ReviewListResponse, error) {
	page = normalizePage(page)
	pageSize = normalizePageSize(pageSize)

	reviews, total, err := s.reviewRepo.ListByReviewed(db, userID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	stats, err := s.reviewRepo.Stats(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.ReviewListResponse{
		Reviews:       dto.ToReviewResponses(reviews),
		Total:         total,
		AverageRating: stats.Average,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *reviewService) ListForEngagement(db *gorm.DB, kind models.EngagementKind, engagementID string) ([]dto.ReviewResponse, error) {
	reviews, err := s.reviewRepo.ListByEngagement(db, kind, engagementID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.ToReviewResponses(reviews), nil
}

// resolveCounterpart checks the engagement is completed, the reviewer
// took part in it, and returns the other participant.
func (s *reviewService) resolveCounterpart(db *gorm.DB, kind models.EngagementKind, engagementID, reviewerID string) (string, error) {
	switch kind {
	case models.EngagementKindProject:
		project, err := s.projectRepo.FindByID(db, engagementID)
		if err != nil {
			return "", apperrors.ErrNotFound(err)
		}
		if project.Status != models.EngagementStatusCompleted {
			return "", apperrors.ErrEngagementNotCompleted
		}

		accepted, err := s.applicationRepo.FindAccepted(db, engagementID)
		if err != nil {
			if errors.Is(err, repositories.ErrApplicationNotFound) {
				return "", apperrors.ErrInvalidOperation("review", "Engagement has no accepted professional")
			}
			return "", apperrors.InternalError(err)
		}

		switch reviewerID {
		case project.ClientID:
			return accepted.ProfessionalID, nil
		case accepted.ProfessionalID:
			return project.ClientID, nil
		default:
			return "", apperrors.ErrInsufficientPermissions
		}

	case models.EngagementKindPartnership:
		demand, err := s.partnershipRepo.FindDemandByID(db, engagementID)
		if err != nil {
			return "", apperrors.ErrNotFound(err)
		}
		if demand.Status != models.EngagementStatusCompleted {
			return "", apperrors.ErrEngagementNotCompleted
		}

		accepted, err := s.partnershipRepo.FindAcceptedApplication(db, engagementID)
		if err != nil {
			if errors.Is(err, repositories.ErrPartnershipApplicationNotFound) {
				return "", apperrors.ErrInvalidOperation("review", "Engagement has no accepted partner")
			}
			return "", apperrors.InternalError(err)
		}

		switch reviewerID {
		case demand.ProfessionalID:
			return accepted.ProfessionalID, nil
		case accepted.ProfessionalID:
			return demand.ProfessionalID, nil
		default:
			return "", apperrors.ErrInsufficientPermissions
		}

	default:
		return "", apperrors.NewBadRequestError("unknown engagement kind")
	}
}
