package services

import (
	"errors"
	"fmt"
	"time"

	"ecowork_backend/internal/lifecycle"
	"ecowork_backend/internal/logger"
	"ecowork_backend/internal/models"
	"ecowork_backend/internal/repositories"
	"ecowork_backend/internal/services/dto"
	"ecowork_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type PartnershipService interface {
	CreateDemand(db *gorm.DB, professionalID string, req *dto.CreateDemandRequest) (*dto.DemandResponse, error)
	GetDemand(db *gorm.DB, id string) (*dto.DemandResponse, error)
	UpdateDemand(db *gorm.DB, professionalID, id string, req *dto.UpdateDemandRequest) (*dto.DemandResponse, error)
	DeleteDemand(db *gorm.DB, professionalID, id string) error
	ListMyDemands(db *gorm.DB, professionalID string) ([]dto.DemandResponse, error)
	ListOpenDemands(db *gorm.DB, query *dto.ListDemandsQuery) (*dto.DemandListResponse, error)
	Transition(db *gorm.DB, actorID, id string, req *dto.TransitionRequest) (*dto.DemandResponse, error)

	Apply(db *gorm.DB, professionalID, demandID string, req *dto.CreateApplicationRequest) (*dto.PartnershipApplicationResponse, error)
	ListApplications(db *gorm.DB, ownerID, demandID string) ([]dto.PartnershipApplicationResponse, error)
	ListMyApplications(db *gorm.DB, professionalID string) ([]dto.PartnershipApplicationResponse, error)
	Accept(db *gorm.DB, ownerID, applicationID string) (*dto.PartnershipApplicationResponse, error)
	Reject(db *gorm.DB, ownerID, applicationID string) (*dto.PartnershipApplicationResponse, error)
	Withdraw(db *gorm.DB, professionalID, applicationID string) error
}

type partnershipService struct {
	partnershipRepo     repositories.PartnershipRepository
	categoryRepo        repositories.CategoryRepository
	notificationRepo    repositories.NotificationRepository
	subscriptionService SubscriptionService
}

func NewPartnershipService(
	partnershipRepo repositories.PartnershipRepository,
	categoryRepo repositories.CategoryRepository,
	notificationRepo repositories.NotificationRepository,
	subscriptionService SubscriptionService,
) PartnershipService {
	return &partnershipService{
		partnershipRepo:     partnershipRepo,
		categoryRepo:        categoryRepo,
		notificationRepo:    notificationRepo,
		subscriptionService: subscriptionService,
	}
}

func (s *partnershipService) CreateDemand(db *gorm.DB, professionalID string, req *dto.CreateDemandRequest) (*dto.DemandResponse, error) {
	category, err := s.categoryRepo.FindByID(db, req.CategoryID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if !category.IsActive {
		return nil, apperrors.ErrInvalidOperation("partnership", "Category is not active")
	}

	demand := &models.PartnershipDemand{
		ProfessionalID:    professionalID,
		CategoryID:        req.CategoryID,
		CollaborationType: req.CollaborationType,
		Title:             req.Title,
		Description:       req.Description,
		City:              req.City,
		State:             req.State,
		Status:            models.EngagementStatusDraft,
	}
	if err := s.partnershipRepo.CreateDemand(db, demand); err != nil {
		return nil, apperrors.InternalError(err)
	}

	demand.Category = *category
	resp := dto.ToDemandResponse(demand)
	return &resp, nil
}

func (s *partnershipService) GetDemand(db *gorm.DB, id string) (*dto.DemandResponse, error) {
	demand, err := s.partnershipRepo.FindDemandByID(db, id)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	resp := dto.ToDemandResponse(demand)
	return &resp, nil
}

func (s *partnershipService) UpdateDemand(db *gorm.DB, professionalID, id string, req *dto.UpdateDemandRequest) (*dto.DemandResponse, error) {
	demand, err := s.partnershipRepo.FindDemandByID(db, id)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if demand.ProfessionalID != professionalID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if demand.Status != models.EngagementStatusDraft && demand.Status != models.EngagementStatusOpen {
		return nil, apperrors.ErrInvalidStatus("partnership", "Demand can no longer be edited")
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(db, *req.CategoryID); err != nil {
			return nil, apperrors.ErrNotFound(err)
		}
		demand.CategoryID = *req.CategoryID
	}
	if req.CollaborationType != nil {
		demand.CollaborationType = *req.CollaborationType
	}
	if req.Title != nil {
		demand.Title = *req.Title
	}
	if req.Description != nil {
		demand.Description = *req.Description
	}
	if req.City != nil {
		demand.City = *req.City
	}
	if req.State != nil {
		demand.State = *req.State
	}

	if err := s.partnershipRepo.UpdateDemand(db, demand); err != nil {
		return nil, apperrors.InternalError(err)
	}

	updated, err := s.partnershipRepo.FindDemandByID(db, id)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToDemandResponse(updated)
	return &resp, nil
}

func (s *partnershipService) DeleteDemand(db *gorm.DB, professionalID, id string) error {
	demand, err := s.partnershipRepo.FindDemandByID(db, id)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}
	if demand.ProfessionalID != professionalID {
		return apperrors.ErrInsufficientPermissions
	}
	if demand.Status != models.EngagementStatusDraft {
		return apperrors.ErrInvalidStatus("partnership", "Only draft demands can be deleted")
	}
	if err := s.partnershipRepo.DeleteDemand(db, id); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *partnershipService) ListMyDemands(db *gorm.DB, professionalID string) ([]dto.DemandResponse, error) {
	demands, err := s.partnershipRepo.ListDemandsByProfessional(db, professionalID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	items := make([]dto.DemandResponse, 0, len(demands))
	for i := range demands {
		items = append(items, dto.ToDemandResponse(&demands[i]))
	}
	return items, nil
}

func (s *partnershipService) ListOpenDemands(db *gorm.DB, query *dto.ListDemandsQuery) (*dto.DemandListResponse, error) {
	criteria := repositories.DemandCriteria{
		CategoryID:        query.CategoryID,
		CollaborationType: models.CollaborationType(query.CollaborationType),
		City:              query.City,
		State:             query.State,
		Page:              normalizePage(query.Page),
		PageSize:          normalizePageSize(query.PageSize),
	}

	demands, total, err := s.partnershipRepo.ListOpenDemands(db, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToDemandListResponse(demands, total, criteria.Page, criteria.PageSize)
	return &resp, nil
}

func (s *partnershipService) Transition(db *gorm.DB, actorID, id string, req *dto.TransitionRequest) (*dto.DemandResponse, error) {
	var demand *models.PartnershipDemand
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		demand, err = s.partnershipRepo.FindDemandByIDForUpdate(tx, id)
		if err != nil {
			return apperrors.ErrNotFound(err)
		}

		relation, err := s.resolveRelation(tx, demand, actorID)
		if err != nil {
			return err
		}

		if demand.Status == models.EngagementStatusDraft && req.Status == models.EngagementStatusOpen {
			active, err := s.partnershipRepo.CountActiveByProfessional(tx, demand.ProfessionalID)
			if err != nil {
				return apperrors.InternalError(err)
			}
			if err := s.subscriptionService.CheckLimit(tx, demand.ProfessionalID, LimitOpenDemands, active); err != nil {
				return err
			}
		}

		if err := lifecycle.Validate(models.EngagementKindPartnership, relation, demand.Status, req.Status); err != nil {
			if errors.Is(err, lifecycle.ErrNoChange) {
				return apperrors.ErrStatusUnchanged
			}
			return apperrors.ErrTransitionNotAllowed
		}

		if err := s.partnershipRepo.UpdateDemandStatus(tx, id, req.Status); err != nil {
			return apperrors.InternalError(err)
		}
		demand.Status = req.Status
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := dto.ToDemandResponse(demand)
	return &resp, nil
}

func (s *partnershipService) Apply(db *gorm.DB, professionalID, demandID string, req *dto.CreateApplicationRequest) (*dto.PartnershipApplicationResponse, error) {
	demand, err := s.partnershipRepo.FindDemandByID(db, demandID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if demand.Status != models.EngagementStatusOpen {
		return nil, apperrors.ErrEngagementNotOpen
	}
	if demand.ProfessionalID == professionalID {
		return nil, apperrors.ErrInvalidOperation("partnership", "Cannot apply to your own demand")
	}

	// The per-month quota is a rolling window ending now, not a
	// calendar month. Partnership applications are counted apart from
	// project applications.
	windowStart := time.Now().AddDate(0, -1, 0)
	applied, err := s.partnershipRepo.CountApplicationsByProfessionalSince(db, professionalID, windowStart)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.subscriptionService.CheckLimit(db, professionalID, LimitApplicationsPerMonth, applied); err != nil {
		return nil, err
	}

	application := &models.PartnershipApplication{
		DemandID:       demandID,
		ProfessionalID: professionalID,
		Message:        req.Message,
		Status:         models.ApplicationStatusPending,
	}
	if err := s.partnershipRepo.CreateApplication(db, application); err != nil {
		if errors.Is(err, repositories.ErrPartnershipApplicationAlreadyExists) {
			return nil, apperrors.ErrAlreadyApplied
		}
		return nil, apperrors.InternalError(err)
	}

	s.notify(db, demand.ProfessionalID, models.NotificationApplicationReceived,
		"New partnership application",
		fmt.Sprintf("A professional applied to %q", demand.Title))

	resp := dto.ToPartnershipApplicationResponse(application)
	return &resp, nil
}

func (s *partnershipService) ListApplications(db *gorm.DB, ownerID, demandID string) ([]dto.PartnershipApplicationResponse, error) {
	demand, err := s.partnershipRepo.FindDemandByID(db, demandID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if demand.ProfessionalID != ownerID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	applications, err := s.partnershipRepo.ListApplicationsByDemand(db, demandID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.ToPartnershipApplicationResponses(applications), nil
}

func (s *partnershipService) ListMyApplications(db *gorm.DB, professionalID string) ([]dto.PartnershipApplicationResponse, error) {
	applications, err := s.partnershipRepo.ListApplicationsByProfessional(db, professionalID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.ToPartnershipApplicationResponses(applications), nil
}

func (s *partnershipService) Accept(db *gorm.DB, ownerID, applicationID string) (*dto.PartnershipApplicationResponse, error) {
	var (
		application *models.PartnershipApplication
		demand      *models.PartnershipDemand
		rejected    []string
	)

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		application, err = s.partnershipRepo.FindApplicationByIDForUpdate(tx, applicationID)
		if err != nil {
			return apperrors.ErrNotFound(err)
		}

		demand, err = s.partnershipRepo.FindDemandByIDForUpdate(tx, application.DemandID)
		if err != nil {
			return apperrors.ErrNotFound(err)
		}
		if demand.ProfessionalID != ownerID {
			return apperrors.ErrInsufficientPermissions
		}
		if application.Status != models.ApplicationStatusPending {
			return apperrors.ErrApplicationNotPending
		}
		if demand.Status != models.EngagementStatusOpen {
			return apperrors.ErrEngagementNotOpen
		}

		if err := s.partnershipRepo.UpdateApplicationStatus(tx, applicationID, models.ApplicationStatusAccepted); err != nil {
			return apperrors.InternalError(err)
		}
		rejected, err = s.partnershipRepo.RejectSiblingApplications(tx, demand.ID, applicationID)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if err := s.partnershipRepo.UpdateDemandStatus(tx, demand.ID, models.EngagementStatusInProgress); err != nil {
			return apperrors.InternalError(err)
		}

		application.Status = models.ApplicationStatusAccepted
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(db, application.ProfessionalID, models.NotificationApplicationAccepted,
		"Partnership application accepted",
		fmt.Sprintf("Your application for %q was accepted", demand.Title))
	for _, professionalID := range rejected {
		s.notify(db, professionalID, models.NotificationApplicationRejected,
			"Partnership application rejected",
			fmt.Sprintf("Your application for %q was not selected", demand.Title))
	}

	resp := dto.ToPartnershipApplicationResponse(application)
	return &resp, nil
}

func (s *partnershipService) Reject(db *gorm.DB, ownerID, applicationID string) (*dto.PartnershipApplicationResponse, error) {
	application, err := s.partnershipRepo.FindApplicationByID(db, applicationID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	demand, err := s.partnershipRepo.FindDemandByID(db, application.DemandID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if demand.ProfessionalID != ownerID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if application.Status != models.ApplicationStatusPending {
		return nil, apperrors.ErrApplicationNotPending
	}

	if err := s.partnershipRepo.UpdateApplicationStatus(db, applicationID, models.ApplicationStatusRejected); err != nil {
		return nil, apperrors.InternalError(err)
	}
	application.Status = models.ApplicationStatusRejected

	s.notify(db, application.ProfessionalID, models.NotificationApplicationRejected,
		"Partnership application rejected",
		fmt.Sprintf("Your application for %q was not selected", demand.Title))

	resp := dto.ToPartnershipApplicationResponse(application)
	return &resp, nil
}

func (s *partnershipService) Withdraw(db *gorm.DB, professionalID, applicationID string) error {
	application, err := s.partnershipRepo.FindApplicationByID(db, applicationID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}
	if application.ProfessionalID != professionalID {
		return apperrors.ErrInsufficientPermissions
	}
	if application.Status != models.ApplicationStatusPending {
		return apperrors.ErrApplicationNotPending
	}
	if err := s.partnershipRepo.DeleteApplication(db, applicationID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *partnershipService) resolveRelation(db *gorm.DB, demand *models.PartnershipDemand, actorID string) (lifecycle.Relation, error) {
	if demand.ProfessionalID == actorID {
		return lifecycle.RelationOwner, nil
	}

	accepted, err := s.partnershipRepo.FindAcceptedApplication(db, demand.ID)
	if err == nil && accepted.ProfessionalID == actorID {
		return lifecycle.RelationAssigned, nil
	}
	if err != nil && !errors.Is(err, repositories.ErrPartnershipApplicationNotFound) {
		return "", apperrors.InternalError(err)
	}
	return "", apperrors.ErrInsufficientPermissions
}

func (s *partnershipService) notify(db *gorm.DB, userID string, kind models.NotificationType, title, body string) {
	notification := &models.Notification{
		UserID: userID,
		Type:   kind,
		Title:  title,
		Body:   body,
	}
	if err := s.notificationRepo.Create(db, notification); err != nil {
		logger.Warn("notification write failed", "user_id", userID, "type", kind, "error", err)
	}
}
