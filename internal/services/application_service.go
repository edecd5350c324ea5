package services

import (
	"errors"
	"fmt"
	"time"

	"ecowork_backend/internal/email"
	"ecowork_backend/internal/logger"
	"ecowork_backend/internal/models"
	"ecowork_backend/internal/repositories"
	"ecowork_backend/internal/services/dto"
	"ecowork_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ApplicationService interface {
	Apply(db *gorm.DB, professionalID, projectID string, req *dto.CreateApplicationRequest) (*dto.ApplicationResponse, error)
	ListByProject(db *gorm.DB, clientID, projectID string) ([]dto.ApplicationResponse, error)
	ListMine(db *gorm.DB, professionalID string) ([]dto.ApplicationResponse, error)
	// Accept runs the cascade in one transaction: the application is
	// accepted, every pending sibling is rejected, and the project moves
	// to in_progress.
	Accept(db *gorm.DB, clientID, applicationID string) (*dto.ApplicationResponse, error)
	Reject(db *gorm.DB, clientID, applicationID string) (*dto.ApplicationResponse, error)
	Withdraw(db *gorm.DB, professionalID, applicationID string) error
}

type applicationService struct {
	applicationRepo     repositories.ApplicationRepository
	projectRepo         repositories.ProjectRepository
	userRepo            repositories.UserRepository
	notificationRepo    repositories.NotificationRepository
	subscriptionService SubscriptionService
	emailProvider       email.Provider
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	projectRepo repositories.ProjectRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
	subscriptionService SubscriptionService,
	emailProvider email.Provider,
) ApplicationService {
	return &applicationService{
		applicationRepo:     applicationRepo,
		projectRepo:         projectRepo,
		userRepo:            userRepo,
		notificationRepo:    notificationRepo,
		subscriptionService: subscriptionService,
		emailProvider:       emailProvider,
	}
}

func (s *applicationService) Apply(db *gorm.DB, professionalID, projectID string, req *dto.CreateApplicationRequest) (*dto.ApplicationResponse, error) {
	project, err := s.projectRepo.FindByID(db, projectID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if project.Status != models.EngagementStatusOpen {
		return nil, apperrors.ErrEngagementNotOpen
	}
	if project.ClientID == professionalID {
		return nil, apperrors.ErrInvalidOperation("application", "Cannot apply to your own project")
	}

	// The per-month quota is a rolling window ending now, not a
	// calendar month.
	windowStart := time.Now().AddDate(0, -1, 0)
	applied, err := s.applicationRepo.CountByProfessionalSince(db, professionalID, windowStart)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.subscriptionService.CheckLimit(db, professionalID, LimitApplicationsPerMonth, applied); err != nil {
		return nil, err
	}

	application := &models.Application{
		ProjectID:      projectID,
		ProfessionalID: professionalID,
		Message:        req.Message,
		Status:         models.ApplicationStatusPending,
	}
	// The unique index on (project, professional) turns the duplicate
	// race into a conflict here.
	if err := s.applicationRepo.Create(db, application); err != nil {
		if errors.Is(err, repositories.ErrApplicationAlreadyExists) {
			return nil, apperrors.ErrAlreadyApplied
		}
		return nil, apperrors.InternalError(err)
	}

	s.notify(db, project.ClientID, models.NotificationApplicationReceived,
		"New application",
		fmt.Sprintf("A professional applied to %q", project.Title))

	resp := dto.ToApplicationResponse(application)
	return &resp, nil
}

func (s *applicationService) ListByProject(db *gorm.DB, clientID, projectID string) ([]dto.ApplicationResponse, error) {
	project, err := s.projectRepo.FindByID(db, projectID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if project.ClientID != clientID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	applications, err := s.applicationRepo.ListByProject(db, projectID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.ToApplicationResponses(applications), nil
}

func (s *applicationService) ListMine(db *gorm.DB, professionalID string) ([]dto.ApplicationResponse, error) {
	applications, err := s.applicationRepo.ListByProfessional(db, professionalID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.ToApplicationResponses(applications), nil
}

func (s *applicationService) Accept(db *gorm.DB, clientID, applicationID string) (*dto.ApplicationResponse, error) {
	var (
		application *models.Application
		project     *models.Project
		rejected    []string
	)

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		application, err = s.applicationRepo.FindByIDForUpdate(tx, applicationID)
		if err != nil {
			return apperrors.ErrNotFound(err)
		}

		// Lock ordering: application first, then project. Accept and
		// the lifecycle transition both lock the project row.
		project, err = s.projectRepo.FindByIDForUpdate(tx, application.ProjectID)
		if err != nil {
			return apperrors.ErrNotFound(err)
		}
		if project.ClientID != clientID {
			return apperrors.ErrInsufficientPermissions
		}
		if application.Status != models.ApplicationStatusPending {
			return apperrors.ErrApplicationNotPending
		}
		if project.Status != models.EngagementStatusOpen {
			return apperrors.ErrEngagementNotOpen
		}

		if err := s.applicationRepo.UpdateStatus(tx, applicationID, models.ApplicationStatusAccepted); err != nil {
			return apperrors.InternalError(err)
		}
		rejected, err = s.applicationRepo.RejectSiblings(tx, project.ID, applicationID)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if err := s.projectRepo.UpdateStatus(tx, project.ID, models.EngagementStatusInProgress); err != nil {
			return apperrors.InternalError(err)
		}

		application.Status = models.ApplicationStatusAccepted
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(db, application.ProfessionalID, models.NotificationApplicationAccepted,
		"Application accepted",
		fmt.Sprintf("Your application for %q was accepted", project.Title))
	for _, professionalID := range rejected {
		s.notify(db, professionalID, models.NotificationApplicationRejected,
			"Application rejected",
			fmt.Sprintf("Your application for %q was not selected", project.Title))
	}
	s.sendDecisionEmail(db, application.ProfessionalID, project.Title, true)

	resp := dto.ToApplicationResponse(application)
	return &resp, nil
}

func (s *applicationService) Reject(db *gorm.DB, clientID, applicationID string) (*dto.ApplicationResponse, error) {
	application, err := s.applicationRepo.FindByID(db, applicationID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	project, err := s.projectRepo.FindByID(db, application.ProjectID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if project.ClientID != clientID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if application.Status != models.ApplicationStatusPending {
		return nil, apperrors.ErrApplicationNotPending
	}

	if err := s.applicationRepo.UpdateStatus(db, applicationID, models.ApplicationStatusRejected); err != nil {
		return nil, apperrors.InternalError(err)
	}
	application.Status = models.ApplicationStatusRejected

	s.notify(db, application.ProfessionalID, models.NotificationApplicationRejected,
		"Application rejected",
		fmt.Sprintf("Your application for %q was not selected", project.Title))
	s.sendDecisionEmail(db, application.ProfessionalID, project.Title, false)

	resp := dto.ToApplicationResponse(application)
	return &resp, nil
}

func (s *applicationService) Withdraw(db *gorm.DB, professionalID, applicationID string) error {
	application, err := s.applicationRepo.FindByID(db, applicationID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}
	if application.ProfessionalID != professionalID {
		return apperrors.ErrInsufficientPermissions
	}
	if application.Status != models.ApplicationStatusPending {
		return apperrors.ErrApplicationNotPending
	}
	if err := s.applicationRepo.Delete(db, applicationID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *applicationService) notify(db *gorm.DB, userID string, kind models.NotificationType, title, body string) {
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

func (s *applicationService) sendDecisionEmail(db *gorm.DB, professionalID, projectTitle string, accepted bool) {
	user, err := s.userRepo.FindByID(db, professionalID)
	if err != nil {
		return
	}
	go func() {
		var sendErr error
		if accepted {
			sendErr = s.emailProvider.SendApplicationAccepted(user.Email, projectTitle)
		} else {
			sendErr = s.emailProvider.SendApplicationRejected(user.Email, projectTitle)
		}
		if sendErr != nil {
			logger.Warn("decision email failed", "user_id", professionalID, "error", sendErr)
		}
	}()
}
