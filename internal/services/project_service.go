package services

import (
	"errors"

	"ecowork_backend/internal/lifecycle"
	"ecowork_backend/internal/models"
	"ecowork_backend/internal/repositories"
	"ecowork_backend/internal/services/dto"
	"ecowork_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ProjectService interface {
	Create(db *gorm.DB, clientID string, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	GetByID(db *gorm.DB, id string) (*dto.ProjectResponse, error)
	Update(db *gorm.DB, clientID, id string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	Delete(db *gorm.DB, clientID, id string) error
	ListMine(db *gorm.DB, clientID string) ([]dto.ProjectResponse, error)
	ListOpen(db *gorm.DB, query *dto.ListProjectsQuery) (*dto.ProjectListResponse, error)
	// Transition moves the project along the lifecycle table. The actor
	// relation is resolved from ownership or the accepted application.
	Transition(db *gorm.DB, actorID, id string, req *dto.TransitionRequest) (*dto.ProjectResponse, error)
}

type projectService struct {
	projectRepo         repositories.ProjectRepository
	applicationRepo     repositories.ApplicationRepository
	categoryRepo        repositories.CategoryRepository
	subscriptionService SubscriptionService
}

func NewProjectService(
	projectRepo repositories.ProjectRepository,
	applicationRepo repositories.ApplicationRepository,
	categoryRepo repositories.CategoryRepository,
	subscriptionService SubscriptionService,
) ProjectService {
	return &projectService{
		projectRepo:         projectRepo,
		applicationRepo:     applicationRepo,
		categoryRepo:        categoryRepo,
		subscriptionService: subscriptionService,
	}
}

func (s *projectService) Create(db *gorm.DB, clientID string, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	category, err := s.categoryRepo.FindByID(db, req.CategoryID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if !category.IsActive {
		return nil, apperrors.ErrInvalidOperation("project", "Category is not active")
	}
	if req.BudgetMin != nil && req.BudgetMax != nil && *req.BudgetMin > *req.BudgetMax {
		return nil, apperrors.NewBadRequestError("budget_min must not exceed budget_max")
	}

	project := &models.Project{
		ClientID:    clientID,
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		City:        req.City,
		State:       req.State,
		BudgetMin:   req.BudgetMin,
		BudgetMax:   req.BudgetMax,
		Status:      models.EngagementStatusDraft,
	}
	if err := s.projectRepo.Create(db, project); err != nil {
		return nil, apperrors.InternalError(err)
	}

	project.Category = *category
	resp := dto.ToProjectResponse(project)
	return &resp, nil
}

func (s *projectService) GetByID(db *gorm.DB, id string) (*dto.ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(db, id)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	resp := dto.ToProjectResponse(project)
	return &resp, nil
}

func (s *projectService) Update(db *gorm.DB, clientID, id string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(db, id)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if project.ClientID != clientID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	// Details are frozen once work starts; only drafts and open
	// projects are editable.
	if project.Status != models.EngagementStatusDraft && project.Status != models.EngagementStatusOpen {
		return nil, apperrors.ErrInvalidStatus("project", "Project can no longer be edited")
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(db, *req.CategoryID); err != nil {
			return nil, apperrors.ErrNotFound(err)
		}
		project.CategoryID = *req.CategoryID
	}
	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.City != nil {
		project.City = *req.City
	}
	if req.State != nil {
		project.State = *req.State
	}
	if req.BudgetMin != nil {
		project.BudgetMin = req.BudgetMin
	}
	if req.BudgetMax != nil {
		project.BudgetMax = req.BudgetMax
	}
	if project.BudgetMin != nil && project.BudgetMax != nil && *project.BudgetMin > *project.BudgetMax {
		return nil, apperrors.NewBadRequestError("budget_min must not exceed budget_max")
	}

	if err := s.projectRepo.Update(db, project); err != nil {
		return nil, apperrors.InternalError(err)
	}

	updated, err := s.projectRepo.FindByID(db, id)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToProjectResponse(updated)
	return &resp, nil
}

func (s *projectService) Delete(db *gorm.DB, clientID, id string) error {
	project, err := s.projectRepo.FindByID(db, id)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}
	if project.ClientID != clientID {
		return apperrors.ErrInsufficientPermissions
	}
	if project.Status != models.EngagementStatusDraft {
		return apperrors.ErrInvalidStatus("project", "Only draft projects can be deleted")
	}
	if err := s.projectRepo.Delete(db, id); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *projectService) ListMine(db *gorm.DB, clientID string) ([]dto.ProjectResponse, error) {
	projects, err := s.projectRepo.ListByClient(db, clientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	items := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		items = append(items, dto.ToProjectResponse(&projects[i]))
	}
	return items, nil
}

func (s *projectService) ListOpen(db *gorm.DB, query *dto.ListProjectsQuery) (*dto.ProjectListResponse, error) {
	criteria := repositories.ProjectCriteria{
		CategoryID: query.CategoryID,
		City:       query.City,
		State:      query.State,
		BudgetMin:  query.BudgetMin,
		BudgetMax:  query.BudgetMax,
		Page:       normalizePage(query.Page),
		PageSize:   normalizePageSize(query.PageSize),
	}

	projects, total, err := s.projectRepo.ListOpen(db, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToProjectListResponse(projects, total, criteria.Page, criteria.PageSize)
	return &resp, nil
}

func (s *projectService) Transition(db *gorm.DB, actorID, id string, req *dto.TransitionRequest) (*dto.ProjectResponse, error) {
	var project *models.Project
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		project, err = s.projectRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			return apperrors.ErrNotFound(err)
		}

		relation, err := s.resolveRelation(tx, project, actorID)
		if err != nil {
			return err
		}

		// Opening a draft counts against the plan's open-project cap.
		if project.Status == models.EngagementStatusDraft && req.Status == models.EngagementStatusOpen {
			active, err := s.projectRepo.CountActiveByClient(tx, project.ClientID)
			if err != nil {
				return apperrors.InternalError(err)
			}
			if err := s.subscriptionService.CheckLimit(tx, project.ClientID, LimitOpenProjects, active); err != nil {
				return err
			}
		}

		if err := lifecycle.Validate(models.EngagementKindProject, relation, project.Status, req.Status); err != nil {
			if errors.Is(err, lifecycle.ErrNoChange) {
				return apperrors.ErrStatusUnchanged
			}
			return apperrors.ErrTransitionNotAllowed
		}

		if err := s.projectRepo.UpdateStatus(tx, id, req.Status); err != nil {
			return apperrors.InternalError(err)
		}
		project.Status = req.Status
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := dto.ToProjectResponse(project)
	return &resp, nil
}

func (s *projectService) resolveRelation(db *gorm.DB, project *models.Project, actorID string) (lifecycle.Relation, error) {
	if project.ClientID == actorID {
		return lifecycle.RelationOwner, nil
	}

	accepted, err := s.applicationRepo.FindAccepted(db, project.ID)
	if err == nil && accepted.ProfessionalID == actorID {
		return lifecycle.RelationAssigned, nil
	}
	if err != nil && !errors.Is(err, repositories.ErrApplicationNotFound) {
		return "", apperrors.InternalError(err)
	}
	return "", apperrors.ErrInsufficientPermissions
}
