package repositories

import (
	"errors"

	"ecowork_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrProjectNotFound = errors.New("project not found")

type ProjectCriteria struct {
	CategoryID string
	City       string
	State      string
	BudgetMin  *float64
	BudgetMax  *float64
	Page       int
	PageSize   int
}

type ProjectRepository interface {
	Create(db *gorm.DB, project *models.Project) error
	FindByID(db *gorm.DB, id string) (*models.Project, error)
	// FindByIDForUpdate takes a row lock; callers must be inside a
	// transaction (the accept cascade depends on it).
	FindByIDForUpdate(db *gorm.DB, id string) (*models.Project, error)
	Update(db *gorm.DB, project *models.Project) error
	UpdateStatus(db *gorm.DB, id string, status models.EngagementStatus) error
	Delete(db *gorm.DB, id string) error
	ListByClient(db *gorm.DB, clientID string) ([]models.Project, error)
	ListOpen(db *gorm.DB, criteria ProjectCriteria) ([]models.Project, int64, error)
	CountActiveByClient(db *gorm.DB, clientID string) (int64, error)
}

type ProjectRepositoryImpl struct{}

func NewProjectRepository() ProjectRepository {
	return &ProjectRepositoryImpl{}
}

func (r *ProjectRepositoryImpl) Create(db *gorm.DB, project *models.Project) error {
	return db.Create(project).Error
}

func (r *ProjectRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Project, error) {
	var project models.Project
	err := db.Preload("Category").First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) FindByIDForUpdate(db *gorm.DB, id string) (*models.Project, error) {
	var project models.Project
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) Update(db *gorm.DB, project *models.Project) error {
	return db.Save(project).Error
}

func (r *ProjectRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.EngagementStatus) error {
	result := db.Model(&models.Project{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return db.Delete(&models.Project{}, "id = ?", id).Error
}

func (r *ProjectRepositoryImpl) ListByClient(db *gorm.DB, clientID string) ([]models.Project, error) {
	var projects []models.Project
	err := db.Preload("Category").
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepositoryImpl) ListOpen(db *gorm.DB, criteria ProjectCriteria) ([]models.Project, int64, error) {
	query := db.Model(&models.Project{}).Where("status = ?", models.EngagementStatusOpen)
	if criteria.CategoryID != "" {
		query = query.Where("category_id = ?", criteria.CategoryID)
	}
	if criteria.City != "" {
		query = query.Where("city ILIKE ?", criteria.City)
	}
	if criteria.State != "" {
		query = query.Where("state = ?", criteria.State)
	}
	if criteria.BudgetMin != nil {
		query = query.Where("budget_max IS NULL OR budget_max >= ?", *criteria.BudgetMin)
	}
	if criteria.BudgetMax != nil {
		query = query.Where("budget_min IS NULL OR budget_min <= ?", *criteria.BudgetMax)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	err := query.Preload("Category").
		Order("created_at DESC").
		Offset((criteria.Page - 1) * criteria.PageSize).
		Limit(criteria.PageSize).
		Find(&projects).Error
	return projects, total, err
}

// CountActiveByClient counts non-terminal projects, used against the
// subscription limit when opening a new one.
func (r *ProjectRepositoryImpl) CountActiveByClient(db *gorm.DB, clientID string) (int64, error) {
	var count int64
	err := db.Model(&models.Project{}).
		Where("client_id = ? AND status IN ?", clientID,
			[]models.EngagementStatus{models.EngagementStatusOpen, models.EngagementStatusInProgress}).
		Count(&count).Error
	return count, err
}
