package repositories

import (
	"errors"
	"time"

	"ecowork_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrApplicationNotFound      = errors.New("application not found")
	ErrApplicationAlreadyExists = errors.New("application already exists for this project")
)

type ApplicationRepository interface {
	Create(db *gorm.DB, application *models.Application) error
	FindByID(db *gorm.DB, id string) (*models.Application, error)
	FindByIDForUpdate(db *gorm.DB, id string) (*models.Application, error)
	FindAccepted(db *gorm.DB, projectID string) (*models.Application, error)
	ListByProject(db *gorm.DB, projectID string) ([]models.Application, error)
	ListByProfessional(db *gorm.DB, professionalID string) ([]models.Application, error)
	UpdateStatus(db *gorm.DB, id string, status models.ApplicationStatus) error
	// RejectSiblings marks every other pending application of the
	// project rejected and returns the affected professional ids.
	RejectSiblings(db *gorm.DB, projectID, acceptedID string) ([]string, error)
	CountByProfessionalSince(db *gorm.DB, professionalID string, since time.Time) (int64, error)
	Delete(db *gorm.DB, id string) error
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

func (r *ApplicationRepositoryImpl) Create(db *gorm.DB, application *models.Application) error {
	if err := db.Create(application).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrApplicationAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ApplicationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Application, error) {
	var application models.Application
	err := db.First(&application, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) FindByIDForUpdate(db *gorm.DB, id string) (*models.Application, error) {
	var application models.Application
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&application, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) FindAccepted(db *gorm.DB, projectID string) (*models.Application, error) {
	var application models.Application
	err := db.First(&application, "project_id = ? AND status = ?", projectID, models.ApplicationStatusAccepted).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) ListByProject(db *gorm.DB, projectID string) ([]models.Application, error) {
	var applications []models.Application
	err := db.Where("project_id = ?", projectID).Order("created_at ASC").Find(&applications).Error
	return applications, err
}

func (r *ApplicationRepositoryImpl) ListByProfessional(db *gorm.DB, professionalID string) ([]models.Application, error) {
	var applications []models.Application
	err := db.Where("professional_id = ?", professionalID).Order("created_at DESC").Find(&applications).Error
	return applications, err
}

func (r *ApplicationRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.ApplicationStatus) error {
	result := db.Model(&models.Application{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepositoryImpl) RejectSiblings(db *gorm.DB, projectID, acceptedID string) ([]string, error) {
	var siblings []models.Application
	err := db.Where("project_id = ? AND id <> ? AND status = ?",
		projectID, acceptedID, models.ApplicationStatusPending).
		Find(&siblings).Error
	if err != nil {
		return nil, err
	}
	if len(siblings) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(siblings))
	professionals := make([]string, 0, len(siblings))
	for _, s := range siblings {
		ids = append(ids, s.ID)
		professionals = append(professionals, s.ProfessionalID)
	}

	err = db.Model(&models.Application{}).
		Where("id IN ?", ids).
		Update("status", models.ApplicationStatusRejected).Error
	if err != nil {
		return nil, err
	}
	return professionals, nil
}

func (r *ApplicationRepositoryImpl) CountByProfessionalSince(db *gorm.DB, professionalID string, since time.Time) (int64, error) {
	var count int64
	err := db.Model(&models.Application{}).
		Where("professional_id = ? AND created_at >= ?", professionalID, since).
		Count(&count).Error
	return count, err
}

func (r *ApplicationRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return db.Delete(&models.Application{}, "id = ?", id).Error
}
