package repositories

import (
	"errors"
	"time"

	"ecowork_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrDemandNotFound                      = errors.New("partnership demand not found")
	ErrPartnershipApplicationNotFound      = errors.New("partnership application not found")
	ErrPartnershipApplicationAlreadyExists = errors.New("partnership application already exists for this demand")
)

type DemandCriteria struct {
	CategoryID        string
	CollaborationType models.CollaborationType
	City              string
	State             string
	Page              int
	PageSize          int
}

type PartnershipRepository interface {
	// Demands
	CreateDemand(db *gorm.DB, demand *models.PartnershipDemand) error
	FindDemandByID(db *gorm.DB, id string) (*models.PartnershipDemand, error)
	FindDemandByIDForUpdate(db *gorm.DB, id string) (*models.PartnershipDemand, error)
	UpdateDemand(db *gorm.DB, demand *models.PartnershipDemand) error
	UpdateDemandStatus(db *gorm.DB, id string, status models.EngagementStatus) error
	DeleteDemand(db *gorm.DB, id string) error
	ListDemandsByProfessional(db *gorm.DB, professionalID string) ([]models.PartnershipDemand, error)
	ListOpenDemands(db *gorm.DB, criteria DemandCriteria) ([]models.PartnershipDemand, int64, error)
	CountActiveByProfessional(db *gorm.DB, professionalID string) (int64, error)

	// Applications
	CreateApplication(db *gorm.DB, application *models.PartnershipApplication) error
	FindApplicationByID(db *gorm.DB, id string) (*models.PartnershipApplication, error)
	FindApplicationByIDForUpdate(db *gorm.DB, id string) (*models.PartnershipApplication, error)
	FindAcceptedApplication(db *gorm.DB, demandID string) (*models.PartnershipApplication, error)
	ListApplicationsByDemand(db *gorm.DB, demandID string) ([]models.PartnershipApplication, error)
	ListApplicationsByProfessional(db *gorm.DB, professionalID string) ([]models.PartnershipApplication, error)
	UpdateApplicationStatus(db *gorm.DB, id string, status models.ApplicationStatus) error
	RejectSiblingApplications(db *gorm.DB, demandID, acceptedID string) ([]string, error)
	CountApplicationsByProfessionalSince(db *gorm.DB, professionalID string, since time.Time) (int64, error)
	DeleteApplication(db *gorm.DB, id string) error
}

type PartnershipRepositoryImpl struct{}

func NewPartnershipRepository() PartnershipRepository {
	return &PartnershipRepositoryImpl{}
}

// --- Demands ---

func (r *PartnershipRepositoryImpl) CreateDemand(db *gorm.DB, demand *models.PartnershipDemand) error {
	return db.Create(demand).Error
}

func (r *PartnershipRepositoryImpl) FindDemandByID(db *gorm.DB, id string) (*models.PartnershipDemand, error) {
	var demand models.PartnershipDemand
	err := db.Preload("Category").First(&demand, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDemandNotFound
	}
	if err != nil {
		return nil, err
	}
	return &demand, nil
}

func (r *PartnershipRepositoryImpl) FindDemandByIDForUpdate(db *gorm.DB, id string) (*models.PartnershipDemand, error) {
	var demand models.PartnershipDemand
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&demand, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDemandNotFound
	}
	if err != nil {
		return nil, err
	}
	return &demand, nil
}

func (r *PartnershipRepositoryImpl) UpdateDemand(db *gorm.DB, demand *models.PartnershipDemand) error {
	return db.Save(demand).Error
}

func (r *PartnershipRepositoryImpl) UpdateDemandStatus(db *gorm.DB, id string, status models.EngagementStatus) error {
	result := db.Model(&models.PartnershipDemand{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDemandNotFound
	}
	return nil
}

func (r *PartnershipRepositoryImpl) DeleteDemand(db *gorm.DB, id string) error {
	return db.Delete(&models.PartnershipDemand{}, "id = ?", id).Error
}

func (r *PartnershipRepositoryImpl) ListDemandsByProfessional(db *gorm.DB, professionalID string) ([]models.PartnershipDemand, error) {
	var demands []models.PartnershipDemand
	err := db.Preload("Category").
		Where("professional_id = ?", professionalID).
		Order("created_at DESC").
		Find(&demands).Error
	return demands, err
}

func (r *PartnershipRepositoryImpl) ListOpenDemands(db *gorm.DB, criteria DemandCriteria) ([]models.PartnershipDemand, int64, error) {
	query := db.Model(&models.PartnershipDemand{}).Where("status = ?", models.EngagementStatusOpen)
	if criteria.CategoryID != "" {
		query = query.Where("category_id = ?", criteria.CategoryID)
	}
	if criteria.CollaborationType != "" {
		query = query.Where("collaboration_type = ?", criteria.CollaborationType)
	}
	if criteria.City != "" {
		query = query.Where("city ILIKE ?", criteria.City)
	}
	if criteria.State != "" {
		query = query.Where("state = ?", criteria.State)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var demands []models.PartnershipDemand
	err := query.Preload("Category").
		Order("created_at DESC").
		Offset((criteria.Page - 1) * criteria.PageSize).
		Limit(criteria.PageSize).
		Find(&demands).Error
	return demands, total, err
}

func (r *PartnershipRepositoryImpl) CountActiveByProfessional(db *gorm.DB, professionalID string) (int64, error) {
	var count int64
	err := db.Model(&models.PartnershipDemand{}).
		Where("professional_id = ? AND status IN ?", professionalID,
			[]models.EngagementStatus{models.EngagementStatusOpen, models.EngagementStatusInProgress}).
		Count(&count).Error
	return count, err
}

// --- Applications ---

func (r *PartnershipRepositoryImpl) CreateApplication(db *gorm.DB, application *models.PartnershipApplication) error {
	if err := db.Create(application).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrPartnershipApplicationAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PartnershipRepositoryImpl) FindApplicationByID(db *gorm.DB, id string) (*models.PartnershipApplication, error) {
	var application models.PartnershipApplication
	err := db.First(&application, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPartnershipApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *PartnershipRepositoryImpl) FindApplicationByIDForUpdate(db *gorm.DB, id string) (*models.PartnershipApplication, error) {
	var application models.PartnershipApplication
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&application, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPartnershipApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *PartnershipRepositoryImpl) FindAcceptedApplication(db *gorm.DB, demandID string) (*models.PartnershipApplication, error) {
	var application models.PartnershipApplication
	err := db.First(&application, "demand_id = ? AND status = ?", demandID, models.ApplicationStatusAccepted).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPartnershipApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *PartnershipRepositoryImpl) ListApplicationsByDemand(db *gorm.DB, demandID string) ([]models.PartnershipApplication, error) {
	var applications []models.PartnershipApplication
	err := db.Where("demand_id = ?", demandID).Order("created_at ASC").Find(&applications).Error
	return applications, err
}

func (r *PartnershipRepositoryImpl) ListApplicationsByProfessional(db *gorm.DB, professionalID string) ([]models.PartnershipApplication, error) {
	var applications []models.PartnershipApplication
	err := db.Where("professional_id = ?", professionalID).Order("created_at DESC").Find(&applications).Error
	return applications, err
}

func (r *PartnershipRepositoryImpl) UpdateApplicationStatus(db *gorm.DB, id string, status models.ApplicationStatus) error {
	result := db.Model(&models.PartnershipApplication{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPartnershipApplicationNotFound
	}
	return nil
}

func (r *PartnershipRepositoryImpl) RejectSiblingApplications(db *gorm.DB, demandID, acceptedID string) ([]string, error) {
	var siblings []models.PartnershipApplication
	err := db.Where("demand_id = ? AND id <> ? AND status = ?",
		demandID, acceptedID, models.ApplicationStatusPending).
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

	err = db.Model(&models.PartnershipApplication{}).
		Where("id IN ?", ids).
		Update("status", models.ApplicationStatusRejected).Error
	if err != nil {
		return nil, err
	}
	return professionals, nil
}

func (r *PartnershipRepositoryImpl) CountApplicationsByProfessionalSince(db *gorm.DB, professionalID string, since time.Time) (int64, error) {
	var count int64
	err := db.Model(&models.PartnershipApplication{}).
		Where("professional_id = ? AND created_at >= ?", professionalID, since).
		Count(&count).Error
	return count, err
}

func (r *PartnershipRepositoryImpl) DeleteApplication(db *gorm.DB, id string) error {
	return db.Delete(&models.PartnershipApplication{}, "id = ?", id).Error
}
