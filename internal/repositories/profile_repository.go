package repositories

import (
	"errors"

	"ecowork_backend/internal/models"

	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfessionalCriteria struct {
	City      string
	State     string
	Specialty string // category slug inside the specialties jsonb list
	Page      int
	PageSize  int
}

type ProfileRepository interface {
	CreateClient(db *gorm.DB, profile *models.ClientProfile) error
	CreateProfessional(db *gorm.DB, profile *models.ProfessionalProfile) error
	FindClientByUserID(db *gorm.DB, userID string) (*models.ClientProfile, error)
	FindProfessionalByUserID(db *gorm.DB, userID string) (*models.ProfessionalProfile, error)
	UpdateClient(db *gorm.DB, profile *models.ClientProfile) error
	UpdateProfessional(db *gorm.DB, profile *models.ProfessionalProfile) error
	ListProfessionals(db *gorm.DB, criteria ProfessionalCriteria) ([]models.ProfessionalProfile, int64, error)
	RefreshRatingCache(db *gorm.DB, userID string) error
}

type ProfileRepositoryImpl struct{}

func NewProfileRepository() ProfileRepository {
	return &ProfileRepositoryImpl{}
}

func (r *ProfileRepositoryImpl) CreateClient(db *gorm.DB, profile *models.ClientProfile) error {
	return db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) CreateProfessional(db *gorm.DB, profile *models.ProfessionalProfile) error {
	return db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) FindClientByUserID(db *gorm.DB, userID string) (*models.ClientProfile, error) {
	var profile models.ClientProfile
	err := db.First(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) FindProfessionalByUserID(db *gorm.DB, userID string) (*models.ProfessionalProfile, error) {
	var profile models.ProfessionalProfile
	err := db.First(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) UpdateClient(db *gorm.DB, profile *models.ClientProfile) error {
	return db.Save(profile).Error
}

func (r *ProfileRepositoryImpl) UpdateProfessional(db *gorm.DB, profile *models.ProfessionalProfile) error {
	return db.Save(profile).Error
}

func (r *ProfileRepositoryImpl) ListProfessionals(db *gorm.DB, criteria ProfessionalCriteria) ([]models.ProfessionalProfile, int64, error) {
	query := db.Model(&models.ProfessionalProfile{}).Where("is_public = true")
	if criteria.City != "" {
		query = query.Where("city ILIKE ?", criteria.City)
	}
	if criteria.State != "" {
		query = query.Where("state = ?", criteria.State)
	}
	if criteria.Specialty != "" {
		query = query.Where("specialties @> ?", `["`+criteria.Specialty+`"]`)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []models.ProfessionalProfile
	err := query.
		Order("average_rating DESC, created_at DESC").
		Offset((criteria.Page - 1) * criteria.PageSize).
		Limit(criteria.PageSize).
		Find(&profiles).Error
	return profiles, total, err
}

// RefreshRatingCache recomputes the professional's denormalized rating
// from the reviews table.
func (r *ProfileRepositoryImpl) RefreshRatingCache(db *gorm.DB, userID string) error {
	return db.Exec(`
		UPDATE professional_profiles SET
			average_rating = COALESCE((SELECT AVG(rating) FROM reviews WHERE reviewed_id = ?), 0),
			review_count   = (SELECT COUNT(*) FROM reviews WHERE reviewed_id = ?),
			updated_at     = now()
		WHERE user_id = ?
	`, userID, userID, userID).Error
}
