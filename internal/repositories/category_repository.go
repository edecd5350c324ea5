package repositories

import (
	"errors"

	"ecowork_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound      = errors.New("service category not found")
	ErrCategoryAlreadyExists = errors.New("service category already exists")
)

type CategoryRepository interface {
	Create(db *gorm.DB, category *models.ServiceCategory) error
	FindByID(db *gorm.DB, id string) (*models.ServiceCategory, error)
	FindBySlug(db *gorm.DB, slug string) (*models.ServiceCategory, error)
	List(db *gorm.DB, activeOnly bool) ([]models.ServiceCategory, error)
	Update(db *gorm.DB, category *models.ServiceCategory) error
	Delete(db *gorm.DB, id string) error
}

type CategoryRepositoryImpl struct{}

func NewCategoryRepository() CategoryRepository {
	return &CategoryRepositoryImpl{}
}

func (r *CategoryRepositoryImpl) Create(db *gorm.DB, category *models.ServiceCategory) error {
	if err := db.Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrCategoryAlreadyExists
		}
		return err
	}
	return nil
}

func (r *CategoryRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.ServiceCategory, error) {
	var category models.ServiceCategory
	err := db.First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepositoryImpl) FindBySlug(db *gorm.DB, slug string) (*models.ServiceCategory, error) {
	var category models.ServiceCategory
	err := db.First(&category, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepositoryImpl) List(db *gorm.DB, activeOnly bool) ([]models.ServiceCategory, error) {
	query := db.Model(&models.ServiceCategory{})
	if activeOnly {
		query = query.Where("is_active = true")
	}

	var categories []models.ServiceCategory
	err := query.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepositoryImpl) Update(db *gorm.DB, category *models.ServiceCategory) error {
	return db.Save(category).Error
}

func (r *CategoryRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return db.Delete(&models.ServiceCategory{}, "id = ?", id).Error
}
