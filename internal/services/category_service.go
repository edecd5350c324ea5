package services

import (
	"errors"

	"ecowork_backend/internal/models"
	"ecowork_backend/internal/repositories"
	"ecowork_backend/internal/services/dto"
	"ecowork_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type CategoryService interface {
	Create(db *gorm.DB, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	GetByID(db *gorm.DB, id string) (*dto.CategoryResponse, error)
	GetBySlug(db *gorm.DB, slug string) (*dto.CategoryResponse, error)
	List(db *gorm.DB, activeOnly bool) ([]dto.CategoryResponse, error)
	Update(db *gorm.DB, id string, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	Delete(db *gorm.DB, id string) error
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
}

func NewCategoryService(categoryRepo repositories.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) Create(db *gorm.DB, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	category := &models.ServiceCategory{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		IsActive:    true,
	}
	if err := s.categoryRepo.Create(db, category); err != nil {
		if errors.Is(err, repositories.ErrCategoryAlreadyExists) {
			return nil, apperrors.ErrAlreadyExists(err)
		}
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToCategoryResponse(category)
	return &resp, nil
}

func (s *categoryService) GetByID(db *gorm.DB, id string) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(db, id)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	resp := dto.ToCategoryResponse(category)
	return &resp, nil
}

func (s *categoryService) GetBySlug(db *gorm.DB, slug string) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.FindBySlug(db, slug)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	resp := dto.ToCategoryResponse(category)
	return &resp, nil
}

func (s *categoryService) List(db *gorm.DB, activeOnly bool) ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.List(db, activeOnly)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, dto.ToCategoryResponse(&categories[i]))
	}
	return items, nil
}

func (s *categoryService) Update(db *gorm.DB, id string, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(db, id)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.categoryRepo.Update(db, category); err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToCategoryResponse(category)
	return &resp, nil
}

func (s *categoryService) Delete(db *gorm.DB, id string) error {
	if _, err := s.categoryRepo.FindByID(db, id); err != nil {
		return apperrors.ErrNotFound(err)
	}
	if err := s.categoryRepo.Delete(db, id); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
