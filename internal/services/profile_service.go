package services

import (
	"encoding/json"
	"errors"

	"ecowork_backend/internal/repositories"
	"ecowork_backend/internal/services/dto"
	"ecowork_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ProfileService interface {
	GetClientProfile(db *gorm.DB, userID string) (*dto.ClientProfileResponse, error)
	GetProfessionalProfile(db *gorm.DB, userID string) (*dto.ProfessionalProfileResponse, error)
	UpdateClientProfile(db *gorm.DB, userID string, req *dto.UpdateClientProfileRequest) (*dto.ClientProfileResponse, error)
	UpdateProfessionalProfile(db *gorm.DB, userID string, req *dto.UpdateProfessionalProfileRequest) (*dto.ProfessionalProfileResponse, error)
	// GetPublicProfessional hides profiles the owner marked private.
	GetPublicProfessional(db *gorm.DB, userID string) (*dto.ProfessionalProfileResponse, error)
	ListProfessionals(db *gorm.DB, query *dto.ListProfessionalsQuery) ([]dto.ProfessionalProfileResponse, int64, error)
}

type profileService struct {
	profileRepo repositories.ProfileRepository
	userRepo    repositories.UserRepository
}

func NewProfileService(profileRepo repositories.ProfileRepository, userRepo repositories.UserRepository) ProfileService {
	return &profileService{profileRepo: profileRepo, userRepo: userRepo}
}

func (s *profileService) GetClientProfile(db *gorm.DB, userID string) (*dto.ClientProfileResponse, error) {
	profile, err := s.profileRepo.FindClientByUserID(db, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	resp := dto.ToClientProfileResponse(profile)
	return &resp, nil
}

func (s *profileService) GetProfessionalProfile(db *gorm.DB, userID string) (*dto.ProfessionalProfileResponse, error) {
	profile, err := s.profileRepo.FindProfessionalByUserID(db, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	resp := dto.ToProfessionalProfileResponse(profile)
	return &resp, nil
}

func (s *profileService) UpdateClientProfile(db *gorm.DB, userID string, req *dto.UpdateClientProfileRequest) (*dto.ClientProfileResponse, error) {
	profile, err := s.profileRepo.FindClientByUserID(db, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	if req.Name != nil {
		profile.Name = *req.Name
	}
	if req.CompanyName != nil {
		profile.CompanyName = *req.CompanyName
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.City != nil {
		profile.City = *req.City
	}
	if req.State != nil {
		profile.State = *req.State
	}

	if err := s.profileRepo.UpdateClient(db, profile); err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToClientProfileResponse(profile)
	return &resp, nil
}

func (s *profileService) UpdateProfessionalProfile(db *gorm.DB, userID string, req *dto.UpdateProfessionalProfileRequest) (*dto.ProfessionalProfileResponse, error) {
	profile, err := s.profileRepo.FindProfessionalByUserID(db, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	if req.Name != nil {
		profile.Name = *req.Name
	}
	if req.DocumentNumber != nil {
		profile.DocumentNumber = *req.DocumentNumber
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.City != nil {
		profile.City = *req.City
	}
	if req.State != nil {
		profile.State = *req.State
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Specialties != nil {
		raw, err := json.Marshal(req.Specialties)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		profile.Specialties = raw
	}
	if req.IsPublic != nil {
		profile.IsPublic = *req.IsPublic
	}

	if err := s.profileRepo.UpdateProfessional(db, profile); err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToProfessionalProfileResponse(profile)
	return &resp, nil
}

func (s *profileService) GetPublicProfessional(db *gorm.DB, userID string) (*dto.ProfessionalProfileResponse, error) {
	profile, err := s.profileRepo.FindProfessionalByUserID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if !profile.IsPublic {
		return nil, apperrors.ErrNotFound(repositories.ErrProfileNotFound)
	}
	resp := dto.ToProfessionalProfileResponse(profile)
	return &resp, nil
}

func (s *profileService) ListProfessionals(db *gorm.DB, query *dto.ListProfessionalsQuery) ([]dto.ProfessionalProfileResponse, int64, error) {
	criteria := repositories.ProfessionalCriteria{
		City:      query.City,
		State:     query.State,
		Specialty: query.Specialty,
		Page:      normalizePage(query.Page),
		PageSize:  normalizePageSize(query.PageSize),
	}

	profiles, total, err := s.profileRepo.ListProfessionals(db, criteria)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	items := make([]dto.ProfessionalProfileResponse, 0, len(profiles))
	for i := range profiles {
		items = append(items, dto.ToProfessionalProfileResponse(&profiles[i]))
	}
	return items, total, nil
}

// Shared pagination guards; gorm treats non-positive limits as no limit.

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePageSize(size int) int {
	switch {
	case size < 1:
		return 20
	case size > 100:
		return 100
	default:
		return size
	}
}
