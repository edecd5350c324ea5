package services

import (
	"ecowork_backend/internal/models"
	"ecowork_backend/internal/repositories"
	"ecowork_backend/internal/services/dto"
	"ecowork_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type PlatformStats struct {
	TotalUsers    int64 `json:"total_users"`
	Clients       int64 `json:"clients"`
	Professionals int64 `json:"professionals"`
	OpenProjects  int64 `json:"open_projects"`
	OpenDemands   int64 `json:"open_demands"`
}

type AdminService interface {
	ListUsers(db *gorm.DB, role models.UserRole, status models.UserStatus, page, pageSize int) ([]dto.UserResponse, int64, error)
	SuspendUser(db *gorm.DB, adminID, userID string) error
	ActivateUser(db *gorm.DB, userID string) error
	BanUser(db *gorm.DB, adminID, userID string) error
	Stats(db *gorm.DB) (*PlatformStats, error)
}

type adminService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
}

func NewAdminService(userRepo repositories.UserRepository, refreshTokenRepo repositories.RefreshTokenRepository) AdminService {
	return &adminService{userRepo: userRepo, refreshTokenRepo: refreshTokenRepo}
}

func (s *adminService) ListUsers(db *gorm.DB, role models.UserRole, status models.UserStatus, page, pageSize int) ([]dto.UserResponse, int64, error) {
	criteria := repositories.UserCriteria{
		Role:     role,
		Status:   status,
		Page:     normalizePage(page),
		PageSize: normalizePageSize(pageSize),
	}
	users, total, err := s.userRepo.List(db, criteria)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.ToUserResponse(&users[i]))
	}
	return items, total, nil
}

func (s *adminService) SuspendUser(db *gorm.DB, adminID, userID string) error {
	return s.setStatus(db, adminID, userID, models.UserStatusSuspended)
}

func (s *adminService) ActivateUser(db *gorm.DB, userID string) error {
	return s.setStatus(db, "", userID, models.UserStatusActive)
}

func (s *adminService) BanUser(db *gorm.DB, adminID, userID string) error {
	return s.setStatus(db, adminID, userID, models.UserStatusBanned)
}

func (s *adminService) setStatus(db *gorm.DB, adminID, userID string, status models.UserStatus) error {
	if adminID != "" && adminID == userID {
		return apperrors.ErrInvalidOperation("admin", "Cannot change your own account status")
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}
	if user.Role == models.UserRoleAdmin && adminID != "" {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.userRepo.UpdateStatus(db, userID, status); err != nil {
		return apperrors.InternalError(err)
	}

	// Kill sessions when access is revoked.
	if status != models.UserStatusActive {
		if err := s.refreshTokenRepo.DeleteByUser(db, userID); err != nil {
			return apperrors.InternalError(err)
		}
	}
	return nil
}

func (s *adminService) Stats(db *gorm.DB) (*PlatformStats, error) {
	var stats PlatformStats

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := db.Model(&models.User{}).Where("role = ?", models.UserRoleClient).Count(&stats.Clients).Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := db.Model(&models.User{}).Where("role = ?", models.UserRoleProfessional).Count(&stats.Professionals).Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := db.Model(&models.Project{}).Where("status = ?", models.EngagementStatusOpen).Count(&stats.OpenProjects).Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := db.Model(&models.PartnershipDemand{}).Where("status = ?", models.EngagementStatusOpen).Count(&stats.OpenDemands).Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &stats, nil
}
