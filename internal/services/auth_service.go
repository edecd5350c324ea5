package services

import (
	"encoding/json"
	"errors"
	"time"

	"ecowork_backend/internal/auth"
	"ecowork_backend/internal/config"
	"ecowork_backend/internal/email"
	"ecowork_backend/internal/logger"
	"ecowork_backend/internal/models"
	"ecowork_backend/internal/repositories"
	"ecowork_backend/internal/services/dto"
	"ecowork_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const refreshTokenTTL = 30 * 24 * time.Hour

// FreePlanName is the plan every new user starts on. Seeded at startup.
const FreePlanName = "Free"

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(db *gorm.DB, req *dto.RefreshTokenRequest) (*dto.AuthResponse, error)
	Logout(db *gorm.DB, req *dto.LogoutRequest) error
	ChangePassword(db *gorm.DB, userID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	profileRepo      repositories.ProfileRepository
	subscriptionRepo repositories.SubscriptionRepository
	emailProvider    email.Provider
}

func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	profileRepo repositories.ProfileRepository,
	subscriptionRepo repositories.SubscriptionRepository,
	emailProvider email.Provider,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		profileRepo:      profileRepo,
		subscriptionRepo: subscriptionRepo,
		emailProvider:    emailProvider,
	}
}

func (s *authService) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}
	if req.Role != models.UserRoleClient && req.Role != models.UserRoleProfessional {
		return nil, apperrors.ErrInvalidUserRole
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Status:       models.UserStatusActive,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(tx, user); err != nil {
			if errors.Is(err, repositories.ErrUserAlreadyExists) {
				return apperrors.ErrEmailAlreadyExists
			}
			return apperrors.InternalError(err)
		}

		switch req.Role {
		case models.UserRoleClient:
			profile := &models.ClientProfile{
				UserID:      user.ID,
				Name:        req.Name,
				CompanyName: req.CompanyName,
				City:        req.City,
				State:       req.State,
			}
			if err := s.profileRepo.CreateClient(tx, profile); err != nil {
				return apperrors.InternalError(err)
			}
		case models.UserRoleProfessional:
			specialties, _ := json.Marshal([]string{})
			profile := &models.ProfessionalProfile{
				UserID:         user.ID,
				Name:           req.Name,
				DocumentNumber: req.DocumentNumber,
				City:           req.City,
				State:          req.State,
				Specialties:    specialties,
				IsPublic:       true,
			}
			if err := s.profileRepo.CreateProfessional(tx, profile); err != nil {
				return apperrors.InternalError(err)
			}
		}

		// New users start on the free plan seeded at startup. A missing
		// plan row only leaves the user without a subscription; any
		// other lookup failure aborts the registration.
		plan, err := s.subscriptionRepo.FindPlanByName(tx, FreePlanName)
		switch {
		case err == nil:
			sub := &models.UserSubscription{
				UserID:    user.ID,
				PlanID:    plan.ID,
				Status:    models.SubscriptionStatusActive,
				StartDate: time.Now(),
			}
			if err := s.subscriptionRepo.CreateSubscription(tx, sub); err != nil {
				return apperrors.InternalError(err)
			}
		case errors.Is(err, repositories.ErrPlanNotFound):
			logger.Warn("free plan missing, user starts without a subscription", "user_id", user.ID)
		default:
			return apperrors.InternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	go func() {
		if err := s.emailProvider.SendWelcome(user.Email, req.Name); err != nil {
			logger.Warn("welcome email failed", "user_id", user.ID, "error", err)
		}
	}()

	return s.issueTokens(db, user)
}

func (s *authService) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	switch user.Status {
	case models.UserStatusSuspended:
		return nil, apperrors.ErrUserSuspended
	case models.UserStatusBanned:
		return nil, apperrors.ErrUserBanned
	}

	return s.issueTokens(db, user)
}

func (s *authService) Refresh(db *gorm.DB, req *dto.RefreshTokenRequest) (*dto.AuthResponse, error) {
	stored, err := s.refreshTokenRepo.FindByToken(db, req.RefreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.refreshTokenRepo.DeleteByToken(db, stored.Token)
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(db, stored.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	// Rotate: the presented token is single-use.
	if err := s.refreshTokenRepo.DeleteByToken(db, stored.Token); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.issueTokens(db, user)
}

func (s *authService) Logout(db *gorm.DB, req *dto.LogoutRequest) error {
	if err := s.refreshTokenRepo.DeleteByToken(db, req.RefreshToken); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *authService) ChangePassword(db *gorm.DB, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}

	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.UpdatePassword(db, userID, hash); err != nil {
		return apperrors.InternalError(err)
	}

	// Invalidate every session on password change.
	if err := s.refreshTokenRepo.DeleteByUser(db, userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *authService) issueTokens(db *gorm.DB, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken := &models.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.refreshTokenRepo.Create(db, refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	cfg := config.GetConfig()
	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
		ExpiresAt:    time.Now().Add(time.Duration(cfg.JWT.TTL) * time.Minute),
		User:         dto.ToUserResponse(user),
	}, nil
}
