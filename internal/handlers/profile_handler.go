package handlers

import (
	"net/http"

	"ecowork_backend/internal/middleware"
	"ecowork_backend/internal/models"
	"ecowork_backend/internal/services"
	"ecowork_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(base *BaseHandler, profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{BaseHandler: base, profileService: profileService}
}

func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public directory of professionals.
	public := r.Group("/professionals")
	{
		public.GET("", h.ListProfessionals)
		public.GET("/:userId", h.GetPublicProfessional)
	}

	me := r.Group("/profiles/me")
	me.Use(middleware.AuthMiddleware())
	{
		me.GET("", h.GetMyProfile)
		me.PUT("", h.UpdateMyProfile)
	}
}

func (h *ProfileHandler) ListProfessionals(c *gin.Context) {
	var query dto.ListProfessionalsQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	profiles, total, err := h.profileService.ListProfessionals(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"professionals": profiles,
		"total":         total,
	})
}

func (h *ProfileHandler) GetPublicProfessional(c *gin.Context) {
	profile, err := h.profileService.GetPublicProfessional(h.GetDB(c), c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)
	switch h.GetUserRole(c) {
	case models.UserRoleClient:
		profile, err := h.profileService.GetClientProfile(db, userID)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	case models.UserRoleProfessional:
		profile, err := h.profileService.GetProfessionalProfile(db, userID)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "No profile for this role"})
	}
}

func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)
	switch h.GetUserRole(c) {
	case models.UserRoleClient:
		var req dto.UpdateClientProfileRequest
		if !h.BindAndValidateJSON(c, &req) {
			return
		}
		profile, err := h.profileService.UpdateClientProfile(db, userID, &req)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	case models.UserRoleProfessional:
		var req dto.UpdateProfessionalProfileRequest
		if !h.BindAndValidateJSON(c, &req) {
			return
		}
		profile, err := h.profileService.UpdateProfessionalProfile(db, userID, &req)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "No profile for this role"})
	}
}
