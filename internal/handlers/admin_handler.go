package handlers

import (
	"net/http"

	"ecowork_backend/internal/middleware"
	"ecowork_backend/internal/models"
	"ecowork_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	*BaseHandler
	adminService services.AdminService
}

func NewAdminHandler(base *BaseHandler, adminService services.AdminService) *AdminHandler {
	return &AdminHandler{BaseHandler: base, adminService: adminService}
}

func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.GET("/users", h.ListUsers)
		admin.POST("/users/:id/suspend", h.SuspendUser)
		admin.POST("/users/:id/activate", h.ActivateUser)
		admin.POST("/users/:id/ban", h.BanUser)
		admin.GET("/stats", h.Stats)
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	role := models.UserRole(c.Query("role"))
	status := models.UserStatus(c.Query("status"))

	users, total, err := h.adminService.ListUsers(h.GetDB(c), role, status, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
	})
}

func (h *AdminHandler) SuspendUser(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.adminService.SuspendUser(h.GetDB(c), adminID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User suspended"})
}

func (h *AdminHandler) ActivateUser(c *gin.Context) {
	if err := h.adminService.ActivateUser(h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User activated"})
}

func (h *AdminHandler) BanUser(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.adminService.BanUser(h.GetDB(c), adminID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User banned"})
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
