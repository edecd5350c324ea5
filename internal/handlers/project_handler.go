package handlers

import (
	"net/http"

	"ecowork_backend/internal/middleware"
	"ecowork_backend/internal/models"
	"ecowork_backend/internal/services"
	"ecowork_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	*BaseHandler
	projectService     services.ProjectService
	applicationService services.ApplicationService
}

func NewProjectHandler(base *BaseHandler, projectService services.ProjectService, applicationService services.ApplicationService) *ProjectHandler {
	return &ProjectHandler{
		BaseHandler:        base,
		projectService:     projectService,
		applicationService: applicationService,
	}
}

func (h *ProjectHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/projects")
	{
		public.GET("", h.ListOpen)
		public.GET("/:id", h.GetByID)
	}

	clients := r.Group("/projects")
	clients.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleClient))
	{
		clients.POST("", h.Create)
		clients.GET("/mine", h.ListMine)
		clients.PUT("/:id", h.Update)
		clients.DELETE("/:id", h.Delete)
		clients.GET("/:id/applications", h.ListApplications)
	}

	// Both sides act on status: the owner and the assigned professional
	// have different allowed moves, resolved in the service.
	status := r.Group("/projects")
	status.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleClient, models.UserRoleProfessional))
	{
		status.POST("/:id/transition", h.Transition)
	}

	professionals := r.Group("/projects")
	professionals.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleProfessional))
	{
		professionals.POST("/:id/applications", h.Apply)
	}
}

func (h *ProjectHandler) ListOpen(c *gin.Context) {
	var query dto.ListProjectsQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	resp, err := h.projectService.ListOpen(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProjectHandler) GetByID(c *gin.Context) {
	project, err := h.projectService.GetByID(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	project, err := h.projectService.Create(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	projects, err := h.projectService.ListMine(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *ProjectHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	project, err := h.projectService.Update(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.projectService.Delete(h.GetDB(c), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

func (h *ProjectHandler) Transition(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.TransitionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	project, err := h.projectService.Transition(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Apply(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateApplicationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	application, err := h.applicationService.Apply(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, application)
}

func (h *ProjectHandler) ListApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	applications, err := h.applicationService.ListByProject(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": applications})
}
