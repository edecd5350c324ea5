package handlers

import (
	"net/http"

	"ecowork_backend/internal/middleware"
	"ecowork_backend/internal/models"
	"ecowork_backend/internal/services"
	"ecowork_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PartnershipHandler struct {
	*BaseHandler
	partnershipService services.PartnershipService
}

func NewPartnershipHandler(base *BaseHandler, partnershipService services.PartnershipService) *PartnershipHandler {
	return &PartnershipHandler{BaseHandler: base, partnershipService: partnershipService}
}

func (h *PartnershipHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/partnerships")
	{
		public.GET("", h.ListOpen)
		public.GET("/:id", h.GetDemand)
	}

	// Every write on partnerships is professional-to-professional.
	professionals := r.Group("/partnerships")
	professionals.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleProfessional))
	{
		professionals.POST("", h.CreateDemand)
		professionals.GET("/mine", h.ListMyDemands)
		professionals.PUT("/:id", h.UpdateDemand)
		professionals.DELETE("/:id", h.DeleteDemand)
		professionals.POST("/:id/transition", h.Transition)
		professionals.POST("/:id/applications", h.Apply)
		professionals.GET("/:id/applications", h.ListApplications)
	}

	applications := r.Group("/partnership-applications")
	applications.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleProfessional))
	{
		applications.GET("/mine", h.ListMyApplications)
		applications.POST("/:id/accept", h.Accept)
		applications.POST("/:id/reject", h.Reject)
		applications.DELETE("/:id", h.Withdraw)
	}
}

func (h *PartnershipHandler) ListOpen(c *gin.Context) {
	var query dto.ListDemandsQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	resp, err := h.partnershipService.ListOpenDemands(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PartnershipHandler) GetDemand(c *gin.Context) {
	demand, err := h.partnershipService.GetDemand(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, demand)
}

func (h *PartnershipHandler) CreateDemand(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDemandRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	demand, err := h.partnershipService.CreateDemand(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, demand)
}

func (h *PartnershipHandler) ListMyDemands(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	demands, err := h.partnershipService.ListMyDemands(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"demands": demands})
}

func (h *PartnershipHandler) UpdateDemand(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateDemandRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	demand, err := h.partnershipService.UpdateDemand(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, demand)
}

func (h *PartnershipHandler) DeleteDemand(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.partnershipService.DeleteDemand(h.GetDB(c), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Demand deleted"})
}

func (h *PartnershipHandler) Transition(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.TransitionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	demand, err := h.partnershipService.Transition(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, demand)
}

func (h *PartnershipHandler) Apply(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateApplicationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	application, err := h.partnershipService.Apply(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, application)
}

func (h *PartnershipHandler) ListApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	applications, err := h.partnershipService.ListApplications(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": applications})
}

func (h *PartnershipHandler) ListMyApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	applications, err := h.partnershipService.ListMyApplications(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": applications})
}

func (h *PartnershipHandler) Accept(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	application, err := h.partnershipService.Accept(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, application)
}

func (h *PartnershipHandler) Reject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	application, err := h.partnershipService.Reject(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, application)
}

func (h *PartnershipHandler) Withdraw(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.partnershipService.Withdraw(h.GetDB(c), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application withdrawn"})
}
