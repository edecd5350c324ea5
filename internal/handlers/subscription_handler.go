package handlers

import (
	"net/http"

	"ecowork_backend/internal/middleware"
	"ecowork_backend/internal/models"
	"ecowork_backend/internal/services"
	"ecowork_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	*BaseHandler
	subscriptionService services.SubscriptionService
}

func NewSubscriptionHandler(base *BaseHandler, subscriptionService services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{BaseHandler: base, subscriptionService: subscriptionService}
}

func (h *SubscriptionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/plans", h.ListPlans)

	subscriptions := r.Group("/subscriptions")
	subscriptions.Use(middleware.AuthMiddleware())
	{
		subscriptions.POST("", h.Subscribe)
		subscriptions.GET("/me", h.GetMine)
		subscriptions.DELETE("/me", h.CancelMine)
	}

	admin := r.Group("/admin/plans")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.GET("", h.ListAllPlans)
		admin.POST("", h.CreatePlan)
		admin.PUT("/:id", h.UpdatePlan)
		admin.DELETE("/:id", h.DeactivatePlan)
	}
}

func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	plans, err := h.subscriptionService.ListPlans(h.GetDB(c), true)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (h *SubscriptionHandler) ListAllPlans(c *gin.Context) {
	plans, err := h.subscriptionService.ListPlans(h.GetDB(c), false)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubscribeRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	subscription, err := h.subscriptionService.Subscribe(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subscription)
}

func (h *SubscriptionHandler) GetMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	subscription, err := h.subscriptionService.GetMySubscription(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, subscription)
}

func (h *SubscriptionHandler) CancelMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.subscriptionService.CancelMySubscription(h.GetDB(c), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscription cancelled"})
}

func (h *SubscriptionHandler) CreatePlan(c *gin.Context) {
	var req dto.CreatePlanRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	plan, err := h.subscriptionService.CreatePlan(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *SubscriptionHandler) UpdatePlan(c *gin.Context) {
	var req dto.UpdatePlanRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	plan, err := h.subscriptionService.UpdatePlan(h.GetDB(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *SubscriptionHandler) DeactivatePlan(c *gin.Context) {
	if err := h.subscriptionService.DeactivatePlan(h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan deactivated"})
}
