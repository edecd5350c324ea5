package handlers

import (
	"net/http"

	"ecowork_backend/internal/middleware"
	"ecowork_backend/internal/models"
	"ecowork_backend/internal/services"
	"ecowork_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{BaseHandler: base, reviewService: reviewService}
}

func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/reviews")
	{
		public.GET("/users/:userId", h.ListForUser)
		public.GET("/engagements/:kind/:id", h.ListForEngagement)
	}

	protected := r.Group("/reviews")
	protected.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleClient, models.UserRoleProfessional))
	{
		protected.POST("", h.Create)
	}
}

func (h *ReviewHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	review, err := h.reviewService.Create(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) ListForUser(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	resp, err := h.reviewService.ListForUser(h.GetDB(c), c.Param("userId"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReviewHandler) ListForEngagement(c *gin.Context) {
	kind := models.EngagementKind(c.Param("kind"))
	if kind != models.EngagementKindProject && kind != models.EngagementKindPartnership {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown engagement kind"})
		return
	}

	reviews, err := h.reviewService.ListForEngagement(h.GetDB(c), kind, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}
