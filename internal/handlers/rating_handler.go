package handlers

import (
	"github.com/gin-gonic/gin"

	"fixrx_backend/internal/middleware"
	"fixrx_backend/internal/models"
	"fixrx_backend/internal/services"
	"fixrx_backend/internal/services/dto"
	"fixrx_backend/internal/validator"
)

type RatingHandler struct {
	*BaseHandler
	ratingService services.RatingService
}

func NewRatingHandler(v *validator.Validator, ratingService services.RatingService) *RatingHandler {
	return &RatingHandler{
		BaseHandler:   NewBaseHandler(v),
		ratingService: ratingService,
	}
}

// RegisterRoutes mounts the rating endpoints. Writes are consumer
// actions; reading a vendor's ratings and aggregate is open to any
// authenticated user.
func (h *RatingHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	// The :id segment is the rating id on writes and the vendor id on
	// reads; gin requires one wildcard name per position.
	ratings := r.Group("/ratings", authMW)
	{
		ratings.POST("", middleware.RoleMiddleware(models.UserRoleConsumer), h.CreateRating)
		ratings.PUT("/:id", middleware.RoleMiddleware(models.UserRoleConsumer), h.UpdateRating)
		ratings.DELETE("/:id", middleware.RoleMiddleware(models.UserRoleConsumer), h.DeleteRating)
		ratings.GET("/:id", h.ListRatings)
		ratings.GET("/:id/aggregation", h.GetAggregate)
	}
}

func (h *RatingHandler) CreateRating(c *gin.Context) {
	var req dto.CreateRatingRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.ratingService.CreateRating(h.GetDB(c), middleware.GetUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondCreated(c, resp)
}

func (h *RatingHandler) UpdateRating(c *gin.Context) {
	var req dto.UpdateRatingRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.ratingService.UpdateRating(h.GetDB(c), c.Param("id"), middleware.GetUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, resp)
}

func (h *RatingHandler) DeleteRating(c *gin.Context) {
	if err := h.ratingService.DeleteRating(h.GetDB(c), c.Param("id"), middleware.GetUserID(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, gin.H{"deleted": true})
}

// ListRatings returns a vendor's visible ratings with filtering,
// sorting and pagination.
func (h *RatingHandler) ListRatings(c *gin.Context) {
	var criteria dto.RatingSearchCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}

	resp, err := h.ratingService.ListRatings(h.GetDB(c), c.Param("id"), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, resp)
}

// GetAggregate returns the vendor's rating statistics. A vendor with
// no ratings gets a zero aggregate, not a 404.
func (h *RatingHandler) GetAggregate(c *gin.Context) {
	resp, err := h.ratingService.GetAggregate(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondOK(c, resp)
}
