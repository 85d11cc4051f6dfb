package handlers

import (
	"net/http"

	"maidmatch_backend/internal/auth"
	"maidmatch_backend/internal/middleware"
	"maidmatch_backend/internal/services"
	"maidmatch_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	jobs := r.Group("/jobs/:id/reviews")
	jobs.Use(authMW)
	{
		jobs.POST("", middleware.RequirePermission(auth.PermReviewsWrite), h.SubmitReview)
		jobs.GET("", h.GetJobReviews)
	}

	reviews := r.Group("/reviews")
	reviews.Use(authMW)
	{
		reviews.GET("/:id", h.GetReview)
		reviews.PATCH("/:id", h.UpdateReview)
		reviews.DELETE("/:id", h.DeleteReview)
	}

	users := r.Group("/users/:id")
	users.Use(authMW)
	{
		users.GET("/reviews", h.GetUserReviews)
		users.GET("/rating", h.GetRatingStats)
	}
}

// SubmitReview godoc
// @Summary Review the other party of a completed job
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Param review body dto.SubmitReviewRequest true "Review"
// @Success 201 {object} dto.ReviewResponse
// @Failure 400 {object} apperrors.ErrorResponse "Rating out of range"
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Job not completed or already reviewed"
// @Router /jobs/{id}/reviews [post]
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	reviewerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.SubmitReview(h.GetDB(c), c.Param("id"), reviewerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// GetJobReviews godoc
// @Summary Reviews left on a job
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {array} dto.ReviewResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /jobs/{id}/reviews [get]
func (h *ReviewHandler) GetJobReviews(c *gin.Context) {
	reviews, err := h.reviewService.GetJobReviews(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// @Summary Get a review
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} dto.ReviewResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /reviews/{id} [get]
func (h *ReviewHandler) GetReview(c *gin.Context) {
	review, err := h.reviewService.GetReview(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// @Summary Edit own review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param review body dto.UpdateReviewRequest true "Changes"
// @Success 200 {object} dto.ReviewResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /reviews/{id} [patch]
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	reviewerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.UpdateReview(h.GetDB(c), c.Param("id"), reviewerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// @Summary Delete own review
// @Tags reviews
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 204
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	reviewerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.reviewService.DeleteReview(h.GetDB(c), c.Param("id"), reviewerID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Reviews received by a user
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} dto.ReviewListResponse
// @Router /users/{id}/reviews [get]
func (h *ReviewHandler) GetUserReviews(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	reviews, err := h.reviewService.GetUserReviews(h.GetDB(c), c.Param("id"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// @Summary Rating breakdown of a user
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} repositories.RatingStats
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /users/{id}/rating [get]
func (h *ReviewHandler) GetRatingStats(c *gin.Context) {
	stats, err := h.reviewService.GetRatingStats(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
