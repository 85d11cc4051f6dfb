package handlers

import (
	"net/http"

	"maidmatch_backend/internal/auth"
	"maidmatch_backend/internal/middleware"
	"maidmatch_backend/internal/models"
	"maidmatch_backend/internal/services"
	"maidmatch_backend/internal/services/dto"
	"maidmatch_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

func (h *ApplicationHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	jobs := r.Group("/jobs/:id")
	jobs.Use(authMW)
	{
		jobs.POST("/applications", middleware.RequirePermission(auth.PermApplicationsCreate), h.Apply)
		jobs.GET("/applications", h.GetJobApplications)
		jobs.POST("/applications/:providerId/reject", middleware.RequirePermission(auth.PermJobsManage), h.RejectApplication)
		jobs.POST("/hire", middleware.RequirePermission(auth.PermJobsManage), h.Hire)
	}

	my := r.Group("/applications")
	my.Use(authMW, middleware.RequirePermission(auth.PermApplicationsReadOwn))
	{
		my.GET("/my", h.GetMyApplications)
	}
}

// Apply godoc
// @Summary Apply to a job
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Param application body dto.ApplyRequest false "Application"
// @Success 201 {object} dto.ApplicationResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Job not open or already applied"
// @Router /jobs/{id}/applications [post]
func (h *ApplicationHandler) Apply(c *gin.Context) {
	providerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ApplyRequest
	if c.Request.ContentLength != 0 {
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}
	}

	app, err := h.applicationService.Apply(h.GetDB(c), c.Param("id"), providerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

// Hire godoc
// @Summary Hire an applicant
// @Description Accepts one pending application, rejects the others and starts the job
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Param hire body dto.HireRequest true "Provider to hire"
// @Success 200 {object} dto.JobResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse
// @Router /jobs/{id}/hire [post]
func (h *ApplicationHandler) Hire(c *gin.Context) {
	requesterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.HireRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.applicationService.Hire(h.GetDB(c), c.Param("id"), requesterID, req.ProviderID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// RejectApplication godoc
// @Summary Reject an application
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Param providerId path string true "Provider ID"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse
// @Router /jobs/{id}/applications/{providerId}/reject [post]
func (h *ApplicationHandler) RejectApplication(c *gin.Context) {
	requesterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	app, err := h.applicationService.RejectApplication(h.GetDB(c), c.Param("id"), requesterID, c.Param("providerId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// GetJobApplications godoc
// @Summary List applications of a job
// @Description Ordered by application time. Owner or admin only.
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {array} dto.ApplicationResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /jobs/{id}/applications [get]
func (h *ApplicationHandler) GetJobApplications(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	apps, err := h.applicationService.GetJobApplications(h.GetDB(c), c.Param("id"), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, apps)
}

// GetMyApplications godoc
// @Summary List own applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, accepted or rejected"
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} dto.ApplicationListResponse
// @Router /applications/my [get]
func (h *ApplicationHandler) GetMyApplications(c *gin.Context) {
	providerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	status := models.ApplicationStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		apperrors.HandleError(c, apperrors.ValidationError(map[string]string{"status": "must be one of pending, accepted, rejected"}))
		return
	}
	page, pageSize := ParsePagination(c)

	apps, err := h.applicationService.GetProviderApplications(h.GetDB(c), providerID, status, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, apps)
}
