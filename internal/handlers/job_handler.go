package handlers

import (
	"encoding/json"
	"net/http"

	"maidmatch_backend/internal/auth"
	"maidmatch_backend/internal/logger"
	"maidmatch_backend/internal/middleware"
	"maidmatch_backend/internal/services"
	"maidmatch_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
	}
}

func (h *JobHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	jobs := r.Group("/jobs")
	jobs.Use(authMW)
	{
		jobs.POST("", middleware.RequirePermission(auth.PermJobsCreate), h.CreateJob)
		jobs.GET("", h.ListJobs)
		jobs.GET("/stream", h.StreamJobs)
		jobs.GET("/:id", h.GetJob)
		jobs.PATCH("/:id", h.UpdateJob)
		jobs.POST("/:id/cancel", h.CancelJob)
		jobs.POST("/:id/complete", h.CompleteJob)
	}
}

// CreateJob godoc
// @Summary Post a job
// @Description Creates an open job owned by the calling requester
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param job body dto.CreateJobRequest true "Job"
// @Success 201 {object} dto.JobResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /jobs [post]
func (h *JobHandler) CreateJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.CreateJob(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

// ListJobs godoc
// @Summary List jobs
// @Description Page through jobs, newest first
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param status query []string false "Statuses" collectionFormat(multi)
// @Param location query string false "Location substring"
// @Param requester_id query string false "Requester"
// @Param provider_id query string false "Hired provider"
// @Param employment_type query string false "Employment type"
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} dto.JobListResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	var filter dto.JobFilterRequest
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}
	page, pageSize := ParsePagination(c)

	jobs, err := h.jobService.SearchJobs(h.GetDB(c), filter, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// StreamJobs godoc
// @Summary Stream jobs
// @Description Streams every matching job as newline-delimited JSON, oldest first
// @Tags jobs
// @Produce application/x-ndjson
// @Security BearerAuth
// @Param status query []string false "Statuses" collectionFormat(multi)
// @Param location query string false "Location substring"
// @Success 200 {object} dto.JobResponse
// @Router /jobs/stream [get]
func (h *JobHandler) StreamJobs(c *gin.Context) {
	var filter dto.JobFilterRequest
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}

	enc := json.NewEncoder(c.Writer)
	started := false
	for job, err := range h.jobService.ListJobs(h.GetDB(c), filter) {
		if err != nil {
			if !started {
				h.HandleServiceError(c, err)
				return
			}
			// headers are gone; cut the stream short
			logger.CtxWithError(c.Request.Context(), "job stream aborted", err)
			return
		}
		if !started {
			c.Header("Content-Type", "application/x-ndjson")
			c.Status(http.StatusOK)
			started = true
		}
		if err := enc.Encode(job); err != nil {
			logger.CtxWithError(c.Request.Context(), "job stream write failed", err)
			return
		}
		c.Writer.Flush()
	}
	if !started {
		c.Header("Content-Type", "application/x-ndjson")
		c.Status(http.StatusOK)
	}
}

// GetJob godoc
// @Summary Get a job
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} dto.JobResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.jobService.GetJob(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// UpdateJob godoc
// @Summary Update a job
// @Description Partial update by the owning requester. Unknown fields are rejected.
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Param patch body dto.UpdateJobFields true "Fields to change"
// @Success 200 {object} dto.JobResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse
// @Router /jobs/{id} [patch]
func (h *JobHandler) UpdateJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var patch dto.JobPatch
	if !h.BindPatch(c, &patch) {
		return
	}

	job, err := h.jobService.UpdateJob(h.GetDB(c), c.Param("id"), userID, patch)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// CancelJob godoc
// @Summary Cancel a job
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} dto.JobResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse
// @Router /jobs/{id}/cancel [post]
func (h *JobHandler) CancelJob(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	job, err := h.jobService.CancelJob(h.GetDB(c), c.Param("id"), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// CompleteJob godoc
// @Summary Complete a job
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} dto.JobResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse
// @Router /jobs/{id}/complete [post]
func (h *JobHandler) CompleteJob(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	job, err := h.jobService.CompleteJob(h.GetDB(c), c.Param("id"), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}
