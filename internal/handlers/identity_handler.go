package handlers

import (
	"net/http"

	"maidmatch_backend/internal/auth"
	"maidmatch_backend/internal/middleware"
	"maidmatch_backend/internal/services"
	"maidmatch_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// IdentityHandler exposes the local mirror of identities owned by the
// upstream identity provider.
type IdentityHandler struct {
	*BaseHandler
	identityService services.IdentityService
}

func NewIdentityHandler(base *BaseHandler, identityService services.IdentityService) *IdentityHandler {
	return &IdentityHandler{
		BaseHandler:     base,
		identityService: identityService,
	}
}

func (h *IdentityHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	identities := r.Group("/identities")
	identities.Use(authMW)
	{
		identities.GET("/:id", h.GetIdentity)
	}

	admin := r.Group("/admin/identities")
	admin.Use(authMW, middleware.RequirePermission(auth.PermIdentitiesWrite))
	{
		admin.PUT("/:id", h.UpsertIdentity)
	}
}

// @Summary Get an identity
// @Tags identities
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} dto.IdentityResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /identities/{id} [get]
func (h *IdentityHandler) GetIdentity(c *gin.Context) {
	identity, err := h.identityService.GetIdentity(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, identity)
}

// @Summary Create or replace an identity
// @Description Syncs role and verification status from the identity provider
// @Tags identities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param identity body dto.UpsertIdentityRequest true "Identity"
// @Success 200 {object} dto.IdentityResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /admin/identities/{id} [put]
func (h *IdentityHandler) UpsertIdentity(c *gin.Context) {
	var req dto.UpsertIdentityRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	identity, err := h.identityService.UpsertIdentity(h.GetDB(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, identity)
}
