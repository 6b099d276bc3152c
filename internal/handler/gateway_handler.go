package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolpilot/schoolpilot-api/internal/dto"
	"github.com/schoolpilot/schoolpilot-api/internal/models"
	"github.com/schoolpilot/schoolpilot-api/internal/service"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
	"github.com/schoolpilot/schoolpilot-api/pkg/response"
)

// GatewayHandler exposes the polymorphic object endpoints of the staff
// portal.
type GatewayHandler struct {
	gateway *service.GatewayService
}

// NewGatewayHandler constructs a GatewayHandler.
func NewGatewayHandler(gateway *service.GatewayService) *GatewayHandler {
	return &GatewayHandler{gateway: gateway}
}

func entityTypeParam(c *gin.Context) (models.EntityType, bool) {
	t, ok := models.ParseEntityType(c.Param("type"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown entity type"))
		return "", false
	}
	return t, true
}

// Get godoc
// @Summary Fetch one entity
// @Tags Objects
// @Produce json
// @Param type path string true "Entity type"
// @Param id path string true "Entity ID"
// @Success 200 {object} response.Envelope
// @Router /staff/objects/{type}/{id} [get]
func (h *GatewayHandler) Get(c *gin.Context) {
	t, ok := entityTypeParam(c)
	if !ok {
		return
	}
	row, err := h.gateway.Get(c.Request.Context(), t, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, row, nil)
}

// Create godoc
// @Summary Create one entity
// @Tags Objects
// @Accept json
// @Produce json
// @Param payload body dto.GatewayCreateRequest true "Entity type and attributes"
// @Success 201 {object} response.Envelope
// @Router /staff/objects [post]
func (h *GatewayHandler) Create(c *gin.Context) {
	acting, ok := currentStaff(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.GatewayCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	t, ok := models.ParseEntityType(req.Type)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown entity type"))
		return
	}
	row, err := h.gateway.CreateNew(c.Request.Context(), acting, t, req.Attrs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, row)
}

// Update godoc
// @Summary Update one entity
// @Tags Objects
// @Accept json
// @Produce json
// @Param type path string true "Entity type"
// @Param id path string true "Entity ID"
// @Param payload body object true "Attributes"
// @Success 200 {object} response.Envelope
// @Router /staff/objects/{type}/{id} [patch]
func (h *GatewayHandler) Update(c *gin.Context) {
	acting, ok := currentStaff(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	t, ok := entityTypeParam(c)
	if !ok {
		return
	}
	var attrs map[string]interface{}
	if err := c.ShouldBindJSON(&attrs); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	row, err := h.gateway.UpdateExisting(c.Request.Context(), acting, t, c.Param("id"), attrs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, row, nil)
}

// Delete godoc
// @Summary Delete one entity
// @Tags Objects
// @Produce json
// @Param type path string true "Entity type"
// @Param id path string true "Entity ID"
// @Success 204
// @Router /staff/objects/{type}/{id} [delete]
func (h *GatewayHandler) Delete(c *gin.Context) {
	acting, ok := currentStaff(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	t, ok := entityTypeParam(c)
	if !ok {
		return
	}
	if err := h.gateway.DeleteExisting(c.Request.Context(), acting, t, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateMany godoc
// @Summary Bulk-create entities with partial-failure reporting
// @Tags Objects
// @Accept json
// @Produce json
// @Param payload body dto.GatewayCreateManyRequest true "Entity type and elements"
// @Success 200 {object} response.Envelope
// @Router /staff/objects/bulk [post]
func (h *GatewayHandler) CreateMany(c *gin.Context) {
	acting, ok := currentStaff(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.GatewayCreateManyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	t, ok := models.ParseEntityType(req.Type)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown entity type"))
		return
	}
	result, err := h.gateway.CreateMany(c.Request.Context(), acting, t, req.Items)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
