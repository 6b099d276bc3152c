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

// CatalogHandler exposes the available-course endpoints of the staff
// portal.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Get godoc
// @Summary Read available-course buckets for a department or faculty
// @Tags Catalog
// @Produce json
// @Param owner path string true "department or faculty"
// @Param id path string true "Owner ID"
// @Success 200 {object} response.Envelope
// @Router /staff/courses/available/{owner}/{id} [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	kind, ok := models.ParseCatalogOwnerKind(c.Param("owner"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown catalog owner"))
		return
	}
	buckets, err := h.catalog.AvailableCourses(c.Request.Context(), kind, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, buckets, nil)
}

// Set godoc
// @Summary Replace available-course buckets per (level, semester)
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.SetCoursesRequest true "Owner and course references"
// @Success 200 {object} response.Envelope
// @Router /staff/courses/available [put]
func (h *CatalogHandler) Set(c *gin.Context) {
	acting, ok := currentStaff(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SetCoursesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	kind, ok := models.ParseCatalogOwnerKind(req.Owner)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown catalog owner"))
		return
	}
	buckets, err := h.catalog.SetAvailableCourses(c.Request.Context(), acting, kind, req.OwnerID, req.CourseIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, buckets, nil)
}

// Unset godoc
// @Summary Remove available-course buckets by (level, semester) key
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.UnsetCoursesRequest true "Owner and bucket keys"
// @Success 200 {object} response.Envelope
// @Router /staff/courses/available [delete]
func (h *CatalogHandler) Unset(c *gin.Context) {
	acting, ok := currentStaff(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.UnsetCoursesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	kind, ok := models.ParseCatalogOwnerKind(req.Owner)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown catalog owner"))
		return
	}
	buckets, err := h.catalog.UnsetAvailableCourses(c.Request.Context(), acting, kind, req.OwnerID, req.Keys)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, buckets, nil)
}
