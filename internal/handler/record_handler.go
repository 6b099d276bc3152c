package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolpilot/schoolpilot-api/internal/service"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
	"github.com/schoolpilot/schoolpilot-api/pkg/response"
)

// RecordHandler exposes the approval-workflow endpoints of the staff
// portal.
type RecordHandler struct {
	records *service.RecordService
}

// NewRecordHandler constructs a RecordHandler.
func NewRecordHandler(records *service.RecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// List godoc
// @Summary List the records created by the caller
// @Tags Records
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /staff/records [get]
func (h *RecordHandler) List(c *gin.Context) {
	acting, ok := currentStaff(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	records, err := h.records.ListMine(c.Request.Context(), acting)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Approve godoc
// @Summary Advance a record one approval stage
// @Tags Records
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Router /staff/records/{id}/approve [post]
func (h *RecordHandler) Approve(c *gin.Context) {
	acting, ok := currentStaff(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	record, err := h.records.Approve(c.Request.Context(), acting, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}
