package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolpilot/schoolpilot-api/internal/dto"
	"github.com/schoolpilot/schoolpilot-api/internal/service"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
	"github.com/schoolpilot/schoolpilot-api/pkg/response"
)

// StaffHandler exposes staff-administration endpoints.
type StaffHandler struct {
	staff *service.StaffService
}

// NewStaffHandler constructs a StaffHandler.
func NewStaffHandler(staff *service.StaffService) *StaffHandler {
	return &StaffHandler{staff: staff}
}

// AssignCourses godoc
// @Summary Overwrite a staff member's course assignment
// @Tags Staff
// @Accept json
// @Produce json
// @Param payload body dto.AssignCoursesRequest true "Staff and courses"
// @Success 200 {object} response.Envelope
// @Router /staff/courses/assign [post]
func (h *StaffHandler) AssignCourses(c *gin.Context) {
	acting, ok := currentStaff(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.AssignCoursesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	updated, err := h.staff.AssignCourses(c.Request.Context(), acting, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}
