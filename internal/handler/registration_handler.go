package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/schoolpilot/schoolpilot-api/internal/dto"
	"github.com/schoolpilot/schoolpilot-api/internal/service"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
	"github.com/schoolpilot/schoolpilot-api/pkg/response"
)

// RegistrationHandler exposes the course-registration endpoints of the
// student portal.
type RegistrationHandler struct {
	registration *service.RegistrationService
}

// NewRegistrationHandler constructs a RegistrationHandler.
func NewRegistrationHandler(registration *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registration: registration}
}

// Available godoc
// @Summary List courses offered for the student's level and a semester
// @Tags Registration
// @Produce json
// @Param semester query int true "Semester"
// @Success 200 {object} response.Envelope
// @Router /students/courses/available [get]
func (h *RegistrationHandler) Available(c *gin.Context) {
	student, ok := currentStudent(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	semester, err := strconv.Atoi(c.Query("semester"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "semester must be a number"))
		return
	}
	available, err := h.registration.GetAvailable(c.Request.Context(), student, semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, available, nil)
}

// Registered godoc
// @Summary List the student's registration buckets
// @Tags Registration
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students/courses/registered [get]
func (h *RegistrationHandler) Registered(c *gin.Context) {
	student, ok := currentStudent(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, student.RegisteredCourses, nil)
}

// Register godoc
// @Summary Register courses for one semester, replacing the current bucket
// @Tags Registration
// @Accept json
// @Produce json
// @Param payload body dto.RegisterCoursesRequest true "Semester and courses"
// @Success 200 {object} response.Envelope
// @Router /students/courses/register [post]
func (h *RegistrationHandler) Register(c *gin.Context) {
	student, ok := currentStudent(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.RegisterCoursesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	bucket, err := h.registration.Register(c.Request.Context(), student, req.Semester, req.CourseIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bucket, nil)
}

// Unregister godoc
// @Summary Drop the registration bucket for one semester
// @Tags Registration
// @Produce json
// @Param semester query int true "Semester"
// @Success 204
// @Router /students/courses/register [delete]
func (h *RegistrationHandler) Unregister(c *gin.Context) {
	student, ok := currentStudent(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	semester, err := strconv.Atoi(c.Query("semester"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "semester must be a number"))
		return
	}
	if err := h.registration.Unregister(c.Request.Context(), student, semester); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
