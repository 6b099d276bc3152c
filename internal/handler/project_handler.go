package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolpilot/schoolpilot-api/internal/dto"
	"github.com/schoolpilot/schoolpilot-api/internal/service"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
	"github.com/schoolpilot/schoolpilot-api/pkg/response"
)

// ProjectHandler exposes the project endpoints of both portals: staff
// grade, students submit.
type ProjectHandler struct {
	projects *service.ProjectService
}

// NewProjectHandler constructs a ProjectHandler.
func NewProjectHandler(projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// ListMine godoc
// @Summary List the projects created by the caller
// @Tags Projects
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /staff/projects [get]
func (h *ProjectHandler) ListMine(c *gin.Context) {
	acting, ok := currentStaff(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	projects, err := h.projects.ListMine(c.Request.Context(), acting)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, projects, nil)
}

// Grade godoc
// @Summary Grade submissions on an owned project after the deadline
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param payload body dto.GradeProjectRequest true "Scores"
// @Success 200 {object} response.Envelope
// @Router /staff/projects/{id}/grade [post]
func (h *ProjectHandler) Grade(c *gin.Context) {
	acting, ok := currentStaff(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.GradeProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	project, err := h.projects.Grade(c.Request.Context(), acting, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, project, nil)
}

// ListForStudent godoc
// @Summary List projects for the student's registered courses
// @Tags Projects
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students/projects [get]
func (h *ProjectHandler) ListForStudent(c *gin.Context) {
	student, ok := currentStudent(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	projects, err := h.projects.ListForStudent(c.Request.Context(), student)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, projects, nil)
}

// Submit godoc
// @Summary Submit or replace an answer before the deadline
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param payload body dto.SubmitProjectRequest true "Answer"
// @Success 200 {object} response.Envelope
// @Router /students/projects/{id}/submit [post]
func (h *ProjectHandler) Submit(c *gin.Context) {
	student, ok := currentStudent(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SubmitProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	project, err := h.projects.Submit(c.Request.Context(), student, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, project, nil)
}
