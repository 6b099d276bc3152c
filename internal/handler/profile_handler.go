package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolpilot/schoolpilot-api/internal/dto"
	"github.com/schoolpilot/schoolpilot-api/internal/service"
	appErrors "github.com/schoolpilot/schoolpilot-api/pkg/errors"
	"github.com/schoolpilot/schoolpilot-api/pkg/response"
)

// ProfileHandler exposes the self-service account endpoints shared by both
// portals.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Me godoc
// @Summary Return the caller's account
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /me [get]
func (h *ProfileHandler) Me(c *gin.Context) {
	if staff, ok := currentStaff(c); ok {
		response.JSON(c, http.StatusOK, staff, nil)
		return
	}
	if student, ok := currentStudent(c); ok {
		response.JSON(c, http.StatusOK, student, nil)
		return
	}
	response.Error(c, appErrors.ErrUnauthorized)
}

// Update godoc
// @Summary Update the caller's own profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param payload body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} response.Envelope
// @Router /me [patch]
func (h *ProfileHandler) Update(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	updated, err := h.profiles.UpdateProfile(c.Request.Context(), account, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}
