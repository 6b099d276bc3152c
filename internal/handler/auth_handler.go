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

// AuthHandler exposes one portal's authentication endpoints. The same
// handler serves both portals, bound to its account kind at registration.
type AuthHandler struct {
	auth *service.AuthService
	kind models.AccountKind
}

// NewAuthHandler constructs an AuthHandler for one portal.
func NewAuthHandler(auth *service.AuthService, kind models.AccountKind) *AuthHandler {
	return &AuthHandler{auth: auth, kind: kind}
}

// RequestActivation godoc
// @Summary Request an activation code
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body dto.RequestActivationRequest true "Account email"
// @Success 200 {object} response.Envelope
// @Router /auth/activation/request [post]
func (h *AuthHandler) RequestActivation(c *gin.Context) {
	var req dto.RequestActivationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	if err := h.auth.RequestActivation(c.Request.Context(), h.kind, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "verification code sent"}, nil)
}

// Activate godoc
// @Summary Activate an account with a verification code
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body dto.ActivateRequest true "Activation payload"
// @Success 200 {object} response.Envelope
// @Router /auth/activate [post]
func (h *AuthHandler) Activate(c *gin.Context) {
	var req dto.ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	result, err := h.auth.Activate(c.Request.Context(), h.kind, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Login godoc
// @Summary Log in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body dto.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	result, err := h.auth.Login(c.Request.Context(), h.kind, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Logout godoc
// @Summary Revoke the current session token
// @Tags Auth
// @Produce json
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), currentToken(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ForgotPassword godoc
// @Summary Request a password-reset code
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body dto.ForgotPasswordRequest true "Account email"
// @Success 200 {object} response.Envelope
// @Router /auth/password/forgot [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	if err := h.auth.ForgotPassword(c.Request.Context(), h.kind, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "verification code sent"}, nil)
}

// ResetPassword godoc
// @Summary Reset the password with a verification code
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body dto.ResetPasswordRequest true "Reset payload"
// @Success 200 {object} response.Envelope
// @Router /auth/password/reset [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	if err := h.auth.ResetPassword(c.Request.Context(), h.kind, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "password updated"}, nil)
}
