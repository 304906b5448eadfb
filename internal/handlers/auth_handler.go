package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursekit/platform-service/internal/services"
	"github.com/coursekit/platform-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService, logger utils.Logger, exposeDetails bool) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger, exposeDetails),
		authService: authService,
	}
}

// Register creates a new account. The account starts inactive until the
// email is verified.
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Registering user", "email", req.Email)

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user.Summary())
}

// Login exchanges credentials for an access/refresh token pair.
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Login attempt", "email", req.Email)

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh trades a refresh token for a fresh token pair.
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RequestVerification mints a verify-email token for an inactive account.
// Delivery is handled by a downstream consumer of the account events; the
// token is also returned directly for clients that drive the flow themselves.
// @Router /auth/verify-email/request [post]
func (h *AuthHandler) RequestVerification(c *gin.Context) {
	var req services.ForgotPasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Verification token requested", "email", req.Email)

	tok, err := h.authService.GenerateVerificationToken(c.Request.Context(), req.Email)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": tok})
}

// VerifyEmail activates the account bound to a verify-email token.
// @Router /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req services.VerifyEmailRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.authService.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}

// ForgotPassword mints a reset-password token for an existing account.
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req services.ForgotPasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Password reset requested", "email", req.Email)

	tok, err := h.authService.GenerateResetToken(c.Request.Context(), req.Email)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": tok})
}

// ResetPassword replaces the credential bound to a reset-password token.
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req services.ResetPasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password reset"})
}

// ChangePassword rotates the authenticated principal's password.
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req services.ChangePasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}
