package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suprema-shop/auth-service/internal/apperrors"
	"github.com/suprema-shop/auth-service/internal/dto"
	"github.com/suprema-shop/auth-service/internal/service"
	"github.com/suprema-shop/auth-service/pkg/observability"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService service.AuthService
	cookies     cookieWriter
	metrics     *observability.AuthMetrics
}

// NewAuthHandler creates a new auth handler. cookieWindow scales the cookie
// lifetimes (see config.JWTConfig); metrics may be nil.
func NewAuthHandler(authService service.AuthService, cookieWindow int, metrics *observability.AuthMetrics) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookieWriter{window: cookieWindow},
		metrics:     metrics,
	}
}

// Signup creates an unverified account and sends the verification email.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.authService.Signup(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Status:  "success",
		Message: "Token sent to email",
	})
}

// AdminSignup creates a verified admin account. Routed behind Authenticate +
// RequireRoles(admin).
func (h *AuthHandler) AdminSignup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.authService.AdminSignup(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{Status: "success"})
}

// Login authenticates a user and sets both token cookies.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if h.metrics != nil {
			h.metrics.LoginFailures.Add(c.Request.Context(), 1)
		}
		respondError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.Logins.Add(c.Request.Context(), 1)
	}
	h.cookies.set(c, result.AccessToken, result.RefreshToken)

	c.JSON(http.StatusOK, dto.AuthResponse{
		Status:       "success",
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         dto.NewUserInfo(result.User),
	})
}

// Logout deletes the session record and clears both cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, apperrors.Unauthorized("User not found in context"))
		return
	}

	if err := h.authService.Logout(c.Request.Context(), user.ID.Hex()); err != nil {
		respondError(c, err)
		return
	}

	h.cookies.clear(c)

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Status:  "success",
		Message: "user logged out!",
	})
}

// Refresh rotates a refresh token presented in the cookie or the body.
func (h *AuthHandler) Refresh(c *gin.Context) {
	presented, _ := c.Cookie(refreshTokenCookie)
	if presented == "" {
		var req dto.RefreshRequest
		_ = c.ShouldBindJSON(&req)
		presented = req.RefreshToken
	}

	result, err := h.authService.Refresh(c.Request.Context(), presented, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.Refreshes.Add(c.Request.Context(), 1)
	}
	h.cookies.set(c, result.AccessToken, result.RefreshToken)

	c.JSON(http.StatusOK, dto.AuthResponse{
		Status:       "success",
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

// VerifyAccount flips the verification flag for the user in the URL.
func (h *AuthHandler) VerifyAccount(c *gin.Context) {
	user, err := h.authService.VerifyAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"user":   dto.NewUserInfo(user),
	})
}

// ForgotPassword issues a reset token and emails it.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Status:  "success",
		Message: "Token sent to email",
	})
}

// ResetPassword consumes the reset token from the URL.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.authService.ResetPassword(c.Request.Context(), c.Param("resetToken"), req.Password, req.PasswordConfirm)
	if err != nil {
		respondError(c, err)
		return
	}

	h.cookies.set(c, result.AccessToken, result.RefreshToken)

	c.JSON(http.StatusOK, dto.AuthResponse{
		Status:      "success",
		AccessToken: result.AccessToken,
	})
}

// UpdatePassword changes the password of the authenticated user and re-sets
// fresh cookies.
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, apperrors.Unauthorized("User not found in context"))
		return
	}

	var req dto.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.authService.UpdatePassword(c.Request.Context(), user.ID.Hex(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.cookies.clear(c)
	h.cookies.set(c, result.AccessToken, result.RefreshToken)

	c.JSON(http.StatusOK, dto.AuthResponse{
		Status:      "success",
		AccessToken: result.AccessToken,
	})
}

// GetMe returns the authenticated user's profile.
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, apperrors.Unauthorized("User not found in context"))
		return
	}

	c.JSON(http.StatusOK, dto.NewUserInfo(user))
}

// DeleteMe removes the authenticated user's account and session.
func (h *AuthHandler) DeleteMe(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, apperrors.Unauthorized("User not found in context"))
		return
	}

	if err := h.authService.DeleteAccount(c.Request.Context(), user.ID.Hex()); err != nil {
		respondError(c, err)
		return
	}

	h.cookies.clear(c)
	c.Status(http.StatusNoContent)
}

func respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	c.JSON(appErr.Status, dto.ErrorResponse{
		Error:   appErr.Code,
		Message: appErr.Message,
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "BadRequest",
		Message: err.Error(),
	})
}
