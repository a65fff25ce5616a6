package handlers

import (
	"time"

	"eac-registry/internal/adapters/http/middleware"
	"eac-registry/internal/config"
	"eac-registry/internal/core/services"
	"eac-registry/internal/pkg/response"
	"eac-registry/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// ResendVerificationRequest represents resend verification request body
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RegisterIndividual handles individual applicant registration
// @Summary Register individual applicant
// @Description Create an applicant login and email a verification link
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterIndividualInput true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Problem
// @Failure 409 {object} response.Problem
// @Router /auth/register/individual [post]
func (h *AuthHandler) RegisterIndividual(c *fiber.Ctx) error {
	var req services.RegisterIndividualInput
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}

	result, err := h.authService.RegisterIndividual(c.UserContext(), &req)
	if err != nil {
		return handleError(c, err)
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)
	return response.Created(c, "Registration successful, check your email to verify your address", fiber.Map{
		"access_token": result.AccessToken,
		"user":         result.User,
	})
}

// RegisterOrganization handles organization applicant registration
// @Summary Register organization applicant
// @Description Create an organization login and email a verification link
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterOrganizationInput true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Problem
// @Failure 409 {object} response.Problem
// @Router /auth/register/organization [post]
func (h *AuthHandler) RegisterOrganization(c *fiber.Ctx) error {
	var req services.RegisterOrganizationInput
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}

	result, err := h.authService.RegisterOrganization(c.UserContext(), &req)
	if err != nil {
		return handleError(c, err)
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)
	return response.Created(c, "Registration successful, check your email to verify your address", fiber.Map{
		"access_token": result.AccessToken,
		"user":         result.User,
	})
}

// VerifyEmail consumes an email verification link
// @Summary Verify email
// @Tags Auth
// @Produce json
// @Param token query string true "Verification token"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Problem
// @Router /auth/verify-email [get]
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return response.Validation(c, map[string]string{"token": "is required"})
	}

	user, err := h.authService.VerifyEmail(c.UserContext(), token)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Email verified", fiber.Map{"user": user})
}

// ResendVerification emails a fresh verification link
// @Summary Resend verification email
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body ResendVerificationRequest true "Email"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Problem
// @Router /auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var req ResendVerificationRequest
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}

	if err := h.authService.ResendVerification(c.UserContext(), req.Email); err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "If the address is registered, a new verification link is on its way", nil)
}

// Login handles user login
// @Summary Login user
// @Description Authenticate user and return tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Problem
// @Failure 401 {object} response.Problem
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}

	result, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return handleError(c, err)
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Success(c, "Login successful", fiber.Map{
		"access_token": result.AccessToken,
		"user":         result.User,
	})
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Description Refresh access token using refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Problem
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		return response.Unauthorized(c, "Refresh token not found")
	}

	result, err := h.authService.RefreshToken(c.UserContext(), refreshToken)
	if err != nil {
		h.clearAuthCookies(c)
		return handleError(c, err)
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Success(c, "Token refreshed successfully", fiber.Map{
		"access_token": result.AccessToken,
		"user":         result.User,
	})
}

// Logout handles user logout
// @Summary Logout user
// @Description Logout user and revoke refresh token
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if refreshToken := c.Cookies("refresh_token"); refreshToken != "" {
		_ = h.authService.Logout(c.UserContext(), refreshToken)
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out successfully", nil)
}

// LogoutAll handles logout from all devices
// @Summary Logout from all devices
// @Description Revoke all refresh tokens for the user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Problem
// @Router /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	actor := middleware.Actor(c)
	if err := h.authService.LogoutAll(c.UserContext(), actor.UserID); err != nil {
		return handleError(c, err)
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out from all devices", nil)
}

// Me returns the current user info
// @Summary Get current user
// @Description Get the authenticated user with applicant status
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Problem
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.authService.Me(c.UserContext(), middleware.Actor(c).UserID)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "User retrieved successfully", fiber.Map{"user": user})
}

// setAuthCookies sets access and refresh token cookies
func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.AccessTokenMins * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.RefreshTokenDays * 24 * 60 * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}

// clearAuthCookies clears auth cookies
func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Now().Add(-1 * time.Hour),
			Secure:   h.cfg.Cookie.Secure,
			HTTPOnly: true,
			SameSite: h.cfg.Cookie.SameSite,
			Domain:   h.cfg.Cookie.Domain,
		})
	}
}

// parseBody decodes and validates a JSON request body
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return validation.Field("body", "invalid request body")
	}
	return validation.Struct(dst)
}
