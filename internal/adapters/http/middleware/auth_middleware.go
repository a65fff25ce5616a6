package middleware

import (
	"errors"
	"strings"

	"eac-registry/internal/config"
	"eac-registry/internal/core/domain"
	"eac-registry/internal/pkg/jwt"
	"eac-registry/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthMiddleware
const (
	LocalUserID      = "userID"
	LocalEmail       = "email"
	LocalRole        = "role"
	LocalApplicantID = "applicantID"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := bearerToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalApplicantID, claims.ApplicantID)

		return c.Next()
	}
}

// bearerToken reads the access token from the cookie, then the Authorization header
func bearerToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if domain.Role(role) == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only ADMIN role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// RegistrarOrAdmin allows the stage reviewers
func RegistrarOrAdmin() fiber.Handler {
	return RoleMiddleware(domain.RoleRegistrar, domain.RoleAdmin)
}

// FinanceOrAdmin allows fee reviewers
func FinanceOrAdmin() fiber.Handler {
	return RoleMiddleware(domain.RoleFinance, domain.RoleAdmin)
}

// StaffOnly allows any council staff role
func StaffOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleRegistrar, domain.RoleFinance, domain.RoleAdmin)
}

// Actor returns the authenticated caller of the request
func Actor(c *fiber.Ctx) domain.Actor {
	userID, _ := c.Locals(LocalUserID).(uint)
	role, _ := c.Locals(LocalRole).(string)
	return domain.Actor{
		UserID: userID,
		Role:   domain.Role(role),
		IP:     c.IP(),
	}
}
