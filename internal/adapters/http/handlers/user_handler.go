package handlers

import (
	"strconv"

	"eac-registry/internal/adapters/http/middleware"
	"eac-registry/internal/core/services"
	"eac-registry/internal/pkg/pagination"
	"eac-registry/internal/pkg/response"
	"eac-registry/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles staff account management
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers handles listing all users (Admin only)
// @Summary List all users
// @Description Get a paginated list of all users (Admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param role query string false "Role filter"
// @Param search query string false "Email or name"
// @Success 200 {object} response.Response{data=services.ListUsersOutput}
// @Failure 401 {object} response.Problem
// @Failure 403 {object} response.Problem
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.FromQuery(c)

	result, err := h.userService.ListUsers(c.UserContext(), &services.ListUsersInput{
		Page:   params.Page,
		Limit:  params.Limit,
		Role:   c.Query("role"),
		Search: c.Query("search"),
	})
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Users retrieved successfully", result)
}

// CreateStaff creates a council staff account (Admin only)
// @Summary Create staff user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateStaffInput true "Staff account"
// @Success 201 {object} response.Response{data=models.UserResponse}
// @Failure 400 {object} response.Problem
// @Failure 409 {object} response.Problem
// @Router /users [post]
func (h *UserHandler) CreateStaff(c *fiber.Ctx) error {
	var req services.CreateStaffInput
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}

	user, err := h.userService.CreateStaff(c.UserContext(), &req)
	if err != nil {
		return handleError(c, err)
	}

	return response.Created(c, "Staff user created", user)
}

// GetUser handles getting a user by ID (Admin only)
// @Summary Get user by ID
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response{data=models.UserResponse}
// @Failure 404 {object} response.Problem
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := userIDParam(c)
	if err != nil {
		return handleError(c, err)
	}

	user, err := h.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "User retrieved successfully", user)
}

// UpdateUser handles role, name and activation changes (Admin only)
// @Summary Update user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.UpdateUserByAdminInput true "Changes"
// @Success 200 {object} response.Response{data=models.UserResponse}
// @Failure 403 {object} response.Problem
// @Failure 404 {object} response.Problem
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := userIDParam(c)
	if err != nil {
		return handleError(c, err)
	}
	var req services.UpdateUserByAdminInput
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}

	user, err := h.userService.UpdateUserByAdmin(c.UserContext(), id, middleware.Actor(c).UserID, &req)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "User updated successfully", user)
}

// DeleteUser handles deleting a user (Admin only)
// @Summary Delete user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Problem
// @Failure 404 {object} response.Problem
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := userIDParam(c)
	if err != nil {
		return handleError(c, err)
	}

	if err := h.userService.DeleteUser(c.UserContext(), id, middleware.Actor(c).UserID); err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "User deleted successfully", nil)
}

// ChangePassword changes the caller's password
// @Summary Change password
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChangePasswordInput true "Passwords"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Problem
// @Router /users/me/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var req services.ChangePasswordInput
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}

	if err := h.userService.ChangePassword(c.UserContext(), middleware.Actor(c).UserID, &req); err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Password changed successfully", nil)
}

func userIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, validation.Field("id", "must be a positive integer")
	}
	return uint(id), nil
}
