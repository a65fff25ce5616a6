package handlers

import (
	"eac-registry/internal/adapters/http/middleware"
	"eac-registry/internal/core/services"
	"eac-registry/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetAdminDashboard returns admin dashboard data
// @Summary Admin Dashboard
// @Description Pipeline counts, fee totals and registry size (Admin only)
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=services.AdminDashboardData}
// @Failure 401 {object} response.Problem
// @Failure 403 {object} response.Problem
// @Router /admin/dashboard [get]
func (h *DashboardHandler) GetAdminDashboard(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetAdminDashboard(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Admin dashboard retrieved successfully", data)
}

// GetReviewerDashboard returns the work queue of the calling staff member
// @Summary Reviewer Dashboard
// @Description Queue size and recent activity for registrars and finance officers
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=services.ReviewerDashboardData}
// @Failure 401 {object} response.Problem
// @Failure 403 {object} response.Problem
// @Router /admin/dashboard/reviewer [get]
func (h *DashboardHandler) GetReviewerDashboard(c *fiber.Ctx) error {
	actor := middleware.Actor(c)

	data, err := h.dashboardService.GetReviewerDashboard(c.UserContext(), actor.UserID, actor.Role)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Reviewer dashboard retrieved successfully", data)
}
