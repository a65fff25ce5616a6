package handlers

import (
	"fmt"
	"time"

	"eac-registry/internal/core/services"
	"eac-registry/internal/pkg/pagination"
	"eac-registry/internal/pkg/response"
	"eac-registry/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RegistryHandler handles the public register and staff registry views
type RegistryHandler struct {
	registryService *services.RegistryService
}

// NewRegistryHandler creates a new registry handler
func NewRegistryHandler(registryService *services.RegistryService) *RegistryHandler {
	return &RegistryHandler{registryService: registryService}
}

// LookupMember verifies a membership number
// @Summary Verify member
// @Description Public check that a membership number is registered and in good standing
// @Tags Registry
// @Produce json
// @Param number path string true "Membership number"
// @Success 200 {object} response.Response{data=models.RegistryEntry}
// @Failure 404 {object} response.Problem
// @Router /registry/members/{number} [get]
func (h *RegistryHandler) LookupMember(c *fiber.Ctx) error {
	entry, err := h.registryService.LookupMember(c.UserContext(), c.Params("number"))
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Member found", entry)
}

// LookupOrganization verifies an organization registration number
// @Summary Verify organization
// @Tags Registry
// @Produce json
// @Param number path string true "Registration number"
// @Success 200 {object} response.Response{data=models.RegistryEntry}
// @Failure 404 {object} response.Problem
// @Router /registry/organizations/{number} [get]
func (h *RegistryHandler) LookupOrganization(c *fiber.Ctx) error {
	entry, err := h.registryService.LookupOrganization(c.UserContext(), c.Params("number"))
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Organization found", entry)
}

// ListMembers lists member records
// @Summary List members
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "active, expired or suspended"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response{data=pagination.Page}
// @Router /admin/members [get]
func (h *RegistryHandler) ListMembers(c *fiber.Ctx) error {
	status, err := statusFilter(c)
	if err != nil {
		return handleError(c, err)
	}
	params := pagination.FromQuery(c)

	rows, total, err := h.registryService.ListMembers(c.UserContext(), status, params.Offset, params.Limit)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Members retrieved successfully", pagination.New(rows, params, total))
}

// ListOrganizations lists organization records
// @Summary List organizations
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "active, expired or suspended"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response{data=pagination.Page}
// @Router /admin/organizations [get]
func (h *RegistryHandler) ListOrganizations(c *fiber.Ctx) error {
	status, err := statusFilter(c)
	if err != nil {
		return handleError(c, err)
	}
	params := pagination.FromQuery(c)

	rows, total, err := h.registryService.ListOrganizations(c.UserContext(), status, params.Offset, params.Limit)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Organizations retrieved successfully", pagination.New(rows, params, total))
}

// Export downloads the whole registry as a workbook
// @Summary Export registry
// @Tags Admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /admin/registry/export [get]
func (h *RegistryHandler) Export(c *fiber.Ctx) error {
	data, err := h.registryService.Export(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}

	name := fmt.Sprintf("eac-registry-%s.xlsx", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(data)
}

func statusFilter(c *fiber.Ctx) (string, error) {
	status := c.Query("status")
	if !services.ValidStatus(status) {
		return "", validation.Field("status", "must be active, expired or suspended")
	}
	return status, nil
}
