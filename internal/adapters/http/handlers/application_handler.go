package handlers

import (
	"eac-registry/internal/adapters/http/middleware"
	"eac-registry/internal/core/services"
	"eac-registry/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles the applicant side of an application
type ApplicationHandler struct {
	applicationService *services.ApplicationService
	workflowService    *services.WorkflowService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applicationService *services.ApplicationService, workflowService *services.WorkflowService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
		workflowService:    workflowService,
	}
}

// StartIndividual opens an individual membership application
// @Summary Start individual application
// @Description Runs the eligibility rules and creates a draft with its fee and document checklist
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.StartIndividualInput true "Personal and education details"
// @Success 201 {object} response.Response{data=services.StartResult}
// @Failure 400 {object} response.Problem
// @Failure 403 {object} response.Problem
// @Failure 409 {object} response.Problem
// @Router /applications/individual/start [post]
func (h *ApplicationHandler) StartIndividual(c *fiber.Ctx) error {
	var req services.StartIndividualInput
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}

	result, err := h.applicationService.StartIndividual(c.UserContext(), middleware.Actor(c), &req)
	if err != nil {
		return handleError(c, err)
	}

	return response.Created(c, "Application started", result)
}

// StartOrganization opens an organization registration application
// @Summary Start organization application
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.StartOrganizationInput true "Company, trust account, PREA and directors"
// @Success 201 {object} response.Response{data=services.StartResult}
// @Failure 400 {object} response.Problem
// @Failure 409 {object} response.Problem
// @Router /applications/organization/start [post]
func (h *ApplicationHandler) StartOrganization(c *fiber.Ctx) error {
	var req services.StartOrganizationInput
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}

	result, err := h.applicationService.StartOrganization(c.UserContext(), middleware.Actor(c), &req)
	if err != nil {
		return handleError(c, err)
	}

	return response.Created(c, "Application started", result)
}

// GetMyApplications lists the caller's applications
// @Summary My applications
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /applications/my [get]
func (h *ApplicationHandler) GetMyApplications(c *fiber.Ctx) error {
	apps, err := h.applicationService.ListMine(c.UserContext(), middleware.Actor(c).UserID)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Applications retrieved successfully", apps)
}

// GetApplication returns one application
// @Summary Get application
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Problem
// @Failure 404 {object} response.Problem
// @Router /applications/{id} [get]
func (h *ApplicationHandler) GetApplication(c *fiber.Ctx) error {
	app, err := h.applicationService.Get(c.UserContext(), middleware.Actor(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Application retrieved successfully", app.ToResponse())
}

// UpdateApplication saves the draft; with ?submit=true it also submits it
// @Summary Save draft
// @Description Replaces the draft details. With submit=true the submission guard runs first and the application is submitted after saving.
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param submit query bool false "Submit after saving"
// @Param body body services.SaveDraftInput true "Draft details"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Problem
// @Failure 409 {object} response.Problem
// @Router /applications/{id} [put]
func (h *ApplicationHandler) UpdateApplication(c *fiber.Ctx) error {
	var req services.SaveDraftInput
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}

	actor := middleware.Actor(c)
	result, err := h.applicationService.SaveDraft(c.UserContext(), actor, c.Params("id"), &req)
	if err != nil {
		return handleError(c, err)
	}
	if !c.QueryBool("submit") {
		return response.Success(c, "Draft saved", result)
	}

	app, err := h.workflowService.Submit(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Application submitted", app.ToResponse())
}

// SubmitApplication submits the application for review
// @Summary Submit application
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Problem
// @Failure 409 {object} response.Problem
// @Router /applications/{id}/submit [post]
func (h *ApplicationHandler) SubmitApplication(c *fiber.Ctx) error {
	app, err := h.workflowService.Submit(c.UserContext(), middleware.Actor(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Application submitted", app.ToResponse())
}

// WithdrawApplication withdraws the caller's application
// @Summary Withdraw application
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param body body services.TransitionInput false "Optional comment"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Problem
// @Router /applications/{id}/withdraw [post]
func (h *ApplicationHandler) WithdrawApplication(c *fiber.Ctx) error {
	req, err := transitionInput(c)
	if err != nil {
		return handleError(c, err)
	}

	app, err := h.workflowService.Withdraw(c.UserContext(), middleware.Actor(c), c.Params("id"), req)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Application withdrawn", app.ToResponse())
}

// GetRequirements reports the document checklist of an application
// @Summary Document requirements
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response{data=services.RequirementsView}
// @Router /applications/{id}/requirements [get]
func (h *ApplicationHandler) GetRequirements(c *fiber.Ctx) error {
	view, err := h.applicationService.Requirements(c.UserContext(), middleware.Actor(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Requirements retrieved successfully", view)
}

// GetHistory returns the status audit trail
// @Summary Status history
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response
// @Router /applications/{id}/history [get]
func (h *ApplicationHandler) GetHistory(c *fiber.Ctx) error {
	rows, err := h.applicationService.History(c.UserContext(), middleware.Actor(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "History retrieved successfully", rows)
}

// transitionInput reads an optional transition comment; an empty body is allowed
func transitionInput(c *fiber.Ctx) (*services.TransitionInput, error) {
	req := &services.TransitionInput{}
	if len(c.Body()) == 0 {
		return req, nil
	}
	if err := parseBody(c, req); err != nil {
		return nil, err
	}
	return req, nil
}
