package handlers

import (
	"context"

	"eac-registry/internal/adapters/http/middleware"
	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/core/domain"
	"eac-registry/internal/core/services"
	"eac-registry/internal/pkg/pagination"
	"eac-registry/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles the staff side of the application workflow
type ReviewHandler struct {
	applicationService *services.ApplicationService
	workflowService    *services.WorkflowService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(applicationService *services.ApplicationService, workflowService *services.WorkflowService) *ReviewHandler {
	return &ReviewHandler{
		applicationService: applicationService,
		workflowService:    workflowService,
	}
}

type transitionFunc func(ctx context.Context, actor domain.Actor, id string, input *services.TransitionInput) (models.Application, error)

// ListApplications lists applications for staff
// @Summary List applications
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param type query string false "individual or organization"
// @Param status query string false "Application status"
// @Param search query string false "Name, email or ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response{data=pagination.Page}
// @Router /admin/applications [get]
func (h *ReviewHandler) ListApplications(c *fiber.Ctx) error {
	params := pagination.FromQuery(c)
	apps, total, err := h.applicationService.List(c.UserContext(), services.ListInput{
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Search: c.Query("search"),
		Offset: params.Offset,
		Limit:  params.Limit,
	})
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Applications retrieved successfully", pagination.New(apps, params, total))
}

// MoveToDocumentReview moves an eligible application on to document checks
// @Summary Move to document review
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param body body services.TransitionInput false "Comment"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Problem
// @Router /applications/{id}/move-to-document-review [post]
func (h *ReviewHandler) MoveToDocumentReview(c *fiber.Ctx) error {
	return h.transition(c, h.workflowService.MoveToDocumentReview, "Application moved to document review")
}

// MoveToPaymentReview moves an application with verified documents to finance
// @Summary Move to payment review
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param body body services.TransitionInput false "Comment"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Problem
// @Router /applications/{id}/move-to-payment-review [post]
func (h *ReviewHandler) MoveToPaymentReview(c *fiber.Ctx) error {
	return h.transition(c, h.workflowService.MoveToPaymentReview, "Application moved to payment review")
}

// ReturnToApplicant sends an application back for changes
// @Summary Return to applicant
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param body body services.TransitionInput true "Comment"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Problem
// @Router /applications/{id}/return [post]
func (h *ReviewHandler) ReturnToApplicant(c *fiber.Ctx) error {
	return h.transition(c, h.workflowService.ReturnToApplicant, "Application returned to applicant")
}

// ApproveFinal approves a paid application and issues its registry number
// @Summary Final approval
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param body body services.TransitionInput false "Comment"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Problem
// @Router /applications/{id}/approve-final [post]
func (h *ReviewHandler) ApproveFinal(c *fiber.Ctx) error {
	return h.transition(c, h.workflowService.ApproveFinal, "Application approved")
}

// Decide records the registry decision of an application
// @Summary Decide application
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param body body services.DecideInput true "Decision"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Problem
// @Router /admin/applications/{id}/decide [post]
func (h *ReviewHandler) Decide(c *fiber.Ctx) error {
	var req services.DecideInput
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}

	app, err := h.workflowService.Decide(c.UserContext(), middleware.Actor(c), c.Params("id"), &req)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Decision recorded", app.ToResponse())
}

func (h *ReviewHandler) transition(c *fiber.Ctx, fn transitionFunc, message string) error {
	req, err := transitionInput(c)
	if err != nil {
		return handleError(c, err)
	}

	app, err := fn(c.UserContext(), middleware.Actor(c), c.Params("id"), req)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, message, app.ToResponse())
}
