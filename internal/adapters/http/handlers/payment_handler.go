package handlers

import (
	"eac-registry/internal/adapters/http/middleware"
	"eac-registry/internal/core/services"
	"eac-registry/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles fee payments
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Initiate starts an online checkout for the application fee
// @Summary Pay application fee
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 201 {object} response.Response{data=services.InitiateResponse}
// @Failure 409 {object} response.Problem
// @Failure 502 {object} response.Problem
// @Router /payments/{id}/initiate [post]
func (h *PaymentHandler) Initiate(c *fiber.Ctx) error {
	res, err := h.paymentService.Initiate(c.UserContext(), middleware.Actor(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return response.Created(c, "Payment initiated", res)
}

// Status polls the gateway for the latest payment
// @Summary Payment status
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response
// @Router /payments/{id}/status [get]
func (h *PaymentHandler) Status(c *fiber.Ctx) error {
	p, err := h.paymentService.Status(c.UserContext(), middleware.Actor(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Payment status retrieved", p)
}

// PayNowResult receives the gateway's server-to-server status update
// @Summary PayNow result callback
// @Tags Payments
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Problem
// @Router /payments/paynow/result [post]
func (h *PaymentHandler) PayNowResult(c *fiber.Ctx) error {
	// body is copied; fiber reuses the buffer once the handler returns
	body := append([]byte(nil), c.Body()...)
	if err := h.paymentService.HandleCallback(c.UserContext(), body); err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "OK", nil)
}

// VerifyPayment settles the fee against uploaded proof, or waives it
// @Summary Verify payment
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param body body services.VerifyPaymentInput true "Decision"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Problem
// @Router /admin/applications/{id}/verify-payment [post]
func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	var req services.VerifyPaymentInput
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}

	app, err := h.paymentService.VerifyPayment(c.UserContext(), middleware.Actor(c), c.Params("id"), &req)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Payment verified", app.ToResponse())
}
