package response

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Problem codes
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeEligibility        = "ELIGIBILITY_FAILED"
	CodeRequirements       = "REQUIREMENTS_NOT_MET"
	CodeInvalidState       = "INVALID_APPLICATION_STATE"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeStatusConflict     = "STATUS_CONFLICT"
	CodeFeeNotSettled      = "FEE_NOT_SETTLED"
	CodeDuplicateContent   = "DUPLICATE_FILE_CONTENT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeEmailNotVerified   = "EMAIL_NOT_VERIFIED"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeRateLimited        = "RATE_LIMITED"
	CodeIntegration        = "INTEGRATION_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	problemContentType     = "application/problem+json"
	problemTypePrefix      = "/problems/"
)

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Action is a follow-up the client can take to clear a problem
type Action struct {
	Rel    string `json:"rel"`
	Href   string `json:"href"`
	Method string `json:"method"`
}

// Problem is the error payload of every failed request
type Problem struct {
	Type         string            `json:"type"`
	Title        string            `json:"title"`
	Status       int               `json:"status"`
	Detail       string            `json:"detail"`
	Code         string            `json:"code"`
	Errors       map[string]string `json:"errors,omitempty"`
	Requirements []string          `json:"requirements,omitempty"`
	Warnings     []string          `json:"warnings,omitempty"`
	Actions      []Action          `json:"actions,omitempty"`
}

// NewProblem builds a problem; the type URI is derived from the code
func NewProblem(status int, code, title, detail string) *Problem {
	return &Problem{
		Type:   problemTypePrefix + strings.ToLower(strings.ReplaceAll(code, "_", "-")),
		Title:  title,
		Status: status,
		Detail: detail,
		Code:   code,
	}
}

// Send writes p with its status
func Send(c *fiber.Ctx, p *Problem) error {
	if err := c.Status(p.Status).JSON(p); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, problemContentType)
	return nil
}

// Success sends a success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends a problem with a generic code for the status
func Error(c *fiber.Ctx, statusCode int, message string) error {
	code, title := defaults(statusCode)
	return Send(c, NewProblem(statusCode, code, title, message))
}

// Validation sends a 400 with per-field messages
func Validation(c *fiber.Ctx, fields map[string]string) error {
	p := NewProblem(fiber.StatusBadRequest, CodeValidation, "Validation failed", "One or more fields are invalid")
	p.Errors = fields
	return Send(c, p)
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// Conflict sends a 409 conflict response
func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, message)
}

// TooManyRequests sends a 429 response
func TooManyRequests(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusTooManyRequests, message)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusServiceUnavailable, message)
}

func defaults(status int) (code, title string) {
	switch status {
	case fiber.StatusBadRequest:
		return CodeValidation, "Bad request"
	case fiber.StatusUnauthorized:
		return CodeUnauthorized, "Unauthorized"
	case fiber.StatusForbidden:
		return CodeForbidden, "Forbidden"
	case fiber.StatusNotFound:
		return CodeNotFound, "Not found"
	case fiber.StatusConflict:
		return CodeConflict, "Conflict"
	case fiber.StatusTooManyRequests:
		return CodeRateLimited, "Too many requests"
	case fiber.StatusBadGateway:
		return CodeIntegration, "Upstream service failed"
	case fiber.StatusServiceUnavailable:
		return CodeServiceUnavailable, "Service unavailable"
	}
	if status >= 500 {
		return CodeInternal, "Internal server error"
	}
	return CodeValidation, "Request failed"
}
