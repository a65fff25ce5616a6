package handlers

import (
	"errors"
	"log"
	"strings"

	"eac-registry/internal/adapters/http/middleware"
	"eac-registry/internal/adapters/storage"
	"eac-registry/internal/core/domain"
	"eac-registry/internal/core/services"
	"eac-registry/internal/pkg/response"
	"eac-registry/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// handleError maps service errors onto problem responses
func handleError(c *fiber.Ctx, err error) error {
	var (
		verr *validation.Error
		elig *services.EligibilityError
		reqs *services.RequirementsError
		gate *services.GateError
		file *services.FileRejectedError
		ferr *fiber.Error
	)

	switch {
	case errors.As(err, &gate):
		return response.Send(c, middleware.GateProblem(gate.Block, c.Params("id")))
	case errors.As(err, &elig):
		p := response.NewProblem(fiber.StatusBadRequest, response.CodeEligibility, "Eligibility requirements not met", elig.Result.Reason)
		p.Requirements = elig.Result.Missing
		if len(p.Requirements) == 0 {
			p.Requirements = elig.Result.Requirements
		}
		p.Warnings = elig.Result.Warnings
		return response.Send(c, p)
	case errors.As(err, &reqs):
		p := response.NewProblem(fiber.StatusBadRequest, response.CodeRequirements, "Required documents missing", reqs.Reason)
		p.Requirements = reqs.Requirements
		p.Warnings = reqs.Warnings
		return response.Send(c, p)
	case errors.As(err, &file):
		p := response.NewProblem(fiber.StatusBadRequest, response.CodeValidation, "File rejected", "The uploaded file failed validation")
		p.Errors = map[string]string{"file": strings.Join(file.Result.Errors, "; ")}
		p.Warnings = file.Result.Warnings
		return response.Send(c, p)
	case errors.As(err, &verr):
		return response.Validation(c, verr.Fields)
	case errors.As(err, &ferr):
		return response.Error(c, ferr.Code, ferr.Message)
	}

	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUnknownApplication),
		errors.Is(err, services.ErrUserNotFound), errors.Is(err, storage.ErrNotFound):
		return response.NotFound(c, "Resource not found")
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrSchemaVersion),
		errors.Is(err, services.ErrWeakPassword), errors.Is(err, services.ErrInvalidStaffRole),
		errors.Is(err, services.ErrOldPasswordWrong):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrIneligible):
		return problem(c, fiber.StatusBadRequest, response.CodeEligibility, "Eligibility requirements not met", err)
	case errors.Is(err, domain.ErrRequirementsNotMet):
		return problem(c, fiber.StatusBadRequest, response.CodeRequirements, "Required documents missing", err)
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken), errors.Is(err, services.ErrTokenExpired),
		errors.Is(err, services.ErrTokenRevoked), errors.Is(err, storage.ErrInvalidToken):
		return response.Unauthorized(c, err.Error())
	case errors.Is(err, domain.ErrEmailNotVerified):
		return problem(c, fiber.StatusForbidden, response.CodeEmailNotVerified, "Email not verified", err)
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, services.ErrUserInactive),
		errors.Is(err, services.ErrCannotDeleteSelf), errors.Is(err, services.ErrCannotChangeOwnRole):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		return problem(c, fiber.StatusConflict, response.CodeInvalidTransition, "Transition not allowed", err)
	case errors.Is(err, domain.ErrStatusConflict), errors.Is(err, domain.ErrAlreadyDecided):
		return problem(c, fiber.StatusConflict, response.CodeStatusConflict, "Application changed concurrently", err)
	case errors.Is(err, domain.ErrApplicationLocked), errors.Is(err, domain.ErrDocumentsRejected):
		return problem(c, fiber.StatusConflict, response.CodeInvalidState, "Application state does not allow this", err)
	case errors.Is(err, domain.ErrFeeNotSettled):
		return problem(c, fiber.StatusConflict, response.CodeFeeNotSettled, "Application fee outstanding", err)
	case errors.Is(err, domain.ErrDuplicateContent):
		return problem(c, fiber.StatusConflict, response.CodeDuplicateContent, "Duplicate file", err)
	case errors.Is(err, domain.ErrAlreadyRegistered), errors.Is(err, domain.ErrOpenApplication),
		errors.Is(err, domain.ErrNoFeeOutstanding), errors.Is(err, services.ErrUserAlreadyExists),
		errors.Is(err, services.ErrEmailAlreadyExists), errors.Is(err, services.ErrAlreadyVerified):
		return response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrUploadQuotaExceeded):
		return response.TooManyRequests(c, err.Error())
	case errors.Is(err, domain.ErrIntegration):
		return problem(c, fiber.StatusBadGateway, response.CodeIntegration, "Upstream service failed", err)
	}

	log.Printf("❌ %s %s failed: %v", c.Method(), c.Path(), err)
	return response.InternalServerError(c, "Something went wrong, please try again")
}

func problem(c *fiber.Ctx, status int, code, title string, err error) error {
	return response.Send(c, response.NewProblem(status, code, title, err.Error()))
}
