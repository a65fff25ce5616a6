package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"

	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/core/domain"
	"eac-registry/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ApplicationLoader loads an application by its public ID
type ApplicationLoader interface {
	Get(ctx context.Context, applicationID string) (models.Application, error)
}

// SubmissionGuard blocks a submit request while the application is not in a
// submittable state or its fee is neither settled nor backed by a proof.
// Requests that are not submissions pass through untouched. A failed lookup
// blocks the request.
func SubmissionGuard(loader ApplicationLoader, alwaysSubmit bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !alwaysSubmit && !c.QueryBool("submit") {
			return c.Next()
		}

		applicationID := c.Params("id")
		app, err := loader.Get(c.UserContext(), applicationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUnknownApplication) {
				return response.NotFound(c, fmt.Sprintf("Application %s not found", applicationID))
			}
			log.Printf("❌ Submission guard lookup failed for %s: %v", applicationID, err)
			return response.ServiceUnavailable(c, "Application could not be checked, try again shortly")
		}

		core := app.Core()
		if actor := Actor(c); actor.Role == domain.RoleApplicant && core.UserID != actor.UserID {
			return response.Forbidden(c, "You can only submit your own application")
		}

		if block := domain.CheckSubmittableState(core.CurrentStatus()); block != nil {
			return response.Send(c, GateProblem(block, applicationID))
		}
		if block := domain.CheckFeeSettled(core.FeeRequired, core.CurrentFeeStatus(), core.FeeProofDocumentID); block != nil {
			return response.Send(c, GateProblem(block, applicationID))
		}
		return c.Next()
	}
}

// GateProblem renders a submission block as a 409. A fee block carries the
// two ways to clear it.
func GateProblem(block *domain.GateBlock, applicationID string) *response.Problem {
	p := response.NewProblem(fiber.StatusConflict, block.Code, block.Title, block.Detail)
	if block.Code == domain.CodeFeeNotSettled {
		p.Actions = []response.Action{
			{Rel: "pay_now", Href: "/api/v1/payments/" + applicationID + "/initiate", Method: fiber.MethodPost},
			{Rel: "upload_proof", Href: "/api/v1/applications/" + applicationID + "/documents?document_type=fee_proof", Method: fiber.MethodPost},
		}
	}
	return p
}
