package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/core/domain"
	"eac-registry/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubLoader struct {
	app   models.Application
	err   error
	calls int
}

func (l *stubLoader) Get(ctx context.Context, applicationID string) (models.Application, error) {
	l.calls++
	return l.app, l.err
}

func draft(status domain.ApplicationStatus, feeStatus domain.FeeStatus, proof *uint) *models.IndividualApplication {
	app := &models.IndividualApplication{}
	app.ApplicationID = "APL-MBR-2026-0001"
	app.UserID = 7
	app.Status = string(status)
	app.FeeRequired = true
	app.FeeStatus = string(feeStatus)
	app.FeeProofDocumentID = proof
	return app
}

func guardApp(loader ApplicationLoader, alwaysSubmit bool) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(LocalUserID, uint(7))
		c.Locals(LocalRole, string(domain.RoleApplicant))
		return c.Next()
	})
	app.Put("/applications/:id", SubmissionGuard(loader, alwaysSubmit), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Post("/applications/:id/submit", SubmissionGuard(loader, alwaysSubmit), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func problemOf(t *testing.T, app *fiber.App, method, target string) (int, response.Problem) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var p response.Problem
	if resp.StatusCode != fiber.StatusOK {
		assert.Equal(t, "application/problem+json", resp.Header.Get(fiber.HeaderContentType))
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	}
	return resp.StatusCode, p
}

func TestSubmissionGuard_NonSubmitPassesThrough(t *testing.T) {
	loader := &stubLoader{err: errors.New("must not be called")}
	status, _ := problemOf(t, guardApp(loader, false), fiber.MethodPut, "/applications/APL-MBR-2026-0001")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Zero(t, loader.calls)
}

func TestSubmissionGuard_StateGate(t *testing.T) {
	loader := &stubLoader{app: draft(domain.StatusEligibilityReview, domain.FeeSettled, nil)}
	status, p := problemOf(t, guardApp(loader, false), fiber.MethodPut, "/applications/APL-MBR-2026-0001?submit=true")
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, domain.CodeInvalidApplicationState, p.Code)
	assert.Contains(t, p.Detail, "eligibility_review")
	assert.Empty(t, p.Actions)
}

func TestSubmissionGuard_FeeGate(t *testing.T) {
	loader := &stubLoader{app: draft(domain.StatusDraft, domain.FeePending, nil)}
	status, p := problemOf(t, guardApp(loader, true), fiber.MethodPost, "/applications/APL-MBR-2026-0001/submit")
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, domain.CodeFeeNotSettled, p.Code)
	require.Len(t, p.Actions, 2)
	assert.Equal(t, "pay_now", p.Actions[0].Rel)
	assert.Equal(t, "/api/v1/payments/APL-MBR-2026-0001/initiate", p.Actions[0].Href)
	assert.Equal(t, "upload_proof", p.Actions[1].Rel)
}

func TestSubmissionGuard_Allows(t *testing.T) {
	proof := uint(3)
	cases := map[string]*models.IndividualApplication{
		"settled":        draft(domain.StatusDraft, domain.FeeSettled, nil),
		"waived":         draft(domain.StatusNeedsApplicantAction, domain.FeeWaived, nil),
		"proof uploaded": draft(domain.StatusDraft, domain.FeeProofUploaded, &proof),
	}
	for name, app := range cases {
		t.Run(name, func(t *testing.T) {
			status, _ := problemOf(t, guardApp(&stubLoader{app: app}, true), fiber.MethodPost, "/applications/APL-MBR-2026-0001/submit")
			assert.Equal(t, fiber.StatusOK, status)
		})
	}

	free := draft(domain.StatusDraft, domain.FeePending, nil)
	free.FeeRequired = false
	status, _ := problemOf(t, guardApp(&stubLoader{app: free}, true), fiber.MethodPost, "/applications/APL-MBR-2026-0001/submit")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestSubmissionGuard_FailsClosed(t *testing.T) {
	status, p := problemOf(t, guardApp(&stubLoader{err: gorm.ErrRecordNotFound}, true), fiber.MethodPost, "/applications/APL-MBR-2026-0009/submit")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, response.CodeNotFound, p.Code)

	status, p = problemOf(t, guardApp(&stubLoader{err: errors.New("connection reset")}, true), fiber.MethodPost, "/applications/APL-MBR-2026-0001/submit")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, response.CodeServiceUnavailable, p.Code)
}

func TestSubmissionGuard_OtherApplicant(t *testing.T) {
	app := draft(domain.StatusDraft, domain.FeeSettled, nil)
	app.UserID = 99
	status, p := problemOf(t, guardApp(&stubLoader{app: app}, true), fiber.MethodPost, "/applications/APL-MBR-2026-0001/submit")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, response.CodeForbidden, p.Code)
}
