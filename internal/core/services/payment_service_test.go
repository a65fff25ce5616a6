package services

import (
	"context"
	"errors"
	"testing"

	"eac-registry/internal/adapters/payment"
	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/core/documents"
	"eac-registry/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayment_InitiateAndCallbackSettlesFee(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	jane := e.applicant(t, "jane@example.com")
	id := e.startIndividual(t, jane, "estate_agent")

	res, err := e.payments.Initiate(ctx, jane, id)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/checkout/"+res.Reference, res.RedirectURL)
	assert.True(t, res.Amount.Equal(decimal.NewFromInt(50)))
	require.Len(t, e.gateway.initiated, 1)
	assert.Equal(t, "jane@example.com", e.gateway.initiated[0].AuthEmail)
	assert.Equal(t, "http://localhost:8080/api/v1/payments/paynow/result", e.gateway.initiated[0].ResultURL)

	e.gateway.status = paidStatus(res.Reference, 50)
	require.NoError(t, e.payments.HandleCallback(ctx, []byte("ignored")))

	app, err := e.apps.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.FeeSettled, app.Core().CurrentFeeStatus())
	assert.Equal(t, []string{TplPaymentReceived}, e.outboxTemplates(t, id))

	// replays are ignored
	require.NoError(t, e.payments.HandleCallback(ctx, []byte("ignored")))
	assert.Len(t, e.outboxTemplates(t, id), 1)

	p, err := e.payments.Status(ctx, jane, id)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, p.Status)
	assert.Equal(t, "PN-1", p.GatewayReference)
	assert.NotNil(t, p.PaidAt)

	_, err = e.payments.Initiate(ctx, jane, id)
	assert.ErrorIs(t, err, domain.ErrNoFeeOutstanding)
}

func TestPayment_AmountMismatchDoesNotSettle(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	jane := e.applicant(t, "jane@example.com")
	id := e.startIndividual(t, jane, "estate_agent")

	res, err := e.payments.Initiate(ctx, jane, id)
	require.NoError(t, err)

	e.gateway.status = paidStatus(res.Reference, 5)
	require.NoError(t, e.payments.HandleCallback(ctx, nil))

	app, err := e.apps.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.FeePending, app.Core().CurrentFeeStatus())
}

func TestPayment_CallbackHashMismatch(t *testing.T) {
	e := newTestEnv(t)
	e.gateway.err = payment.ErrHashMismatch

	err := e.payments.HandleCallback(context.Background(), []byte("status=Paid&hash=bad"))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestPayment_GatewayFailure(t *testing.T) {
	e := newTestEnv(t)
	jane := e.applicant(t, "jane@example.com")
	id := e.startIndividual(t, jane, "estate_agent")
	e.gateway.err = errors.New("connection refused")

	_, err := e.payments.Initiate(context.Background(), jane, id)
	assert.ErrorIs(t, err, domain.ErrIntegration)
}

func TestPayment_StatusPollsOpenPayment(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	jane := e.applicant(t, "jane@example.com")
	id := e.startIndividual(t, jane, "estate_agent")

	res, err := e.payments.Initiate(ctx, jane, id)
	require.NoError(t, err)

	e.gateway.status = paidStatus(res.Reference, 50)
	p, err := e.payments.Status(ctx, jane, id)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, p.Status)

	app, err := e.apps.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, app.Core().CurrentFeeStatus().IsCleared())
}

func TestVerifyPayment_SettleAgainstProof(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	jane := e.applicant(t, "jane@example.com")
	finance := e.staff(t, domain.RoleFinance)
	registrar := e.staff(t, domain.RoleRegistrar)
	id := e.startIndividual(t, jane, "estate_agent")

	_, err := e.payments.VerifyPayment(ctx, finance, id, &VerifyPaymentInput{Action: "settle"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	res, err := e.documents.Upload(ctx, jane, id, upload(documents.FeeProof, "receipt.pdf", pdf(11)))
	require.NoError(t, err)

	_, err = e.payments.VerifyPayment(ctx, registrar, id, &VerifyPaymentInput{Action: "settle"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	app, err := e.payments.VerifyPayment(ctx, finance, id, &VerifyPaymentInput{Action: "settle", Comment: "Matched bank statement"})
	require.NoError(t, err)
	assert.Equal(t, domain.FeeSettled, app.Core().CurrentFeeStatus())

	doc, err := e.docs.GetByID(ctx, res.Document.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.DocumentVerified), doc.Status)
	require.NotNil(t, doc.VerifiedBy)
	assert.Equal(t, finance.UserID, *doc.VerifiedBy)
}

func TestVerifyPayment_Waive(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	jane := e.applicant(t, "jane@example.com")
	admin := e.staff(t, domain.RoleAdmin)
	id := e.startIndividual(t, jane, "estate_agent")

	app, err := e.payments.VerifyPayment(ctx, admin, id, &VerifyPaymentInput{Action: "waive"})
	require.NoError(t, err)
	assert.Equal(t, domain.FeeWaived, app.Core().CurrentFeeStatus())
	assert.Empty(t, e.outboxTemplates(t, id))

	_, err = e.payments.VerifyPayment(ctx, admin, id, &VerifyPaymentInput{Action: "waive"})
	assert.ErrorIs(t, err, domain.ErrNoFeeOutstanding)
}
