package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/core/documents"
	"eac-registry/internal/core/domain"
	"eac-registry/internal/pkg/series"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var individualDocs = []string{documents.OLevelCertificate, documents.NationalID, documents.BirthCertificate}

func TestWorkflow_HappyPathToApproval(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	applicant := e.applicant(t, "jane@example.com")
	registrar := e.staff(t, domain.RoleRegistrar)
	admin := e.staff(t, domain.RoleAdmin)

	// student membership carries no fee
	id := e.startIndividual(t, applicant, "student")

	// nothing uploaded yet
	_, err := e.workflow.Submit(ctx, applicant, id)
	var reqErr *RequirementsError
	require.True(t, errors.As(err, &reqErr), err)
	assert.ErrorIs(t, err, domain.ErrRequirementsNotMet)
	assert.Len(t, reqErr.Requirements, 3)

	e.attach(t, id, individualDocs...)

	app, err := e.workflow.Submit(ctx, applicant, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusEligibilityReview, app.Core().CurrentStatus())
	assert.NotNil(t, app.Core().SubmittedAt)

	// applicants cannot drive review stages
	_, err = e.workflow.MoveToDocumentReview(ctx, applicant, id, &TransitionInput{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.workflow.MoveToDocumentReview(ctx, registrar, id, &TransitionInput{Comment: "Eligible"})
	require.NoError(t, err)
	app, err = e.workflow.MoveToPaymentReview(ctx, registrar, id, &TransitionInput{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaymentReview, app.Core().CurrentStatus())
	require.NotNil(t, app.Core().ReviewerID)
	assert.Equal(t, registrar.UserID, *app.Core().ReviewerID)

	// registrars cannot approve
	_, err = e.workflow.ApproveFinal(ctx, registrar, id, &TransitionInput{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	app, err = e.workflow.ApproveFinal(ctx, admin, id, &TransitionInput{Comment: "Welcome"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, app.Core().CurrentStatus())

	ind := app.(*models.IndividualApplication)
	require.NotNil(t, ind.CreatedMemberID)

	number, err := series.RegistrationNumber(id)
	require.NoError(t, err)
	entry, err := e.registryView.LookupMember(ctx, number)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", entry.Name)
	assert.True(t, entry.InGoodStanding)
	assert.WithinDuration(t, time.Now().AddDate(0, e.policy.MembershipValidityMonths, 0), entry.ExpiresAt, time.Minute)

	decision, err := e.decisions.GetByApplication(ctx, domain.ApplicationIndividual, id)
	require.NoError(t, err)
	assert.Equal(t, string(domain.DecisionAccepted), decision.Decision)
	assert.Equal(t, admin.UserID, decision.DecidedBy)

	history, err := e.history.ListByApplication(ctx, domain.ApplicationIndividual, id)
	require.NoError(t, err)
	var trail []string
	for _, h := range history {
		trail = append(trail, h.FromStatus+">"+h.ToStatus)
	}
	assert.Equal(t, []string{
		">draft",
		"draft>eligibility_review",
		"eligibility_review>document_review",
		"document_review>payment_review",
		"payment_review>approved",
	}, trail)

	applicantRow, err := e.applicants.GetByUserID(ctx, applicant.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicantApproved, applicantRow.Account().CurrentStatus())

	assert.Equal(t, []string{
		TplSubmitted, TplStaffAlert,
		TplStageMoved,
		TplStageMoved, TplStaffAlert,
		TplApproved,
	}, e.outboxTemplates(t, id))

	assert.Equal(t, 1.0, promtest.ToFloat64(e.metrics.Transitions.WithLabelValues("individual", "approved")))

	// approved is terminal
	_, err = e.workflow.Withdraw(ctx, applicant, id, &TransitionInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestWorkflow_SubmitBlockedByUnpaidFee(t *testing.T) {
	e := newTestEnv(t)
	applicant := e.applicant(t, "jane@example.com")

	id := e.startIndividual(t, applicant, "estate_agent")
	e.attach(t, id, individualDocs...)

	_, err := e.workflow.Submit(context.Background(), applicant, id)
	var gate *GateError
	require.True(t, errors.As(err, &gate), err)
	assert.Equal(t, domain.CodeFeeNotSettled, gate.Block.Code)
	assert.ErrorIs(t, err, domain.ErrFeeNotSettled)
}

func TestWorkflow_SubmitByOtherApplicantForbidden(t *testing.T) {
	e := newTestEnv(t)
	owner := e.applicant(t, "jane@example.com")
	other := e.applicant(t, "john@example.com")

	id := e.startIndividual(t, owner, "student")
	e.attach(t, id, individualDocs...)

	_, err := e.workflow.Submit(context.Background(), other, id)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestWorkflow_RejectedDocumentBlocksPaymentReview(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	applicant := e.applicant(t, "jane@example.com")
	registrar := e.staff(t, domain.RoleRegistrar)

	id := e.startIndividual(t, applicant, "student")
	docs := e.attach(t, id, individualDocs...)
	_, err := e.workflow.Submit(ctx, applicant, id)
	require.NoError(t, err)
	_, err = e.workflow.MoveToDocumentReview(ctx, registrar, id, &TransitionInput{})
	require.NoError(t, err)

	require.NoError(t, e.docs.UpdateVerification(ctx, docs[1].ID, domain.DocumentRejected, registrar.UserID, "Illegible"))

	_, err = e.workflow.MoveToPaymentReview(ctx, registrar, id, &TransitionInput{})
	assert.ErrorIs(t, err, domain.ErrDocumentsRejected)

	// returning is the way out
	_, err = e.workflow.ReturnToApplicant(ctx, registrar, id, &TransitionInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	app, err := e.workflow.ReturnToApplicant(ctx, registrar, id, &TransitionInput{Comment: "Re-upload your ID"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNeedsApplicantAction, app.Core().CurrentStatus())
	assert.Contains(t, e.outboxTemplates(t, id), TplReturned)
}

func TestWorkflow_DecideRejected(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	applicant := e.applicant(t, "jane@example.com")
	admin := e.staff(t, domain.RoleAdmin)

	id := e.startIndividual(t, applicant, "student")
	e.attach(t, id, individualDocs...)
	_, err := e.workflow.Submit(ctx, applicant, id)
	require.NoError(t, err)

	_, err = e.workflow.Decide(ctx, admin, id, &DecideInput{Decision: "maybe"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	app, err := e.workflow.Decide(ctx, admin, id, &DecideInput{
		Decision: "rejected",
		Reasons:  []string{"Qualifications could not be verified", " "},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, app.Core().CurrentStatus())

	decision, err := e.decisions.GetByApplication(ctx, domain.ApplicationIndividual, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Qualifications could not be verified"}, decision.Reasons.Data())
	assert.Contains(t, e.outboxTemplates(t, id), TplRejected)

	// a second decision cannot be recorded
	_, err = e.workflow.Decide(ctx, admin, id, &DecideInput{Decision: "accepted"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// a rejected applicant may start over
	e.startIndividual(t, applicant, "student")
}

func TestWorkflow_ApproveRequiresClearedFee(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	applicant := e.applicant(t, "jane@example.com")
	admin := e.staff(t, domain.RoleAdmin)

	id := e.startIndividual(t, applicant, "student")
	e.attach(t, id, individualDocs...)
	_, err := e.workflow.Submit(ctx, applicant, id)
	require.NoError(t, err)
	_, err = e.workflow.MoveToDocumentReview(ctx, admin, id, &TransitionInput{})
	require.NoError(t, err)
	_, err = e.workflow.MoveToPaymentReview(ctx, admin, id, &TransitionInput{})
	require.NoError(t, err)

	// the fee became due after submission
	app, err := e.apps.Get(ctx, id)
	require.NoError(t, err)
	require.NoError(t, e.apps.UpdateFields(ctx, app, map[string]interface{}{
		"fee_required": true,
		"fee_status":   string(domain.FeePending),
	}))

	_, err = e.workflow.ApproveFinal(ctx, admin, id, &TransitionInput{})
	assert.ErrorIs(t, err, domain.ErrFeeNotSettled)

	app, err = e.apps.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaymentReview, app.Core().CurrentStatus())
	_, err = e.decisions.GetByApplication(ctx, domain.ApplicationIndividual, id)
	assert.Error(t, err)
}

func TestWorkflow_WithdrawOwnDraft(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	applicant := e.applicant(t, "jane@example.com")
	registrar := e.staff(t, domain.RoleRegistrar)

	id := e.startIndividual(t, applicant, "student")

	_, err := e.workflow.Withdraw(ctx, registrar, id, &TransitionInput{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	app, err := e.workflow.Withdraw(ctx, applicant, id, &TransitionInput{Comment: "Changed my mind"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWithdrawn, app.Core().CurrentStatus())
	assert.Equal(t, []string{TplWithdrawn}, e.outboxTemplates(t, id))
}

func TestWorkflow_ExpireStale(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	stale := e.startIndividual(t, e.applicant(t, "old@example.com"), "student")
	fresh := e.startIndividual(t, e.applicant(t, "new@example.com"), "student")

	old := time.Now().AddDate(0, 0, -(e.policy.DraftTTLDays + 1))
	require.NoError(t, e.db.Exec("UPDATE individual_applications SET updated_at = ? WHERE application_id = ?", old, stale).Error)

	n, err := e.workflow.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	app, err := e.apps.Get(ctx, stale)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExpired, app.Core().CurrentStatus())

	app, err = e.apps.Get(ctx, fresh)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, app.Core().CurrentStatus())

	history, err := e.history.ListByApplication(ctx, domain.ApplicationIndividual, stale)
	require.NoError(t, err)
	last := history[len(history)-1]
	assert.Equal(t, "SYSTEM", last.ActorRole)
	assert.Nil(t, last.ActorID)

	// nothing left to expire
	n, err = e.workflow.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
