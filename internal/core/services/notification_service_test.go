package services

import (
	"context"
	"testing"
	"time"

	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outboxRows(t *testing.T, e *testEnv, applicationID string) []*models.NotificationOutbox {
	t.Helper()
	var rows []*models.NotificationOutbox
	require.NoError(t, e.db.Where("application_id = ?", applicationID).Order("id ASC").Find(&rows).Error)
	return rows
}

func TestNotification_StaffAlertRecipients(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	jane := e.applicant(t, "jane@example.com")
	id := e.startIndividual(t, jane, "estate_agent")
	app, err := e.apps.Get(ctx, id)
	require.NoError(t, err)

	// nobody holds FINANCE yet
	require.NoError(t, e.notifications.QueueStatusChange(ctx, app, domain.StatusPaymentReview, ""))
	rows := outboxRows(t, e, id)
	require.Len(t, rows, 2)
	assert.Equal(t, "jane@example.com", rows[0].Recipient)
	assert.Equal(t, TplStaffAlert, rows[1].Template)
	assert.Equal(t, "registrar@eac.test", rows[1].Recipient)
	assert.Contains(t, rows[1].TextBody, "/api/v1/applications/"+id)

	e.staff(t, domain.RoleFinance)
	require.NoError(t, e.notifications.QueueStatusChange(ctx, app, domain.StatusPaymentReview, ""))
	rows = outboxRows(t, e, id)
	require.Len(t, rows, 4)
	assert.Equal(t, "finance@eac.test", rows[3].Recipient)
}

func TestNotification_ReturnedCarriesComment(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	jane := e.applicant(t, "jane@example.com")
	id := e.startIndividual(t, jane, "estate_agent")
	app, err := e.apps.Get(ctx, id)
	require.NoError(t, err)

	require.NoError(t, e.notifications.QueueStatusChange(ctx, app, domain.StatusNeedsApplicantAction, "Certified copy please"))
	rows := outboxRows(t, e, id)
	require.Len(t, rows, 1)
	assert.Equal(t, TplReturned, rows[0].Template)
	assert.Contains(t, rows[0].Subject, id)
	assert.Contains(t, rows[0].TextBody, "Certified copy please")
	assert.Contains(t, rows[0].HTMLBody, "Certified copy please")

	// stages without an email queue nothing
	require.NoError(t, e.notifications.QueueStatusChange(ctx, app, domain.StatusDraft, ""))
	assert.Len(t, outboxRows(t, e, id), 1)
}

func TestNotification_ApprovalAttachesCertificate(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	jane := e.applicant(t, "jane@example.com")
	id := e.startIndividual(t, jane, "estate_agent")
	app, err := e.apps.Get(ctx, id)
	require.NoError(t, err)

	issued := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, e.notifications.QueueApproval(ctx, app, "EAC-MBR-2026-0001", issued, issued.AddDate(1, 0, 0)))

	rows := outboxRows(t, e, id)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0].TextBody, "EAC-MBR-2026-0001")
	assert.Contains(t, rows[0].TextBody, "1 March 2027")

	attachments := rows[0].Attachments.Data()
	require.Len(t, attachments, 1)
	assert.Equal(t, "certificate-EAC-MBR-2026-0001.html", attachments[0].Filename)
	assert.Contains(t, string(attachments[0].Content), "EAC-MBR-2026-0001")
	assert.Contains(t, string(attachments[0].Content), "/api/v1/registry/members/EAC-MBR-2026-0001")
}
