package services

import (
	"context"

	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/adapters/persistence/repositories"
	"eac-registry/internal/core/domain"
)

// auditTrail writes the history row and applicant funnel status that go
// with every status change. Callers run it inside their transaction.
type auditTrail struct {
	history    repositories.StatusHistoryRepository
	applicants repositories.ApplicantRepository
}

func (a auditTrail) record(ctx context.Context, app models.Application, from, to domain.ApplicationStatus, actor domain.Actor, comment string) error {
	core := app.Core()
	entry := &models.StatusHistory{
		ApplicationType: string(app.Kind()),
		ApplicationID:   core.ApplicationID,
		FromStatus:      string(from),
		ToStatus:        string(to),
		ActorRole:       string(actor.Role),
		IPAddress:       actor.IP,
		Comment:         comment,
	}
	if !actor.IsSystem() && actor.UserID != 0 {
		id := actor.UserID
		entry.ActorID = &id
	}
	if err := a.history.Append(ctx, entry); err != nil {
		return err
	}

	if status, ok := domain.ApplicantStatusFor(to); ok {
		return a.applicants.UpdateStatus(ctx, core.ApplicantID, status)
	}
	return nil
}

// authorize lets staff and the scheduler see everything and applicants only their own applications
func authorize(app models.Application, actor domain.Actor) error {
	if actor.IsSystem() || actor.Role.IsStaff() {
		return nil
	}
	if app.Core().UserID != actor.UserID {
		return domain.ErrForbidden
	}
	return nil
}
