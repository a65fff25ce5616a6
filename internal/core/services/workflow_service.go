package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"eac-registry/internal/adapters/persistence/models"
	"eac-registry/internal/adapters/persistence/repositories"
	"eac-registry/internal/config"
	"eac-registry/internal/core/documents"
	"eac-registry/internal/core/domain"
	"eac-registry/internal/core/eligibility"
	"eac-registry/internal/pkg/series"
	"eac-registry/internal/pkg/validation"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"
)

const tracerName = "eac-registry/workflow"

// staleBatch bounds one expiry pass
const staleBatch = 100

// WorkflowService moves applications between review stages. Every move is
// one transaction: conditional status update, history row, side records and
// queued emails.
type WorkflowService struct {
	tx            repositories.TxManager
	appRepo       repositories.ApplicationRepository
	docRepo       repositories.DocumentRepository
	decisionRepo  repositories.DecisionRepository
	registryRepo  repositories.RegistryRepository
	notifications *NotificationService
	dispatcher    *Dispatcher
	policy        *config.Policy
	metrics       *Metrics
	audit         auditTrail
	now           func() time.Time
}

// NewWorkflowService creates a new workflow service
func NewWorkflowService(
	tx repositories.TxManager,
	appRepo repositories.ApplicationRepository,
	docRepo repositories.DocumentRepository,
	historyRepo repositories.StatusHistoryRepository,
	applicantRepo repositories.ApplicantRepository,
	decisionRepo repositories.DecisionRepository,
	registryRepo repositories.RegistryRepository,
	notifications *NotificationService,
	dispatcher *Dispatcher,
	policy *config.Policy,
	metrics *Metrics,
) *WorkflowService {
	return &WorkflowService{
		tx:            tx,
		appRepo:       appRepo,
		docRepo:       docRepo,
		decisionRepo:  decisionRepo,
		registryRepo:  registryRepo,
		notifications: notifications,
		dispatcher:    dispatcher,
		policy:        policy,
		metrics:       metrics,
		audit:         auditTrail{history: historyRepo, applicants: applicantRepo},
		now:           time.Now,
	}
}

// TransitionInput carries an optional reviewer comment
type TransitionInput struct {
	Comment string `json:"comment" validate:"max=1000"`
}

// DecideInput is the final registry decision
type DecideInput struct {
	Decision string   `json:"decision" validate:"required,oneof=accepted rejected"`
	Reasons  []string `json:"reasons" validate:"omitempty,dive,max=500"`
	Comment  string   `json:"comment" validate:"max=1000"`
}

// move describes one status change
type move struct {
	to      domain.ApplicationStatus
	comment string
	// check runs inside the transaction before the status update
	check func(ctx context.Context, app models.Application) error
	// updates are extra columns written with the status
	updates func(app models.Application) map[string]interface{}
	// effects run inside the transaction after the status update
	effects func(ctx context.Context, app models.Application) error
}

// Submit sends a draft into eligibility review after re-running the
// document and eligibility checks.
func (s *WorkflowService) Submit(ctx context.Context, actor domain.Actor, applicationID string) (models.Application, error) {
	return s.apply(ctx, actor, applicationID, move{
		to:      domain.StatusEligibilityReview,
		comment: "Application submitted",
		check: func(ctx context.Context, app models.Application) error {
			core := app.Core()
			if core.UserID != actor.UserID {
				return domain.ErrForbidden
			}
			if block := domain.CheckSubmittableState(core.CurrentStatus()); block != nil {
				return &GateError{Block: block}
			}
			if block := domain.CheckFeeSettled(core.FeeRequired, core.CurrentFeeStatus(), core.FeeProofDocumentID); block != nil {
				return &GateError{Block: block}
			}
			return s.checkSubmission(ctx, app)
		},
		updates: func(app models.Application) map[string]interface{} {
			return map[string]interface{}{"submitted_at": s.now()}
		},
		effects: s.notifyStage(""),
	})
}

func (s *WorkflowService) checkSubmission(ctx context.Context, app models.Application) error {
	docs, err := s.docRepo.ListByApplication(ctx, app.Kind(), app.Core().ApplicationID)
	if err != nil {
		return err
	}

	switch a := app.(type) {
	case *models.IndividualApplication:
		details, err := a.Details()
		if err != nil {
			return err
		}
		res := eligibility.EvaluateIndividual(&details, s.now())
		s.metrics.eligibility(string(a.Kind()), outcomeOf(res))
		if !res.OK {
			return &EligibilityError{Result: res}
		}
		check := documents.CheckIndividual(uploadedTags(docs), res.Mature)
		if !check.OK {
			return &RequirementsError{Reason: check.Reason, Requirements: check.Requirements}
		}

	case *models.OrganizationApplication:
		details, err := a.Details()
		if err != nil {
			return err
		}
		res, err := evaluateOrganization(ctx, s.registryRepo, &details, uploadedSet(docs), s.now())
		if err != nil {
			return err
		}
		s.metrics.eligibility(string(a.Kind()), outcomeOf(res))
		if res.HardFail {
			return &EligibilityError{Result: res}
		}
		if !res.OK {
			return &RequirementsError{Reason: res.Reason, Requirements: res.Missing, Warnings: res.Warnings}
		}
	}
	return nil
}

// MoveToDocumentReview accepts eligibility and starts document review
func (s *WorkflowService) MoveToDocumentReview(ctx context.Context, actor domain.Actor, applicationID string, input *TransitionInput) (models.Application, error) {
	if err := s.staffInput(actor, input, domain.RoleRegistrar, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.apply(ctx, actor, applicationID, move{
		to:      domain.StatusDocumentReview,
		comment: commentOr(input.Comment, "Eligibility confirmed"),
		updates: s.reviewedBy(actor),
		effects: s.notifyStage(input.Comment),
	})
}

// MoveToPaymentReview accepts the documents. No document may be rejected.
func (s *WorkflowService) MoveToPaymentReview(ctx context.Context, actor domain.Actor, applicationID string, input *TransitionInput) (models.Application, error) {
	if err := s.staffInput(actor, input, domain.RoleRegistrar, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.apply(ctx, actor, applicationID, move{
		to:      domain.StatusPaymentReview,
		comment: commentOr(input.Comment, "Documents verified"),
		check: func(ctx context.Context, app models.Application) error {
			rejected, err := s.docRepo.CountByStatus(ctx, app.Kind(), app.Core().ApplicationID, domain.DocumentRejected)
			if err != nil {
				return err
			}
			if rejected > 0 {
				return fmt.Errorf("%w: %d document(s) rejected", domain.ErrDocumentsRejected, rejected)
			}
			return nil
		},
		updates: s.reviewedBy(actor),
		effects: s.notifyStage(input.Comment),
	})
}

// ReturnToApplicant sends a reviewed application back for changes
func (s *WorkflowService) ReturnToApplicant(ctx context.Context, actor domain.Actor, applicationID string, input *TransitionInput) (models.Application, error) {
	if err := s.staffInput(actor, input, domain.RoleRegistrar, domain.RoleFinance, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Comment) == "" {
		return nil, validation.Field("comment", "is required when returning an application")
	}
	return s.apply(ctx, actor, applicationID, move{
		to:      domain.StatusNeedsApplicantAction,
		comment: input.Comment,
		updates: s.reviewedBy(actor),
		effects: s.notifyStage(input.Comment),
	})
}

// ApproveFinal approves a payment-reviewed application and creates the
// member or organization record.
func (s *WorkflowService) ApproveFinal(ctx context.Context, actor domain.Actor, applicationID string, input *TransitionInput) (models.Application, error) {
	if err := s.staffInput(actor, input, domain.RoleAdmin); err != nil {
		return nil, err
	}
	now := s.now()
	return s.apply(ctx, actor, applicationID, move{
		to:      domain.StatusApproved,
		comment: commentOr(input.Comment, "Application approved"),
		check: func(ctx context.Context, app models.Application) error {
			if !app.Core().CurrentFeeStatus().IsCleared() {
				return domain.ErrFeeNotSettled
			}
			return nil
		},
		updates: func(app models.Application) map[string]interface{} {
			return map[string]interface{}{
				"approved_at": now,
				"reviewed_at": now,
				"reviewer_id": actor.UserID,
			}
		},
		effects: func(ctx context.Context, app models.Application) error {
			number, expires, err := s.register(ctx, app, now)
			if err != nil {
				return err
			}
			if err := s.decisionRepo.Create(ctx, &models.RegistryDecision{
				ApplicationType: string(app.Kind()),
				ApplicationID:   app.Core().ApplicationID,
				Decision:        string(domain.DecisionAccepted),
				Reasons:         datatypes.NewJSONType([]string{}),
				DecidedBy:       actor.UserID,
				DecidedAt:       now,
			}); err != nil {
				return err
			}
			return s.notifications.QueueApproval(ctx, app, number, now, expires)
		},
	})
}

// register creates the member or organization record of an approved application
func (s *WorkflowService) register(ctx context.Context, app models.Application, now time.Time) (string, time.Time, error) {
	core := app.Core()
	number, err := series.RegistrationNumber(core.ApplicationID)
	if err != nil {
		return "", time.Time{}, err
	}
	expires := now.AddDate(0, s.policy.MembershipValidityMonths, 0)

	switch a := app.(type) {
	case *models.IndividualApplication:
		details, err := a.Details()
		if err != nil {
			return "", time.Time{}, err
		}
		member := &models.Member{
			MembershipNumber: number,
			ApplicationID:    core.ApplicationID,
			ApplicantID:      core.ApplicantID,
			UserID:           core.UserID,
			FullName:         details.Personal.FullName(),
			Email:            core.ApplicantEmail,
			NationalID:       details.Personal.NationalID,
			MemberType:       a.MemberType,
			Status:           string(domain.RegistrationActive),
			RegisteredAt:     now,
			ExpiresAt:        expires,
		}
		if err := s.registryRepo.CreateMember(ctx, member); err != nil {
			return "", time.Time{}, err
		}
		a.CreatedMemberID = &member.ID
		err = s.appRepo.UpdateFields(ctx, a, map[string]interface{}{"created_member_id": member.ID})
		return number, expires, err

	case *models.OrganizationApplication:
		details, err := a.Details()
		if err != nil {
			return "", time.Time{}, err
		}
		org := &models.Organization{
			RegistrationNumber: number,
			ApplicationID:      core.ApplicationID,
			ApplicantID:        core.ApplicantID,
			UserID:             core.UserID,
			LegalName:          details.Profile.LegalName,
			TradingName:        details.Profile.TradingName,
			CompanyNumber:      details.Profile.RegistrationNumber,
			Email:              details.Profile.Email,
			BusinessType:       a.BusinessType,
			PREAMemberNumber:   strings.ToUpper(strings.TrimSpace(details.PREAMemberNumber)),
			DirectorCount:      len(details.Directors),
			Status:             string(domain.RegistrationActive),
			RegisteredAt:       now,
			ExpiresAt:          expires,
		}
		if err := s.registryRepo.CreateOrganization(ctx, org); err != nil {
			return "", time.Time{}, err
		}
		a.CreatedOrganizationID = &org.ID
		err = s.appRepo.UpdateFields(ctx, a, map[string]interface{}{"created_organization_id": org.ID})
		return number, expires, err
	}
	return "", time.Time{}, fmt.Errorf("%w: %s", domain.ErrUnknownApplication, core.ApplicationID)
}

// Reject closes an application with a rejected decision
func (s *WorkflowService) Reject(ctx context.Context, actor domain.Actor, applicationID string, reasons []string, comment string) (models.Application, error) {
	if !hasRole(actor, domain.RoleRegistrar, domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	reasons = cleanReasons(reasons)
	if len(reasons) == 0 && strings.TrimSpace(comment) != "" {
		reasons = []string{strings.TrimSpace(comment)}
	}
	if len(reasons) == 0 {
		return nil, validation.Field("reasons", "at least one reason is required when rejecting")
	}
	now := s.now()
	return s.apply(ctx, actor, applicationID, move{
		to:      domain.StatusRejected,
		comment: commentOr(comment, strings.Join(reasons, "; ")),
		updates: func(app models.Application) map[string]interface{} {
			return map[string]interface{}{"reviewed_at": now, "reviewer_id": actor.UserID}
		},
		effects: func(ctx context.Context, app models.Application) error {
			if err := s.decisionRepo.Create(ctx, &models.RegistryDecision{
				ApplicationType: string(app.Kind()),
				ApplicationID:   app.Core().ApplicationID,
				Decision:        string(domain.DecisionRejected),
				Reasons:         datatypes.NewJSONType(reasons),
				DecidedBy:       actor.UserID,
				DecidedAt:       now,
			}); err != nil {
				return err
			}
			return s.notifications.QueueRejection(ctx, app, reasons)
		},
	})
}

// Decide records the final decision: accepted approves, rejected rejects
func (s *WorkflowService) Decide(ctx context.Context, actor domain.Actor, applicationID string, input *DecideInput) (models.Application, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if !hasRole(actor, domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if domain.DecisionOutcome(input.Decision) == domain.DecisionAccepted {
		return s.ApproveFinal(ctx, actor, applicationID, &TransitionInput{Comment: input.Comment})
	}
	return s.Reject(ctx, actor, applicationID, input.Reasons, input.Comment)
}

// Withdraw lets the applicant abandon an application before document review
func (s *WorkflowService) Withdraw(ctx context.Context, actor domain.Actor, applicationID string, input *TransitionInput) (models.Application, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	return s.apply(ctx, actor, applicationID, move{
		to:      domain.StatusWithdrawn,
		comment: commentOr(input.Comment, "Withdrawn by applicant"),
		check: func(ctx context.Context, app models.Application) error {
			if app.Core().UserID != actor.UserID {
				return domain.ErrForbidden
			}
			return nil
		},
		effects: s.notifyStage(input.Comment),
	})
}

// ExpireStale expires drafts untouched for longer than the policy TTL
func (s *WorkflowService) ExpireStale(ctx context.Context) (int, error) {
	cutoff := s.now().AddDate(0, 0, -s.policy.DraftTTLDays)
	statuses := []domain.ApplicationStatus{domain.StatusDraft, domain.StatusNeedsApplicantAction}
	comment := fmt.Sprintf("Expired after %d days without activity", s.policy.DraftTTLDays)

	expired := 0
	for {
		stale, err := s.appRepo.ListStale(ctx, statuses, cutoff, staleBatch)
		if err != nil {
			return expired, err
		}
		progressed := false
		for _, app := range stale {
			_, err := s.apply(ctx, domain.SystemActor, app.Core().ApplicationID, move{
				to:      domain.StatusExpired,
				comment: comment,
				effects: s.notifyStage(""),
			})
			switch {
			case err == nil:
				expired++
				progressed = true
			case errors.Is(err, domain.ErrStatusConflict), errors.Is(err, domain.ErrInvalidTransition):
				// the applicant acted meanwhile
			default:
				log.Printf("❌ Failed to expire %s: %v", app.Core().ApplicationID, err)
			}
		}
		if len(stale) < staleBatch || !progressed {
			return expired, nil
		}
	}
}

// apply loads the application and runs m in one transaction
func (s *WorkflowService) apply(ctx context.Context, actor domain.Actor, applicationID string, m move) (models.Application, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "workflow.transition")
	defer span.End()
	span.SetAttributes(
		attribute.String("application.id", applicationID),
		attribute.String("workflow.to", string(m.to)),
		attribute.String("actor.role", string(actor.Role)),
	)

	fail := func(err error) (models.Application, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	app, err := s.appRepo.Get(ctx, applicationID)
	if err != nil {
		return fail(notFound(err))
	}
	if err := authorize(app, actor); err != nil {
		return fail(err)
	}

	from := app.Core().CurrentStatus()
	span.SetAttributes(
		attribute.String("application.type", string(app.Kind())),
		attribute.String("workflow.from", string(from)),
	)
	if !domain.CanTransition(from, m.to) {
		return fail(fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, m.to))
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if m.check != nil {
			if err := m.check(ctx, app); err != nil {
				return err
			}
		}
		var updates map[string]interface{}
		if m.updates != nil {
			updates = m.updates(app)
		}
		if err := s.appRepo.Transition(ctx, app, from, m.to, updates); err != nil {
			return err
		}
		if err := s.audit.record(ctx, app, from, m.to, actor, m.comment); err != nil {
			return err
		}
		if m.effects != nil {
			return m.effects(ctx, app)
		}
		return nil
	})
	if err != nil {
		return fail(err)
	}

	s.metrics.transition(string(app.Kind()), string(m.to))
	s.dispatcher.Wake()
	log.Printf("🔄 %s: %s -> %s (%s %d)", applicationID, from, m.to, actor.Role, actor.UserID)

	fresh, err := s.appRepo.Get(ctx, applicationID)
	if err != nil {
		return app, nil
	}
	return fresh, nil
}

func (s *WorkflowService) notifyStage(comment string) func(ctx context.Context, app models.Application) error {
	return func(ctx context.Context, app models.Application) error {
		return s.notifications.QueueStatusChange(ctx, app, app.Core().CurrentStatus(), comment)
	}
}

func (s *WorkflowService) reviewedBy(actor domain.Actor) func(app models.Application) map[string]interface{} {
	return func(app models.Application) map[string]interface{} {
		return map[string]interface{}{"reviewed_at": s.now(), "reviewer_id": actor.UserID}
	}
}

func (s *WorkflowService) staffInput(actor domain.Actor, input *TransitionInput, roles ...domain.Role) error {
	if err := validation.Struct(input); err != nil {
		return err
	}
	if !hasRole(actor, roles...) {
		return domain.ErrForbidden
	}
	return nil
}

func hasRole(actor domain.Actor, roles ...domain.Role) bool {
	for _, r := range roles {
		if actor.Role == r {
			return true
		}
	}
	return false
}

func outcomeOf(res eligibility.Result) string {
	switch {
	case res.HardFail:
		return "rejected"
	case !res.OK:
		return "incomplete"
	}
	return "eligible"
}

func commentOr(comment, fallback string) string {
	if c := strings.TrimSpace(comment); c != "" {
		return c
	}
	return fallback
}

func cleanReasons(reasons []string) []string {
	out := make([]string, 0, len(reasons))
	for _, r := range reasons {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
